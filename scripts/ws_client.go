// Package main runs a demo WebSocket client for city and tour events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/events/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	pl, _ := json.Marshal(map[string]any{"types": []string{"city.added", "tour.computed"}})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
		}
	}()

	time.Sleep(500 * time.Millisecond)
	name := fmt.Sprintf("demo-%d", time.Now().Unix()%1000)
	body := []byte(fmt.Sprintf(`{"name":%q,"coordinates":"19.432713, -99.133183"}`, name))
	resp, err := http.Post(base+"/v1/cities", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	log.Printf("POST /v1/cities %s -> %d", name, resp.StatusCode)

	resp, err = http.Get(base + "/v1/tour?seed=42")
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	log.Printf("GET /v1/tour -> %d", resp.StatusCode)

	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
