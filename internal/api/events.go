package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func (s *Server) heartbeat() time.Duration {
	if s.Heartbeat <= 0 {
		return 15 * time.Second
	}
	return s.Heartbeat
}

func writeSSE(w http.ResponseWriter, typ string, v any) {
	b, _ := json.Marshal(v)
	fmt.Fprintf(w, "event: %s\n", typ)
	fmt.Fprintf(w, "data: %s\n\n", b)
}

// EventsStreamHandler handles GET /v1/events/stream (server-sent events).
func (s *Server) EventsStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe()
	defer s.Broker.Unsubscribe(ch)

	// initial heartbeat tells the client the subscription is live
	writeSSE(w, "heartbeat", map[string]string{"ts": time.Now().UTC().Format(time.RFC3339)})
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat())
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, evt.Type, evt)
			flusher.Flush()
		case <-ticker.C:
			writeSSE(w, "heartbeat", map[string]string{"ts": time.Now().UTC().Format(time.RFC3339)})
			flusher.Flush()
		}
	}
}
