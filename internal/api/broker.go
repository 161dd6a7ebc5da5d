package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a city-set or tour notification fanned out to SSE and WebSocket clients.
type Event struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	TS   string         `json:"ts"`
	Data map[string]any `json:"data,omitempty"`
}

const (
	EventCityAdded    = "city.added"
	EventCityRemoved  = "city.removed"
	EventTourComputed = "tour.computed"
)

func newEvent(typ string, data map[string]any) Event {
	return Event{
		ID:   "evt_" + uuid.NewString(),
		Type: typ,
		TS:   time.Now().UTC().Format(time.RFC3339),
		Data: data,
	}
}

// EventBroker fans events out to subscribers. Publish never blocks on slow subscribers.
type EventBroker interface {
	Subscribe() chan Event
	Unsubscribe(ch chan Event)
	Publish(evt Event)
	Close() error
}

// Broker is the in-process EventBroker.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}
