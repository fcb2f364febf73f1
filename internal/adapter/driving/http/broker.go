package httphandler

import (
	"encoding/json"
	"sync"
)

// Event names streamed to the browser.
const (
	EventAPIError = "api-error"
	EventNavigate = "navigate"
)

type message struct {
	Event string
	Data  string
}

// Broker fans events out to every connected event stream. Slow subscribers
// drop events rather than block publishers.
type Broker struct {
	mu   sync.Mutex
	subs map[chan message]struct{}
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan message]struct{})}
}

func (b *Broker) subscribe() chan message {
	ch := make(chan message, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish sends payload, JSON-encoded, as event to all subscribers.
func (b *Broker) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	msg := message{Event: event, Data: string(data)}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers returns the number of connected streams.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
