package audit

import (
	"context"
	"sync"
	"time"
)

// InMemoryPublisher appends events to a slice. Test and single-process
// stand-in for the Kafka publisher.
type InMemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// ListByEmail returns recorded events for one email, oldest first.
func (p *InMemoryPublisher) ListByEmail(_ context.Context, email string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Event
	for _, e := range p.events {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out
}
