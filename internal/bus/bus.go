// Package bus is a small in-process publish/subscribe hub. It decouples
// the schedule/message services from the trigger poller: mutations
// publish events, the poller subscribes and reacts on its own goroutine.
package bus

import (
	"log"
	"sync"
)

// Topics
const (
	TopicSchedulesChanged = "schedules.changed"
	TopicChatMessage      = "chat.message"
)

// Event is one published bus event
type Event struct {
	Topic   string
	Payload interface{}
}

// Handler is a callback for handling bus events. Handlers run on their
// own goroutine; a slow handler never blocks the publisher.
type Handler func(event Event)

// Bus is an in-process pub/sub hub
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New creates a new bus
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a topic
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	log.Printf("📡 [BUS] Subscribed to topic: %s", topic)
}

// Publish delivers an event to all handlers subscribed to its topic.
// Fire-and-forget: delivery order across handlers is not guaranteed.
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	event := Event{Topic: topic, Payload: payload}
	for _, handler := range handlers {
		go handler(event)
	}
}
