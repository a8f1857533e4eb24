// Package event implements the publish/subscribe hub that decouples the
// dashboard components. Delivery is synchronous; a failing handler is
// isolated and logged so it cannot block delivery to the others.
package event

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Handler receives the payload of a published event.
type Handler func(payload interface{})

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a named-topic pub/sub hub. The zero value is not usable;
// construct with NewBus.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Topic][]subscription
	debounce map[Topic]*DelayedTask
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Topic][]subscription),
		debounce: make(map[Topic]*DelayedTask),
	}
}

// Subscribe registers a handler for a topic and returns its
// unsubscribe function. Handlers are invoked in registration order,
// but subscribers must not rely on that ordering.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: handler})

	return func() {
		b.remove(topic, id)
	}
}

// SubscribeOnce registers a handler that unsubscribes itself after its
// first invocation.
func (b *Bus) SubscribeOnce(topic Topic, handler Handler) func() {
	var once sync.Once
	var unsubscribe func()

	unsubscribe = b.Subscribe(topic, func(payload interface{}) {
		once.Do(func() {
			defer unsubscribe()
			handler(payload)
		})
	})
	return unsubscribe
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[topic]
	for i, s := range subs {
		if s.id == id {
			b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[topic]) == 0 {
		delete(b.handlers, topic)
	}
}

// Publish synchronously invokes all handlers registered for topic.
// A panicking handler is recovered and logged without aborting
// delivery to the remaining handlers.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.Lock()
	subs := make([]subscription, len(b.handlers[topic]))
	copy(subs, b.handlers[topic])
	b.mu.Unlock()

	for _, s := range subs {
		invoke(topic, s.handler, payload)
	}
}

func invoke(topic Topic, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("topic", string(topic)).
				Str("panic", fmt.Sprint(r)).
				Msg("Event handler failed")
		}
	}()
	h(payload)
}

// PublishDebounced coalesces rapid repeated publishes to the same topic
// into a single delivery after delay of quiescence. Each call cancels
// and restarts the window; only the last payload survives.
func (b *Bus) PublishDebounced(topic Topic, payload interface{}, delay time.Duration) {
	b.mu.Lock()
	task, ok := b.debounce[topic]
	if !ok {
		task = &DelayedTask{}
		b.debounce[topic] = task
	}
	b.mu.Unlock()

	task.Schedule(delay, func() {
		b.Publish(topic, payload)
	})
}

// Clear removes all handlers for the given topics, or every handler
// and pending debounce when called without arguments.
func (b *Bus) Clear(topics ...Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(topics) == 0 {
		b.handlers = make(map[Topic][]subscription)
		for _, task := range b.debounce {
			task.Cancel()
		}
		b.debounce = make(map[Topic]*DelayedTask)
		return
	}
	for _, t := range topics {
		delete(b.handlers, t)
		if task, ok := b.debounce[t]; ok {
			task.Cancel()
			delete(b.debounce, t)
		}
	}
}

// HandlerCount returns the number of handlers registered for topic.
func (b *Bus) HandlerCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[topic])
}
