package event

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSubscribePublish(t *testing.T) {
	bus := NewBus()

	t.Run("Delivers_Payload", func(t *testing.T) {
		var got interface{}
		bus.Subscribe(TopicFilterChange, func(payload interface{}) {
			got = payload
		})

		bus.Publish(TopicFilterChange, "payload")
		if got != "payload" {
			t.Errorf("Expected payload to be delivered, got %v", got)
		}
	})

	t.Run("Multiple_Handlers", func(t *testing.T) {
		bus := NewBus()
		var calls int
		for i := 0; i < 3; i++ {
			bus.Subscribe(TopicDataLoaded, func(interface{}) { calls++ })
		}

		bus.Publish(TopicDataLoaded, nil)
		if calls != 3 {
			t.Errorf("Expected 3 handler calls, got %d", calls)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		bus := NewBus()
		var calls int
		unsubscribe := bus.Subscribe(TopicTabChange, func(interface{}) { calls++ })

		bus.Publish(TopicTabChange, nil)
		unsubscribe()
		bus.Publish(TopicTabChange, nil)

		if calls != 1 {
			t.Errorf("Expected 1 call after unsubscribe, got %d", calls)
		}
		if bus.HandlerCount(TopicTabChange) != 0 {
			t.Error("Expected empty topic bucket to be removed")
		}
	})
}

func TestSubscribeOnce(t *testing.T) {
	bus := NewBus()
	var calls int
	bus.SubscribeOnce(TopicReportReady, func(interface{}) { calls++ })

	bus.Publish(TopicReportReady, nil)
	bus.Publish(TopicReportReady, nil)

	if calls != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls)
	}
	if bus.HandlerCount(TopicReportReady) != 0 {
		t.Error("Expected once-handler to be removed after first delivery")
	}
}

func TestPanickingHandlerDoesNotAbortDelivery(t *testing.T) {
	bus := NewBus()
	var reached bool

	bus.Subscribe(TopicDataError, func(interface{}) {
		panic("faulty subscriber")
	})
	bus.Subscribe(TopicDataError, func(interface{}) {
		reached = true
	})

	bus.Publish(TopicDataError, nil)

	if !reached {
		t.Error("Expected delivery to continue past a panicking handler")
	}
}

func TestPublishDebounced(t *testing.T) {
	bus := NewBus()

	var calls int32
	var last atomic.Value
	bus.Subscribe(TopicFilterChange, func(payload interface{}) {
		atomic.AddInt32(&calls, 1)
		last.Store(payload)
	})

	// Rapid repeats within the window collapse to one delivery
	// carrying the final payload.
	for i := 1; i <= 5; i++ {
		bus.PublishDebounced(TopicFilterChange, i, 30*time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected 1 coalesced delivery, got %d", n)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("Expected last payload 5 to survive, got %v", got)
	}
}

func TestClear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TopicFilterChange, func(interface{}) {})
	bus.Subscribe(TopicTabChange, func(interface{}) {})

	bus.Clear(TopicFilterChange)
	if bus.HandlerCount(TopicFilterChange) != 0 {
		t.Error("Expected cleared topic to have no handlers")
	}
	if bus.HandlerCount(TopicTabChange) != 1 {
		t.Error("Expected other topics to be untouched")
	}

	bus.Clear()
	if bus.HandlerCount(TopicTabChange) != 0 {
		t.Error("Expected full clear to remove all handlers")
	}
}

func TestDelayedTaskReschedule(t *testing.T) {
	var task DelayedTask
	var fired int32

	task.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	task.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("Expected reschedule to replace pending run, got %d runs", n)
	}

	task.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	task.Cancel()
	time.Sleep(40 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("Expected cancel to stop pending run, got %d runs", n)
	}
}
