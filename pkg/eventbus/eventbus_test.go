package eventbus

import (
	"sync"
	"testing"
)

func TestPublishInSubscriptionOrder(t *testing.T) {
	bus := New[int]()

	var got []string
	bus.Subscribe(func(v int) { got = append(got, "a") })
	bus.Subscribe(func(v int) { got = append(got, "b") })
	bus.Subscribe(func(v int) { got = append(got, "c") })

	bus.Publish(1)

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("delivery order = %v, want [a b c]", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New[string]()

	calls := 0
	unsubscribe := bus.Subscribe(func(string) { calls++ })
	other := bus.Subscribe(func(string) {})

	bus.Publish("x")
	unsubscribe()
	unsubscribe()
	bus.Publish("y")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if bus.Count() != 1 {
		t.Errorf("Count() = %d, want 1", bus.Count())
	}

	other()
	if bus.Count() != 0 {
		t.Errorf("Count() = %d, want 0", bus.Count())
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := New[int]()

	var unsubscribe func()
	calls := 0
	unsubscribe = bus.Subscribe(func(int) {
		calls++
		unsubscribe()
	})

	bus.Publish(1)
	bus.Publish(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := New[int]()

	var mu sync.Mutex
	total := 0
	bus.Subscribe(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(1)
		}()
	}
	wg.Wait()

	if total != 50 {
		t.Errorf("total = %d, want 50", total)
	}
}

func TestValue(t *testing.T) {
	listening := NewValue(false)

	var seen []bool
	listening.Subscribe(func(v bool) { seen = append(seen, v) })

	listening.Set(true)
	listening.Set(true)
	listening.Set(false)

	if len(seen) != 2 || seen[0] != true || seen[1] != false {
		t.Errorf("changes = %v, want [true false]", seen)
	}
	if listening.Get() {
		t.Error("Get() = true, want false")
	}
}
