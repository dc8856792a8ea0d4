package eventbus

import "sync"

type Handler[T any] func(T)

type subscription[T any] struct {
	id      uint64
	handler Handler[T]
}

// Bus fans events out to subscribers in the order they subscribed. Handlers
// run on the publishing goroutine.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscription[T]
	nextID uint64
}

func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers handler and returns the function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	snapshot := make([]Handler[T], len(b.subs))
	for i, s := range b.subs {
		snapshot[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Value is a piece of shared state whose changes are published on a bus,
// such as whether a session is currently listening.
type Value[T comparable] struct {
	mu      sync.RWMutex
	current T
	changes *Bus[T]
}

func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{current: initial, changes: New[T]()}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set stores next and notifies subscribers when it differs from the current
// value.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	if v.current == next {
		v.mu.Unlock()
		return
	}
	v.current = next
	v.mu.Unlock()

	v.changes.Publish(next)
}

func (v *Value[T]) Subscribe(handler Handler[T]) func() {
	return v.changes.Subscribe(handler)
}
