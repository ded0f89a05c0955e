// Package observable provides a single-value container that notifies subscribers on write.
package observable

import "sync"

// Observer receives the new value after each write.
type Observer[T any] func(T)

// Value holds exactly one current value of T.
// Writes replace the value wholesale and notify observers synchronously,
// in subscription order, before Set returns.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	version uint64

	// writeMu serializes Set so observers see writes in issue order.
	writeMu sync.Mutex

	nextID    uint64
	observers []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Observer[T]
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Version returns the number of writes applied so far.
func (v *Value[T]) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Set replaces the value and notifies observers. It returns the new version.
// Observers must not call Set on the same Value.
func (v *Value[T]) Set(next T) uint64 {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	v.mu.Lock()
	v.current = next
	v.version++
	version := v.version
	observers := make([]subscription[T], len(v.observers))
	copy(observers, v.observers)
	v.mu.Unlock()

	for _, s := range observers {
		s.fn(next)
	}
	return version
}

// Subscribe registers fn for future writes and returns a function that removes it.
// The current value is not replayed.
func (v *Value[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextID++
	id := v.nextID
	v.observers = append(v.observers, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.observers {
				if s.id == id {
					v.observers = append(v.observers[:i], v.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Observers returns the number of registered observers.
func (v *Value[T]) Observers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.observers)
}
