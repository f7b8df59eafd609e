package notifier

import "sync"

// Visibility delivers "view became visible" events to one-time listeners.
type Visibility struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func NewVisibility() *Visibility {
	return &Visibility{listeners: make(map[int]func())}
}

// Once registers fn for the next visible event only. The returned function
// unregisters it.
func (v *Visibility) Once(fn func()) (cancel func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.listeners[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// SetVisible fires and clears every pending listener.
func (v *Visibility) SetVisible() {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.listeners))
	for id, fn := range v.listeners {
		fns = append(fns, fn)
		delete(v.listeners, id)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (v *Visibility) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}
