package hotkey

import "sync"

// callbackRegistry maps native keycodes to callbacks. Register runs on the
// caller's goroutine while the platform event loop reads concurrently, so
// access goes through a mutex.
type callbackRegistry struct {
	mu    sync.Mutex
	byKey map[int]func(bool)
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{byKey: make(map[int]func(bool))}
}

func (r *callbackRegistry) set(keycode int, cb func(bool)) {
	r.mu.Lock()
	r.byKey[keycode] = cb
	r.mu.Unlock()
}

func (r *callbackRegistry) get(keycode int) (func(bool), bool) {
	r.mu.Lock()
	cb, ok := r.byKey[keycode]
	r.mu.Unlock()
	return cb, ok
}
