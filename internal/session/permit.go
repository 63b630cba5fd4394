package session

import "sync/atomic"

// Permit is the single-slot token allowing at most one recording session
// system-wide. Acquisition never blocks; a press while the permit is held is
// simply ignored, which guards against stuck or overlapping sessions.
type Permit struct {
	held atomic.Bool
}

// TryAcquire claims the permit, reporting false if it is already held.
func (p *Permit) TryAcquire() bool {
	return p.held.CompareAndSwap(false, true)
}

// Release returns the permit.
func (p *Permit) Release() {
	p.held.Store(false)
}

// Held reports whether the permit is currently claimed.
func (p *Permit) Held() bool {
	return p.held.Load()
}
