package hotkey

// Manager monitors a global accelerator and reports raw press/release edges.
// The callback runs on the monitor's own goroutine; consumers are expected to
// tolerate duplicate or spurious events.
type Manager interface {
	Register(accel string, callback func(pressed bool)) error
	Unregister(accel string) error
	Close() error
}
