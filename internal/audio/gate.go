package audio

// SilenceConfig holds the gate settings read at session start. Changing the
// config while a session is running does not affect the running gate.
type SilenceConfig struct {
	Enabled   bool
	Threshold float32
	MinRun    int
}

// Gate drops runs of low-amplitude samples once a run is long enough to count
// as silence. Samples inside the grace window (a run shorter than MinRun) are
// kept, so brief dips between words survive. State lives for one capture
// session and is only touched by the real-time callback.
type Gate struct {
	enabled   bool
	threshold float32
	minRun    int

	run       int
	inSilence bool
}

// NewGate returns a gate with the given session config and fresh run state.
func NewGate(cfg SilenceConfig) Gate {
	return Gate{enabled: cfg.Enabled, threshold: cfg.Threshold, minRun: cfg.MinRun}
}

// Keep reports whether sample survives the gate and advances the run state.
// Hot path: O(1), no allocation. The threshold comparison is strict, and the
// sample whose run reaches MinRun is itself dropped.
func (g *Gate) Keep(sample float32) bool {
	if !g.enabled {
		return true
	}

	amp := sample
	if amp < 0 {
		amp = -amp
	}

	if amp > g.threshold {
		if g.inSilence {
			g.run = 0
			g.inSilence = false
		}
		return true
	}

	if g.inSilence {
		return false
	}
	g.run++
	if g.run >= g.minRun {
		g.inSilence = true
		return false
	}
	return true
}

// Reset clears the run state for a new session.
func (g *Gate) Reset() {
	g.run = 0
	g.inSilence = false
}
