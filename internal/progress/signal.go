package progress

import "sync"

// Signal is a one-shot completion flag shared between the watcher and the
// supervisor. It only ever moves from unset to set, so redundant Set calls
// from either side are safe and no lock is needed around reads.
type Signal struct {
	once sync.Once
	done chan struct{}
}

func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set marks the download as finished. Idempotent.
func (s *Signal) Set() {
	s.once.Do(func() { close(s.done) })
}

// Fired reports whether the signal has been set.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the signal is set.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
