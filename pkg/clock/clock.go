package clock

import (
	"sync"
	"time"
)

// Clock supplies the ledger's time counter ("height"). Heights are abstract
// monotonically non-decreasing units; every mutating operation reads the
// height exactly once, callers never supply it.
type Clock interface {
	Height() int64
}

// System derives heights from wall-clock unix seconds, latched so the value
// never moves backwards even if the wall clock does.
type System struct {
	mu   sync.Mutex
	last int64
}

func NewSystem() *System { return &System{} }

func (s *System) Height() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now := time.Now().UTC().Unix(); now > s.last {
		s.last = now
	}
	return s.last
}

// Manual is a hand-driven clock for tests.
type Manual struct {
	mu sync.Mutex
	h  int64
}

func NewManual(h int64) *Manual { return &Manual{h: h} }

func (m *Manual) Height() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.h
}

func (m *Manual) Set(h int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h > m.h {
		m.h = h
	}
}

func (m *Manual) Advance(d int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.h += d
}
