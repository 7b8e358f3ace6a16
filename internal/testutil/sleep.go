package testutil

import (
	"context"
	"sync"
	"time"
)

// Sleeper is a recording stand-in for real sleeping: it returns immediately
// and remembers every requested pause, so time-driven loops become
// deterministic in tests.
type Sleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

// Sleep records d and returns right away. A ctx that is already done wins
// over the recording, matching the real sleep's contract.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slept = append(s.slept, d)

	return nil
}

// Slept returns the recorded pauses in request order.
func (s *Sleeper) Slept() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Duration(nil), s.slept...)
}
