package testutil

import "sync"

// ExitRecorder captures process-termination requests so tests can observe
// which side of a termination race fired, and with what status. Unlike
// os.Exit, its Exit returns to the caller.
type ExitRecorder struct {
	mu    sync.Mutex
	codes []int
	fired chan struct{}
	once  sync.Once
}

// NewExitRecorder returns a recorder whose Exit can stand in for os.Exit.
func NewExitRecorder() *ExitRecorder {
	return &ExitRecorder{fired: make(chan struct{})}
}

// Exit records code and returns.
func (r *ExitRecorder) Exit(code int) {
	r.mu.Lock()
	r.codes = append(r.codes, code)
	r.mu.Unlock()

	r.once.Do(func() { close(r.fired) })
}

// Fired returns a channel that is closed after the first Exit call.
func (r *ExitRecorder) Fired() <-chan struct{} {
	return r.fired
}

// Codes returns all recorded statuses in call order.
func (r *ExitRecorder) Codes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int(nil), r.codes...)
}
