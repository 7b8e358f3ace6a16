package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// Buffer is an io.Writer that is safe for concurrent writers.
//
// Used by tests that capture output written from more than one goroutine,
// where a plain bytes.Buffer would race.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p under the lock.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// Lines returns the complete lines written so far, without the trailing
// newline of the last one.
func (b *Buffer) Lines() []string {
	s := strings.TrimSuffix(b.String(), "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}
