// Package reactor models an incinerator's core bank and the timed
// neurotoxin release that ends every run.
package reactor

import "fmt"

// CoreCount is the fixed number of cores in a bank.
const CoreCount = 4

// Bank is a fixed bank of core status flags. A nonzero flag means the core
// is active. Use NewBank; the zero value has no active cores at all.
type Bank struct {
	cores [CoreCount]int
}

// NewBank returns a bank in its boot state: core 0 active, every other core
// unpowered.
func NewBank() *Bank {
	return &Bank{cores: [CoreCount]int{1, 0, 0, 0}}
}

// Incinerate marks core n inactive. The index is checked against the bank
// bounds before anything is written; out-of-range indices return
// ErrCoreOutOfRange and leave the bank untouched. Incinerating an already
// inactive core is a no-op.
func (b *Bank) Incinerate(n int) error {
	if n < 0 || n >= CoreCount {
		return fmt.Errorf("%w: %d", ErrCoreOutOfRange, n)
	}

	b.cores[n] = 0

	return nil
}

// Active reports whether core n is active. Out-of-range cores are not.
func (b *Bank) Active(n int) bool {
	if n < 0 || n >= CoreCount {
		return false
	}

	return b.cores[n] != 0
}

// Healthy reports whether every core in the bank is active. A single dark
// core makes the whole bank unhealthy, so a freshly booted bank is already
// failing its own health check.
func (b *Bank) Healthy() bool {
	for _, core := range b.cores {
		if core == 0 {
			return false
		}
	}

	return true
}
