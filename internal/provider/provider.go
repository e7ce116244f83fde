// Package provider holds the plumbing shared by the mocked external
// providers: an injectable source of randomness and simulated latency.
package provider

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
)

// Rand is the randomness a mock provider needs. Tests inject a fixed source.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand returns a Rand backed by the process-wide generator.
func DefaultRand() Rand { return globalRand{} }

// Delay picks a duration uniformly from [lo, hi]. hi < lo is treated as lo.
func Delay(rnd Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rnd.Float64()*float64(hi-lo))
}

// Wait blocks for a random duration in [lo, hi] on clock, or until ctx is done.
// A non-positive duration returns immediately without touching the clock.
func Wait(ctx context.Context, clock clockwork.Clock, rnd Rand, lo, hi time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := Delay(rnd, lo, hi)
	if d <= 0 {
		return nil
	}
	select {
	case <-clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
