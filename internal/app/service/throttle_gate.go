package service

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// ThrottleGate pauses for a random duration between MinDelay and MaxDelay seconds,
// rounded to hundredths of a second.
type ThrottleGate struct {
	minSeconds float64
	maxSeconds float64
	random     func() float64
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewThrottleGate creates a gate drawing delays uniformly from [minSeconds, maxSeconds].
func NewThrottleGate(minSeconds, maxSeconds float64) *ThrottleGate {
	return &ThrottleGate{
		minSeconds: minSeconds,
		maxSeconds: maxSeconds,
		random:     rand.Float64,
		sleep:      sleepContext,
	}
}

// NextDelay draws the next pause duration.
func (g *ThrottleGate) NextDelay() time.Duration {
	seconds := g.random()*(g.maxSeconds-g.minSeconds) + g.minSeconds
	rounded := math.Round(seconds*100) / 100
	return time.Duration(math.Round(rounded*1000)) * time.Millisecond
}

// Pause blocks for the next delay or until ctx is done.
func (g *ThrottleGate) Pause(ctx context.Context) error {
	d := g.NextDelay()
	if d <= 0 {
		return ctx.Err()
	}
	return g.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
