package gesture

import (
	"context"
	"math"
	"time"
)

// Oscillator stands in for a hand tracker: it publishes a slow breathing
// signal at roughly camera frame rate.
type Oscillator struct {
	Mailbox  *Mailbox
	Interval time.Duration
	Speed    float64 // radians per second
}

func NewOscillator(mb *Mailbox) *Oscillator {
	return &Oscillator{Mailbox: mb, Interval: time.Second / 30, Speed: 0.8}
}

// Value is the openness published t seconds after start.
func (o *Oscillator) Value(t float64) float32 {
	return float32(0.5 + 0.5*math.Sin(t*o.Speed))
}

func (o *Oscillator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()
	start := time.Now()
	o.Mailbox.Publish(o.Value(0))

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			o.Mailbox.Publish(o.Value(now.Sub(start).Seconds()))
		}
	}
}
