package gesture

import (
	"math"
	"sync/atomic"
)

const hasValue = uint64(1) << 32

// Mailbox is a single-slot, last-value-wins handoff between the gesture
// producer and the render loop. Publish and Latest never block.
type Mailbox struct {
	slot atomic.Uint64
}

func (m *Mailbox) Publish(v float32) {
	m.slot.Store(hasValue | uint64(math.Float32bits(v)))
}

// Latest returns the most recent value; ok is false until the first Publish.
func (m *Mailbox) Latest() (v float32, ok bool) {
	s := m.slot.Load()
	if s&hasValue == 0 {
		return 0, false
	}
	return math.Float32frombits(uint32(s)), true
}
