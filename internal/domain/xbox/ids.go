package xbox

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator hands out friend request identifiers.
type IDGenerator interface {
	NextID(prefix string) (string, error)
}

// ClockIDs derives identifiers from the wall clock at microsecond precision.
// Identifiers are strictly increasing even when the clock stalls or steps back.
type ClockIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClockIDs builds a generator on now; nil means time.Now.
func NewClockIDs(now func() time.Time) *ClockIDs {
	if now == nil {
		now = time.Now
	}
	return &ClockIDs{now: now}
}

// NextID returns prefix followed by a seconds.micros timestamp.
func (g *ClockIDs) NextID(prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	micros := g.now().UnixMicro()
	if micros <= g.last {
		micros = g.last + 1
	}
	g.last = micros
	return fmt.Sprintf("%s%d.%06d", prefix, micros/1_000_000, micros%1_000_000), nil
}
