package syncer

import "time"

// SetClock replaces the clock and tag generator for deterministic tests.
func (c *Coordinator) SetClock(now func() time.Time, newID func() string) {
	c.now = now
	c.newID = newID
}
