package client

// Cursor tracks the highest message id already applied (the watermark).
// Unset means no messages applied yet: the next poll requests the full
// backlog. The watermark never decreases.
type Cursor struct {
	id  int64
	set bool
}

// Advance moves the watermark forward to id. Calls with an id at or
// below the current watermark are no-ops. Returns whether it moved.
func (c *Cursor) Advance(id int64) bool {
	if c.set && id <= c.id {
		return false
	}
	c.id = id
	c.set = true
	return true
}

// Current returns the watermark and whether it is set.
func (c *Cursor) Current() (int64, bool) {
	return c.id, c.set
}

// Reset clears the watermark, e.g. on leaving a lobby.
func (c *Cursor) Reset() {
	c.id = 0
	c.set = false
}
