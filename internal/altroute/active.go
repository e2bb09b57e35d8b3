package altroute

import (
	"time"

	"github.com/altroute/altroute/internal/model"
)

// activeRoute is the alternative route that last won a race.
type activeRoute struct {
	backend   model.Backend
	expiresAt time.Time
}

// setActive makes the given backend the active route.
func (c *Coordinator) setActive(backend model.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = &activeRoute{
		backend:   backend,
		expiresAt: c.timeNow().Add(c.activePeriod),
	}
}

// ActiveBackend returns the alternative backend that last won a race while
// it is still fresh, and nil otherwise. An expired route is forgotten.
func (c *Coordinator) ActiveBackend() model.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	if c.timeNow().After(c.active.expiresAt) {
		c.active = nil
		return nil
	}
	return c.active.backend
}

// ResetActiveBackend forgets the active route.
func (c *Coordinator) ResetActiveBackend() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}
