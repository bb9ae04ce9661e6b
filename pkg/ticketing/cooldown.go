package ticketing

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// cooldown limits how often a user can create tickets. Limiters of idle users are evicted.
type cooldown struct {
	every time.Duration
	idle  time.Duration

	mu        sync.Mutex
	limiters  map[string]*userLimiter
	lastSweep time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newCooldown(every time.Duration) *cooldown {
	return &cooldown{
		every:    every,
		idle:     2 * every,
		limiters: make(map[string]*userLimiter),
	}
}

// allow reports whether the user may create a ticket at now, and records the attempt if so.
func (c *cooldown) allow(userID string, now time.Time) bool {
	if c.every <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep(now)

	l, ok := c.limiters[userID]
	if !ok {
		l = &userLimiter{limiter: rate.NewLimiter(rate.Every(c.every), 1)}
		c.limiters[userID] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// sweep evicts users whose limiter has been full for longer than the idle period.
func (c *cooldown) sweep(now time.Time) {
	if now.Sub(c.lastSweep) < c.idle {
		return
	}
	c.lastSweep = now

	for id, l := range c.limiters {
		if now.Sub(l.lastSeen) >= c.idle {
			delete(c.limiters, id)
		}
	}
}

func (c *cooldown) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}
