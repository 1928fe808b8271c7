package sim

import "math/rand"

// ResetController decides when detached particles start returning home.
// Once more particles are detached than the current threshold, the reset
// stays on until every particle is tethered again; at that point a new
// threshold is drawn from [minFrac, maxFrac) of the particle count.
type ResetController struct {
	minFrac, maxFrac float64
	rng              *rand.Rand
	threshold        float64
	active           bool
	last             int
	cycles           int
}

func NewResetController(minFrac, maxFrac float64, total int, rng *rand.Rand) *ResetController {
	c := &ResetController{minFrac: minFrac, maxFrac: maxFrac, rng: rng}
	c.threshold = c.draw(total)
	return c
}

func (c *ResetController) draw(total int) float64 {
	f := c.minFrac
	if c.maxFrac > c.minFrac {
		f += c.rng.Float64() * (c.maxFrac - c.minFrac)
	}
	return float64(total) * f
}

// Update feeds the detached count of the tick that just ran and returns
// whether detached particles should advance their lifecycle.
func (c *ResetController) Update(detached, total int) bool {
	switch {
	case detached == 0:
		if c.last != 0 {
			c.threshold = c.draw(total)
		}
		c.active = false
	case float64(detached) > c.threshold:
		if !c.active {
			c.cycles++
		}
		c.active = true
	}
	c.last = detached
	return c.active
}

func (c *ResetController) Active() bool       { return c.active }
func (c *ResetController) Threshold() float64 { return c.threshold }
func (c *ResetController) Cycles() int        { return c.cycles }
