package counter

import (
	"fmt"
)

// Checks that a counter's fields are consistent with each other.
func (c *Counter) validate() error {
	if c.min < 0 {
		return fmt.Errorf("min %d is negative", c.min)
	}
	if c.min > c.max {
		return fmt.Errorf("min %d is greater than max %d", c.min, c.max)
	}
	if c.value < c.min || c.value > c.max {
		return fmt.Errorf("value %d is out of range [%d, %d]", c.value, c.min, c.max)
	}
	if !c.dir.valid() {
		return fmt.Errorf("invalid direction %d", int(c.dir))
	}
	if c.policy == nil {
		return fmt.Errorf("nil policy")
	}
	return nil
}

// Panics if the counter is inconsistent. Compiled out with the "release" build tag.
func (c *Counter) checkInvariant() {
	if !invariantChecks {
		return
	}
	if err := c.validate(); err != nil {
		panic(fmt.Errorf("%w: %v", ErrInvariantViolated, err))
	}
}
