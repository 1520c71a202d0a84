/*
Package counter provides bounded integer counters that move one unit at a time.

A counter holds a single value within an inclusive range [Min, Max], which is
[0, MaxValue] for every kind except range counters. Advancing moves the value
one unit in the counter's direction; stepping back moves it one unit the other
way. While the step stays inside the range, every counter behaves the same.
When it would leave the range, the counter's Policy decides the outcome.

  # BEGIN ASCII ART

               advance: value+1
                   .-----.
                   |     v
            +---------------+   advance   +--------+
            |   below max   | ----------> | at max |
            +---------------+             +--------+
                   ^                          |  advance
                   |                          v
                   |                     +--------+
                   '---- wrap (min) ---- | policy | ---- stop ----> at max
                                         +--------+
                                              |
                                              '----- throw ---> error, no transition

  # END ASCII ART
  # ALT TEXT: State diagram of an ascending counter. "below max" loops onto itself
              on advance, incrementing the value, and moves to "at max" when the
              value reaches the maximum. Advancing "at max" delegates to the policy:
              wrap goes back to "below max" at the minimum, stop stays "at max", and
              throw raises an error without changing state.

Descending counters mirror the diagram with min and max swapped. Reversing
counters flip their direction at the bound and take one step in the new
direction instead of wrapping.
*/
package counter

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/uuid"
)

var (
	uuidv1 = randomUUIDv1 // Stubbed for mocking in mocks_test.go
)

// MaxValue is the largest value a counter can hold.
const MaxValue int32 = math.MaxInt32

// +-----------------------+
// | Basic data structures |
// +-----------------------+

// Direction is the way a counter travels when advanced.
type Direction int

const (
	// Ascending counters increase their value when advanced.
	Ascending Direction = iota
	// Descending counters decrease their value when advanced.
	Descending
)

// Kind identifies the pre-configured behaviour a counter was built with.
type Kind int

const (
	// KindPlain counters ascend over [0, MaxValue], wrapping to 0.
	KindPlain Kind = iota
	// KindDescending counters descend over [0, MaxValue], wrapping to MaxValue.
	KindDescending
	// KindBidirectional counters step both ways, wrapping at either end.
	KindBidirectional
	// KindOscillating counters step both ways, reversing at either end.
	KindOscillating
	// KindRange counters ascend over [min, max], wrapping to min.
	KindRange
	// KindStopping counters stay at MaxValue once reached.
	KindStopping
	// KindThrowing counters fail with ErrOverflow past MaxValue.
	KindThrowing
	// KindCustom counters ascend with a caller-provided Policy.
	KindCustom
)

var kindNames = []string{
	KindPlain:         "plain",
	KindDescending:    "descending",
	KindBidirectional: "bidirectional",
	KindOscillating:   "oscillating",
	KindRange:         "range",
	KindStopping:      "stopping",
	KindThrowing:      "throwing",
	KindCustom:        "custom",
}

// Counter is a value in [Min, Max] that moves one unit at a time.
//
// A Counter must be created with one of the constructors. Copying the struct
// directly shares the identity of the original; use Clone instead.
type Counter struct {
	// id identifies this counter instance. Clones get a fresh id.
	id uuid.UUID
	// kind is the constructor used to build this counter.
	kind Kind
	// value is the current count.
	value int32
	// dir is the direction taken by Advance.
	dir Direction
	// min and max are the inclusive bounds of value.
	min, max int32
	// policy decides what happens when a step would leave [min, max].
	policy Policy
}

// +--------+
// | Errors |
// +--------+

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOverflow          = errors.New("counter overflow")
	ErrNotReversible     = errors.New("counter can't step back")
	ErrUnknownPolicy     = errors.New("unknown overflow policy")
	ErrPolicyOutOfRange  = errors.New("policy result out of counter range")
	ErrInvariantViolated = errors.New("counter invariant violated")
)

// +--------------+
// | Construction |
// +--------------+

func newCounter(kind Kind, min, max, value int32, dir Direction, policy Policy) (*Counter, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: value must be non-negative, got %d", ErrInvalidArgument, value)
	}
	if min < 0 {
		return nil, fmt.Errorf("%w: min must be non-negative, got %d", ErrInvalidArgument, min)
	}
	if min > max {
		return nil, fmt.Errorf("%w: min must be less than or equal to max, got [%d, %d]", ErrInvalidArgument, min, max)
	}
	if value < min || value > max {
		return nil, fmt.Errorf("%w: value must be in the range [%d, %d], got %d", ErrInvalidArgument, min, max, value)
	}
	if !dir.valid() {
		return nil, fmt.Errorf("%w: invalid direction %d", ErrInvalidArgument, int(dir))
	}
	if policy == nil {
		policy = WrapPolicy{}
	}
	c := &Counter{
		id:     uuidv1(),
		kind:   kind,
		value:  value,
		dir:    dir,
		min:    min,
		max:    max,
		policy: policy,
	}
	c.checkInvariant()
	return c, nil
}

// New creates an ascending counter that wraps to 0 when advanced past MaxValue.
func New(value int32) (*Counter, error) {
	return newCounter(KindPlain, 0, MaxValue, value, Ascending, WrapPolicy{})
}

// NewDescending creates a descending counter that wraps to MaxValue when advanced past 0.
func NewDescending(value int32) (*Counter, error) {
	return newCounter(KindDescending, 0, MaxValue, value, Descending, WrapPolicy{})
}

// NewBidirectional creates a counter that may step in both directions, wrapping at
// both ends of [0, MaxValue]. Its direction never changes.
func NewBidirectional(value int32, dir Direction) (*Counter, error) {
	return newCounter(KindBidirectional, 0, MaxValue, value, dir, WrapPolicy{})
}

// NewOscillating creates a counter that may step in both directions, reversing its
// direction whenever it reaches either end of [0, MaxValue].
func NewOscillating(value int32, dir Direction) (*Counter, error) {
	return newCounter(KindOscillating, 0, MaxValue, value, dir, ReversePolicy{})
}

// NewRange creates an ascending counter over [min, max] that wraps to min when
// advanced past max.
func NewRange(min, max, value int32) (*Counter, error) {
	return newCounter(KindRange, min, max, value, Ascending, WrapPolicy{})
}

// NewStopping creates an ascending counter that stays at MaxValue once reached.
func NewStopping(value int32) (*Counter, error) {
	return newCounter(KindStopping, 0, MaxValue, value, Ascending, StopPolicy{})
}

// NewThrowing creates an ascending counter that fails with ErrOverflow when
// advanced at MaxValue.
func NewThrowing(value int32) (*Counter, error) {
	return newCounter(KindThrowing, 0, MaxValue, value, Ascending, ThrowPolicy{})
}

// NewWithPolicy creates an ascending counter over [0, MaxValue] whose behaviour at
// MaxValue is decided by policy. A nil policy wraps.
func NewWithPolicy(value int32, policy Policy) (*Counter, error) {
	return newCounter(KindCustom, 0, MaxValue, value, Ascending, policy)
}

// Clone returns an independent copy of the counter, with a new ID.
func (c *Counter) Clone() *Counter {
	c.checkInvariant()
	clone := *c
	clone.id = uuidv1()
	return &clone
}

// +-----------+
// | Accessors |
// +-----------+

// Value returns the current value of the counter.
func (c *Counter) Value() int32 {
	c.checkInvariant()
	return c.value
}

// Dir returns the direction the counter travels when advanced.
func (c *Counter) Dir() Direction {
	c.checkInvariant()
	return c.dir
}

// Min returns the smallest value the counter can hold.
func (c *Counter) Min() int32 { return c.min }

// Max returns the largest value the counter can hold.
func (c *Counter) Max() int32 { return c.max }

// Kind returns the behaviour the counter was built with.
func (c *Counter) Kind() Kind { return c.kind }

// ID returns the identity of this counter instance.
func (c *Counter) ID() uuid.UUID { return c.id }

// Policy returns the strategy applied at the bounds of the counter.
func (c *Counter) Policy() Policy { return c.policy }

// Reversible reports whether the counter accepts Back.
func (c *Counter) Reversible() bool { return c.kind.Reversible() }

// +----------+
// | Stepping |
// +----------+

// Advance moves the counter one unit in its current direction.
//
// If the counter is at the bound in that direction, the counter's policy decides
// the new state. If the policy fails, the error is returned and the counter is
// left unchanged.
func (c *Counter) Advance() error {
	return c.step(c.dir)
}

// Back moves the counter one unit against its current direction.
//
// Only bidirectional and oscillating counters step back; other kinds return
// ErrNotReversible.
func (c *Counter) Back() error {
	if !c.Reversible() {
		return fmt.Errorf("%w: %v counter", ErrNotReversible, c.kind)
	}
	return c.step(c.dir.Opposite())
}

func (c *Counter) step(d Direction) error {
	c.checkInvariant()
	defer c.checkInvariant()
	if d == Ascending && c.value < c.max {
		c.value++
		return nil
	}
	if d == Descending && c.value > c.min {
		c.value--
		return nil
	}
	edge := Edge{Min: c.min, Max: c.max, Value: c.value, Dir: c.dir, Step: d}
	value, dir, err := c.policy.OnOverflow(edge)
	if err != nil {
		return err
	}
	if value < c.min || value > c.max || !dir.valid() {
		return fmt.Errorf("%w: %v returned (%d, %v) for [%d, %d]", ErrPolicyOutOfRange, c.policy, value, dir, c.min, c.max)
	}
	c.value, c.dir = value, dir
	return nil
}

// +----------+
// | Ordering |
// +----------+

// Equal reports whether both counters are of the same kind and hold the same value.
// Identity and direction are not compared.
func (c *Counter) Equal(other *Counter) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.kind == other.kind && c.value == other.value
}

// Compare returns the relative order between counter values.
// A nil counter is ordered before any other counter.
func (c *Counter) Compare(other *Counter) int {
	switch {
	case c == other:
		return 0
	case c == nil:
		return -1
	case other == nil:
		return +1
	}
	if c.value < other.value {
		return -1
	}
	if c.value > other.value {
		return +1
	}
	return 0
}

// +--------+
// | String |
// +--------+

func (c *Counter) String() string {
	return "count: " + strconv.FormatInt(int64(c.Value()), 10)
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// +------------+
// | Directions |
// +------------+

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func (d Direction) valid() bool {
	return d == Ascending || d == Descending
}

// ParseDirection returns the direction named by s, as returned by Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "ascending":
		return Ascending, nil
	case "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}

// ParseKind returns the kind named by s, as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown counter kind %q", ErrInvalidArgument, s)
}

// Reversible reports whether counters of this kind accept Back.
func (k Kind) Reversible() bool {
	return k == KindBidirectional || k == KindOscillating
}

// +-----------+
// | Utilities |
// +-----------+

// Provides a random MAC address.
func randomMAC() []byte {
	mac := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, mac); err != nil {
		panic(err.Error())
	}
	return mac
}

// Create UUIDv1, using local timestamp as lower bits and random MAC.
func randomUUIDv1() uuid.UUID {
	uuid.SetNodeID(randomMAC())
	id, err := uuid.NewUUID()
	if err != nil {
		panic(fmt.Sprintf("creating UUIDv1: %v", err))
	}
	return id
}
