package counter

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the serializable state of a counter.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Value     int32     `json:"value"`
	Direction Direction `json:"direction"`
	Min       int32     `json:"min"`
	Max       int32     `json:"max"`
	// Policy is the name of the counter's policy, or empty if it isn't a built-in one.
	Policy string `json:"policy"`
}

// Snapshot returns the current state of the counter.
func (c *Counter) Snapshot() Snapshot {
	c.checkInvariant()
	name, _ := policyName(c.policy)
	return Snapshot{
		ID:        c.id,
		Kind:      c.kind,
		Value:     c.value,
		Direction: c.dir,
		Min:       c.min,
		Max:       c.max,
		Policy:    name,
	}
}

// FromSnapshot restores a counter, validating it as its constructor would.
// A snapshot without ID gets a new one.
func FromSnapshot(s Snapshot) (*Counter, error) {
	var policy Policy
	if s.Kind == KindCustom {
		p, err := PolicyByName(s.Policy)
		if err != nil {
			return nil, err
		}
		policy = p
	} else {
		policy = kindPolicy(s.Kind)
		if name, _ := policyName(policy); s.Policy != "" && s.Policy != name {
			return nil, fmt.Errorf("%w: %v counter can't use policy %q", ErrInvalidArgument, s.Kind, s.Policy)
		}
	}
	if err := checkKindShape(s); err != nil {
		return nil, err
	}
	c, err := newCounter(s.Kind, s.Min, s.Max, s.Value, s.Direction, policy)
	if err != nil {
		return nil, err
	}
	if s.ID != uuid.Nil {
		c.id = s.ID
	}
	return c, nil
}

// Checks that the range and direction of a snapshot match what its kind allows.
func checkKindShape(s Snapshot) error {
	switch s.Kind {
	case KindPlain, KindDescending, KindBidirectional, KindOscillating, KindRange, KindStopping, KindThrowing, KindCustom:
	default:
		return fmt.Errorf("%w: unknown counter kind %d", ErrInvalidArgument, int(s.Kind))
	}
	if s.Kind != KindRange && (s.Min != 0 || s.Max != MaxValue) {
		return fmt.Errorf("%w: %v counter must span [0, %d], got [%d, %d]", ErrInvalidArgument, s.Kind, MaxValue, s.Min, s.Max)
	}
	want := Ascending
	switch s.Kind {
	case KindBidirectional, KindOscillating:
		return nil
	case KindDescending:
		want = Descending
	}
	if s.Direction != want {
		return fmt.Errorf("%w: %v counter must be %v", ErrInvalidArgument, s.Kind, want)
	}
	return nil
}

// +------+
// | JSON |
// +------+

func (c *Counter) MarshalJSON() ([]byte, error) {
	s := c.Snapshot()
	if s.Policy == "" {
		return nil, fmt.Errorf("%w: %T can't be serialized", ErrUnknownPolicy, c.policy)
	}
	return json.Marshal(s)
}

func (c *Counter) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*c = *restored
	return nil
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("%w: invalid direction %d", ErrInvalidArgument, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	dir, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: unknown counter kind %d", ErrInvalidArgument, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
