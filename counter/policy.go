package counter

import (
	"fmt"
)

// Edge describes a step that would take a counter outside of its range.
type Edge struct {
	// Min and Max are the inclusive bounds of the counter.
	Min, Max int32
	// Value is the bound the counter currently sits on.
	Value int32
	// Dir is the direction the counter travels when advanced.
	Dir Direction
	// Step is the direction of the attempted step. It is opposite to Dir when stepping back.
	Step Direction
}

// Bound returns the end of the range reached by travelling in direction d.
func (e Edge) Bound(d Direction) int32 {
	if d == Ascending {
		return e.Max
	}
	return e.Min
}

// Policy decides the state of a counter when a step would leave its range.
//
// OnOverflow is only called at the bounds; regular steps never reach it.
// It returns the new value and direction, or an error to reject the step.
// The returned value must be within [e.Min, e.Max].
type Policy interface {
	OnOverflow(e Edge) (value int32, dir Direction, err error)
}

// WrapPolicy moves the counter to the opposite bound, keeping its direction.
type WrapPolicy struct{}

func (WrapPolicy) OnOverflow(e Edge) (int32, Direction, error) {
	return e.Bound(e.Step.Opposite()), e.Dir, nil
}

// StopPolicy keeps the counter at the bound it reached.
type StopPolicy struct{}

func (StopPolicy) OnOverflow(e Edge) (int32, Direction, error) {
	return e.Value, e.Dir, nil
}

// ExceptionPolicy rejects the step as an invalid argument.
type ExceptionPolicy struct{}

func (ExceptionPolicy) OnOverflow(e Edge) (int32, Direction, error) {
	return e.Value, e.Dir, fmt.Errorf("%w: can't step %v past %d", ErrInvalidArgument, e.Step, e.Value)
}

// ThrowPolicy rejects the step with ErrOverflow.
type ThrowPolicy struct{}

func (ThrowPolicy) OnOverflow(e Edge) (int32, Direction, error) {
	return e.Value, e.Dir, fmt.Errorf("%w: can't step %v past %d", ErrOverflow, e.Step, e.Value)
}

// ReversePolicy flips the counter's direction and moves it one unit away from the bound.
//
// A counter whose range holds a single value only flips its direction.
type ReversePolicy struct{}

func (ReversePolicy) OnOverflow(e Edge) (int32, Direction, error) {
	dir := e.Dir.Opposite()
	if e.Min == e.Max {
		return e.Value, dir, nil
	}
	if e.Step == Ascending {
		return e.Value - 1, dir, nil
	}
	return e.Value + 1, dir, nil
}

func (WrapPolicy) String() string      { return "wrap" }
func (StopPolicy) String() string      { return "stop" }
func (ExceptionPolicy) String() string { return "exception" }
func (ThrowPolicy) String() string     { return "throw" }
func (ReversePolicy) String() string   { return "reverse" }

// -----

var policies = map[string]Policy{
	"wrap":      WrapPolicy{},
	"stop":      StopPolicy{},
	"exception": ExceptionPolicy{},
	"throw":     ThrowPolicy{},
	"reverse":   ReversePolicy{},
}

// PolicyByName returns the built-in policy with the given name.
func PolicyByName(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return p, nil
}

// Returns the name of a built-in policy, or false for any other policy.
func policyName(p Policy) (string, bool) {
	s, ok := p.(fmt.Stringer)
	if !ok {
		return "", false
	}
	name := s.String()
	if q, ok := policies[name]; !ok || q != p {
		return "", false
	}
	return name, true
}

// Returns the policy a built-in kind is constructed with.
func kindPolicy(k Kind) Policy {
	switch k {
	case KindOscillating:
		return ReversePolicy{}
	case KindStopping:
		return StopPolicy{}
	case KindThrowing:
		return ThrowPolicy{}
	}
	return WrapPolicy{}
}
