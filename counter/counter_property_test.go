package counter_test

import (
	"errors"
	"testing"

	"github.com/brunokim/counters/counter"
	"pgregory.net/rapid"
)

// Model a counter as an int64 with explicit bounds and direction, subject to
// Advance, Back and Clone.
//
// Initial values are drawn close to the bounds, otherwise the policies would
// almost never be exercised.
type stateMachine struct {
	c      *counter.Counter
	kind   counter.Kind
	value  int64
	dir    counter.Direction
	lo, hi int64
}

func nearBounds() *rapid.Generator {
	return rapid.OneOf(
		rapid.Int32Range(0, 3),
		rapid.Int32Range(maxValue-3, maxValue),
	)
}

func (m *stateMachine) Init(t *rapid.T) {
	m.kind = rapid.SampledFrom(fuzzKinds).Draw(t, "kind").(counter.Kind)
	m.dir = counter.Ascending
	m.lo, m.hi = 0, int64(maxValue)
	value := nearBounds().Draw(t, "value").(int32)

	var err error
	switch m.kind {
	case counter.KindPlain:
		m.c, err = counter.New(value)
	case counter.KindDescending:
		m.dir = counter.Descending
		m.c, err = counter.NewDescending(value)
	case counter.KindBidirectional:
		m.dir = rapid.SampledFrom([]counter.Direction{counter.Ascending, counter.Descending}).Draw(t, "dir").(counter.Direction)
		m.c, err = counter.NewBidirectional(value, m.dir)
	case counter.KindOscillating:
		m.dir = rapid.SampledFrom([]counter.Direction{counter.Ascending, counter.Descending}).Draw(t, "dir").(counter.Direction)
		m.c, err = counter.NewOscillating(value, m.dir)
	case counter.KindRange:
		lo := rapid.Int32Range(0, 100).Draw(t, "min").(int32)
		hi := rapid.Int32Range(lo, lo+5).Draw(t, "max").(int32)
		value = rapid.Int32Range(lo, hi).Draw(t, "range value").(int32)
		m.lo, m.hi = int64(lo), int64(hi)
		m.c, err = counter.NewRange(lo, hi, value)
	case counter.KindStopping:
		m.c, err = counter.NewStopping(value)
	case counter.KindThrowing:
		m.c, err = counter.NewThrowing(value)
	}
	if err != nil {
		t.Fatalf("creating %v counter: %v", m.kind, err)
	}
	m.value = int64(value)
}

// Moves the model one unit in direction d.
func (m *stateMachine) move(d counter.Direction) error {
	if d == counter.Ascending && m.value < m.hi {
		m.value++
		return nil
	}
	if d == counter.Descending && m.value > m.lo {
		m.value--
		return nil
	}
	switch m.kind {
	case counter.KindStopping:
		return nil
	case counter.KindThrowing:
		return counter.ErrOverflow
	case counter.KindOscillating:
		m.dir = m.dir.Opposite()
		if m.lo == m.hi {
			return nil
		}
		if d == counter.Ascending {
			m.value--
		} else {
			m.value++
		}
		return nil
	}
	if d == counter.Ascending {
		m.value = m.lo
	} else {
		m.value = m.hi
	}
	return nil
}

func (m *stateMachine) Advance(t *rapid.T) {
	want := m.move(m.dir)
	got := m.c.Advance()
	if !errors.Is(got, want) {
		t.Fatalf("Advance: got err %v, want %v", got, want)
	}
}

func (m *stateMachine) Back(t *rapid.T) {
	if m.kind != counter.KindBidirectional && m.kind != counter.KindOscillating {
		if err := m.c.Back(); !errors.Is(err, counter.ErrNotReversible) {
			t.Fatalf("Back on %v counter: got err %v", m.kind, err)
		}
		return
	}
	want := m.move(m.dir.Opposite())
	if got := m.c.Back(); !errors.Is(got, want) {
		t.Fatalf("Back: got err %v, want %v", got, want)
	}
}

// Clones the counter, advances the clone and continues with it.
func (m *stateMachine) Clone(t *rapid.T) {
	orig := m.c
	before := orig.Value()
	m.c = orig.Clone()
	if m.c.ID() == orig.ID() {
		t.Fatalf("clone shares ID %v", orig.ID())
	}
	m.Advance(t)
	if orig.Value() != before {
		t.Fatalf("original changed from %d to %d after advancing clone", before, orig.Value())
	}
}

func (m *stateMachine) Check(t *rapid.T) {
	if got, want := int64(m.c.Value()), m.value; got != want {
		t.Fatalf("value mismatch: want %d but got %d", want, got)
	}
	if got, want := m.c.Dir(), m.dir; got != want {
		t.Fatalf("direction mismatch: want %v but got %v", want, got)
	}
	if m.c.Value() < 0 {
		t.Fatalf("negative value %d", m.c.Value())
	}
}

func TestProperty(t *testing.T) {
	rapid.Check(t, rapid.Run(&stateMachine{}))
}
