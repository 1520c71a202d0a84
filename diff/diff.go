// Package diff computes minimal edit scripts between sequences, such as the
// lines of two counter transcripts.
package diff

import (
	"strings"
)

type OpType int

const (
	Keep OpType = iota
	Insert
	Delete
)

func (op OpType) String() string {
	switch op {
	case Keep:
		return " "
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return "?"
}

type Operation[T comparable] struct {
	Op   OpType
	Elem T
	Dist int
}

// Example: abcd -> xabdy
//           s1      s2
//
// Legend:
//   ix = insert(x)
//   ka = keep(a)
//   dc = delete(c)
//
//          xabdy   xabdy   xabdy   xabdy   xabdy   xabdy
//  s1\s2   ^        ^        ^        ^        ^        ^
//        +-------+-------+-------+-------+-------+-------+
//        |       |       |       |       |       |       |
//  abcd  | ix 3  < ka 2  | da 3  | da 4  | iy 5  < da 4  |
//  ^     |       |      \|       |       |       |       |
//        +-------+-------+---^---+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 4  < ia 3  < kb 2  | db 3  | iy 4  < db 3  |
//   ^    |       |       |      \|       |       |       |
//        +-------+-------+-------+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 5  < ia 4  < ib 3  < dc 2  | iy 3  < dc 2  |
//    ^   |       |       |       |       |       |       |
//        +-------+-------+-------+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 4  < ia 3  < ib 2  < kd 1  | iy 2  < dd 1  |
//     ^  |       |       |       |      \|       |       |
//        +-------+-------+-------+-------+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 5  < ia 4  < ib 3  < id 2  < iy 1  < k0 0  |
//      ^ |       |       |       |       |       |       |
//        +-------+-------+-------+-------+-------+-------+

// Diff returns the sequence of keeps, insertions and deletions to transform s1 into s2.
func Diff[T comparable](s1, s2 []T) []Operation[T] {
	m, n := len(s1), len(s2)
	ops := make([]Operation[T], (m+1)*(n+1))
	coord := func(i, j int) int {
		return i*(n+1) + j
	}
	// Diff between s1 and an empty sequence: delete all elements
	for i, x := range s1 {
		ops[coord(i, n)] = Operation[T]{
			Op:   Delete,
			Elem: x,
			Dist: m - i,
		}
	}
	// Diff between an empty sequence and s2: insert all elements
	for j, y := range s2 {
		ops[coord(m, j)] = Operation[T]{
			Op:   Insert,
			Elem: y,
			Dist: n - j,
		}
	}
	// Compute all paths of operations that produce minimal edit distance.
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			x, y := s1[i], s2[j]
			if x == y {
				ops[coord(i, j)] = Operation[T]{
					Op:   Keep,
					Elem: x,
					Dist: ops[coord(i+1, j+1)].Dist,
				}
				continue
			}
			// Pick smallest dist between possible sequences, preferring insert on a tie.
			op1 := ops[coord(i+1, j)]
			op2 := ops[coord(i, j+1)]
			if op2.Dist <= op1.Dist {
				ops[coord(i, j)] = Operation[T]{
					Op:   Insert,
					Elem: y,
					Dist: 1 + op2.Dist,
				}
			} else {
				ops[coord(i, j)] = Operation[T]{
					Op:   Delete,
					Elem: x,
					Dist: 1 + op1.Dist,
				}
			}
		}
	}
	// Build sequence of operations.
	var operations []Operation[T]
	var i, j int
	for i < m || j < n {
		op := ops[coord(i, j)]
		operations = append(operations, op)
		switch op.Op {
		case Keep:
			i++
			j++
		case Insert:
			j++
		case Delete:
			i++
		}
	}
	return operations
}

// Distance returns the number of inserts/deletes to transform s1 into s2.
func Distance[T comparable](s1, s2 []T) int {
	operations := Diff(s1, s2)
	if len(operations) == 0 {
		return 0
	}
	return operations[0].Dist
}

// -----

// Lines diffs two texts line by line. A trailing newline doesn't count as an empty line.
func Lines(text1, text2 string) []Operation[string] {
	return Diff(splitLines(text1), splitLines(text2))
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Format renders line operations prefixed by " ", "+" or "-".
func Format(ops []Operation[string]) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.Op.String())
		b.WriteString(" ")
		b.WriteString(op.Elem)
		b.WriteString("\n")
	}
	return b.String()
}
