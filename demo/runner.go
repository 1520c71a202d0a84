// Package demo runs counter scenarios and prints their transcript.
//
// For every step, a scenario prints the counter before and after stepping it:
//
//	start of loop: count: 2147483646
//	end of loop  : count: 2147483647
//
// followed by an empty line. A step that fails prints the error instead of the
// "end of loop" line and halts the scenario.
package demo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/brunokim/counters/counter"
	"github.com/brunokim/counters/diff"
	"go.uber.org/zap"
)

// Runner executes scenarios, writing their transcript to Out.
type Runner struct {
	Out io.Writer
	// Trace receives one JSON Step per line, if not nil.
	Trace io.Writer
	// Log receives debug messages for each step, if not nil.
	Log *zap.Logger
}

// Step is the trace record of a single counter operation.
type Step struct {
	Scenario string           `json:"scenario"`
	Index    int              `json:"step"`
	Op       string           `json:"op"`
	Counter  counter.Snapshot `json:"counter"`
	Err      string           `json:"error,omitempty"`
}

// Result summarizes a scenario run.
type Result struct {
	Scenario string
	// Steps is the number of steps that completed.
	Steps int
	Final counter.Snapshot
	// Err is the counter error that halted the scenario, if any.
	Err error
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Run executes a single scenario.
//
// Counter errors halt the scenario and are reported in Result.Err. The returned
// error is reserved for invalid scenarios and failures writing the transcript.
func (r *Runner) Run(s Scenario) (Result, error) {
	c, err := s.Build()
	if err != nil {
		return Result{}, err
	}
	log := r.logger().With(zap.String("scenario", s.Name), zap.Stringer("kind", c.Kind()))
	log.Debug("Starting scenario", zap.Int32("value", c.Value()), zap.Int("steps", s.Steps))

	var trace *json.Encoder
	if r.Trace != nil {
		trace = json.NewEncoder(r.Trace)
	}
	res := Result{Scenario: s.Name}
	for i := 0; i < s.Steps; i++ {
		op := s.opAt(i)
		if _, err := fmt.Fprintf(r.Out, "start of loop: %v\n", c); err != nil {
			return res, fmt.Errorf("writing transcript: %w", err)
		}
		var stepErr error
		if op == opBack {
			stepErr = c.Back()
		} else {
			stepErr = c.Advance()
		}
		if trace != nil {
			step := Step{Scenario: s.Name, Index: i, Op: op, Counter: c.Snapshot()}
			if stepErr != nil {
				step.Err = stepErr.Error()
			}
			if err := trace.Encode(step); err != nil {
				return res, fmt.Errorf("writing trace: %w", err)
			}
		}
		if stepErr != nil {
			log.Warn("Counter step failed", zap.Int("step", i), zap.String("op", op), zap.Error(stepErr))
			res.Err = stepErr
			if _, err := fmt.Fprintf(r.Out, "error: %v\n\n", stepErr); err != nil {
				return res, fmt.Errorf("writing transcript: %w", err)
			}
			break
		}
		log.Debug("Counter stepped",
			zap.Int("step", i),
			zap.String("op", op),
			zap.Int32("value", c.Value()),
			zap.Stringer("dir", c.Dir()))
		if _, err := fmt.Fprintf(r.Out, "end of loop  : %v\n\n", c); err != nil {
			return res, fmt.Errorf("writing transcript: %w", err)
		}
		res.Steps++
	}
	res.Final = c.Snapshot()
	return res, nil
}

// RunAll executes every scenario in the config, in order.
func (r *Runner) RunAll(cfg *Config) ([]Result, error) {
	var results []Result
	for _, s := range cfg.Scenarios {
		if _, err := fmt.Fprintf(r.Out, "# %s\n", s.Name); err != nil {
			return results, fmt.Errorf("writing transcript: %w", err)
		}
		res, err := r.Run(s)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Transcript runs a scenario and returns its output.
func Transcript(s Scenario, log *zap.Logger) (string, Result, error) {
	var buf bytes.Buffer
	r := &Runner{Out: &buf, Log: log}
	res, err := r.Run(s)
	if err != nil {
		return "", res, err
	}
	return buf.String(), res, nil
}

// Check runs a scenario and compares its transcript with golden, line by line.
// It returns the edit script and the number of differing lines.
func Check(golden string, s Scenario, log *zap.Logger) ([]diff.Operation[string], int, error) {
	got, _, err := Transcript(s, log)
	if err != nil {
		return nil, 0, err
	}
	ops, dist := compare(golden, got)
	return ops, dist, nil
}

// CheckAll is like Check, for the transcript of every scenario in cfg.
func CheckAll(golden string, cfg *Config, log *zap.Logger) ([]diff.Operation[string], int, error) {
	var buf bytes.Buffer
	r := &Runner{Out: &buf, Log: log}
	if _, err := r.RunAll(cfg); err != nil {
		return nil, 0, err
	}
	ops, dist := compare(golden, buf.String())
	return ops, dist, nil
}

func compare(golden, got string) ([]diff.Operation[string], int) {
	ops := diff.Lines(golden, got)
	if len(ops) == 0 {
		return ops, 0
	}
	return ops, ops[0].Dist
}
