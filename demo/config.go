package demo

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/brunokim/counters/counter"
	"gopkg.in/yaml.v3"
)

// DefaultConfigBytes is the configuration used when no file is given.
//
//go:embed default.yml
var DefaultConfigBytes []byte

// Config is the set of scenarios run by the demo.
type Config struct {
	LogLevel  string     `yaml:"log_level"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes a counter and how to step it.
type Scenario struct {
	Name string `yaml:"name"`
	// Kind is one of the names returned by counter.Kind.String.
	Kind  string `yaml:"kind"`
	Value int32  `yaml:"value"`
	// Min and Max are only used by range counters.
	Min int32 `yaml:"min,omitempty"`
	Max int32 `yaml:"max,omitempty"`
	// Direction is only used by bidirectional and oscillating counters. Defaults to ascending.
	Direction string `yaml:"direction,omitempty"`
	// Policy is only used by custom counters. Defaults to wrap.
	Policy string `yaml:"policy,omitempty"`
	Steps  int    `yaml:"steps"`
	// Op is one of advance, back or alternate. Defaults to advance.
	Op string `yaml:"op,omitempty"`
}

var (
	ErrInvalidScenario   = errors.New("invalid scenario")
	ErrDuplicateScenario = errors.New("duplicate scenario name")
)

const (
	opAdvance   = "advance"
	opBack      = "back"
	opAlternate = "alternate"
)

// LoadConfig reads and validates a YAML config file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	names := make(map[string]bool)
	for i, s := range cfg.Scenarios {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("scenario #%d: %w", i, err)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScenario, s.Name)
		}
		names[s.Name] = true
	}
	return &cfg, nil
}

// DefaultConfig returns the embedded default config.
func DefaultConfig() *Config {
	cfg, err := ParseConfig(DefaultConfigBytes)
	if err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// Scenario returns the scenario with the given name.
func (cfg *Config) Scenario(name string) (Scenario, bool) {
	for _, s := range cfg.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Validate checks the scenario fields without building its counter.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScenario)
	}
	kind, err := counter.ParseKind(s.Kind)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, err)
	}
	if s.Steps < 0 {
		return fmt.Errorf("%w %q: negative steps %d", ErrInvalidScenario, s.Name, s.Steps)
	}
	switch s.Op {
	case "", opAdvance:
	case opBack, opAlternate:
		if !kind.Reversible() {
			return fmt.Errorf("%w %q: %v counters can't step back", ErrInvalidScenario, s.Name, kind)
		}
	default:
		return fmt.Errorf("%w %q: unknown op %q", ErrInvalidScenario, s.Name, s.Op)
	}
	if s.Direction != "" {
		if !kind.Reversible() {
			return fmt.Errorf("%w %q: %v counters have a fixed direction", ErrInvalidScenario, s.Name, kind)
		}
		if _, err := counter.ParseDirection(s.Direction); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, err)
		}
	}
	if s.Policy != "" {
		if kind != counter.KindCustom {
			return fmt.Errorf("%w %q: only custom counters take a policy", ErrInvalidScenario, s.Name)
		}
		if _, err := counter.PolicyByName(s.Policy); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, err)
		}
	}
	return nil
}

// Build validates the scenario and creates its counter.
func (s Scenario) Build() (*counter.Counter, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	kind, _ := counter.ParseKind(s.Kind)
	dir := counter.Ascending
	if s.Direction != "" {
		dir, _ = counter.ParseDirection(s.Direction)
	}
	var c *counter.Counter
	var err error
	switch kind {
	case counter.KindPlain:
		c, err = counter.New(s.Value)
	case counter.KindDescending:
		c, err = counter.NewDescending(s.Value)
	case counter.KindBidirectional:
		c, err = counter.NewBidirectional(s.Value, dir)
	case counter.KindOscillating:
		c, err = counter.NewOscillating(s.Value, dir)
	case counter.KindRange:
		c, err = counter.NewRange(s.Min, s.Max, s.Value)
	case counter.KindStopping:
		c, err = counter.NewStopping(s.Value)
	case counter.KindThrowing:
		c, err = counter.NewThrowing(s.Value)
	case counter.KindCustom:
		var policy counter.Policy
		if s.Policy != "" {
			policy, _ = counter.PolicyByName(s.Policy)
		}
		c, err = counter.NewWithPolicy(s.Value, policy)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, err)
	}
	return c, nil
}

// Returns the operation applied at step i.
func (s Scenario) opAt(i int) string {
	switch s.Op {
	case opBack:
		return opBack
	case opAlternate:
		if i%2 == 1 {
			return opBack
		}
	}
	return opAdvance
}
