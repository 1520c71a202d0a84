package main

import (
	"fmt"
	"os"

	"github.com/brunokim/counters/demo"
	"github.com/brunokim/counters/diff"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML file with scenarios. Uses the embedded default if empty",
	}
	scenarioFlag = &cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "Name of a single scenario to run. Runs all scenarios if empty",
	}
	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "Log every step with a development logger",
	}
)

func loadConfig(c *cli.Context) (*demo.Config, error) {
	filename := c.String("config")
	if filename == "" {
		return demo.DefaultConfig(), nil
	}
	cfg, err := demo.LoadConfig(filename)
	if err != nil {
		return nil, cli.Exit(fmt.Errorf("error loading config %q: %w", filename, err), 1)
	}
	return cfg, nil
}

func selectScenario(c *cli.Context, cfg *demo.Config) (demo.Scenario, bool, error) {
	name := c.String("scenario")
	if name == "" {
		return demo.Scenario{}, false, nil
	}
	s, ok := cfg.Scenario(name)
	if !ok {
		return demo.Scenario{}, false, cli.Exit(fmt.Sprintf("unknown scenario: %s", name), 1)
	}
	return s, true, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios and print their transcript",
		Description: `Steps each scenario's counter and prints it before and after every step.
A step that fails prints the error and halts its scenario, without failing the command.

	counterdemo run
	counterdemo run --scenario throwing --trace throwing.jsonl`,
		Flags: []cli.Flag{
			configFlag,
			scenarioFlag,
			&cli.StringFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "File to dump every step in JSONL format",
			},
			debugFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, single, err := selectScenario(c, cfg)
			if err != nil {
				return err
			}
			log, err := newLogger(c.App.ErrWriter, c.Bool("debug"), cfg.LogLevel)
			if err != nil {
				return cli.Exit(fmt.Errorf("error initializing logger: %w", err), 1)
			}
			defer func() { _ = log.Sync() }()

			r := &demo.Runner{Out: c.App.Writer, Log: log}
			if filename := c.String("trace"); filename != "" {
				f, err := os.Create(filename)
				if err != nil {
					return cli.Exit(fmt.Errorf("error creating trace file: %w", err), 1)
				}
				defer f.Close()
				r.Trace = f
			}

			var results []demo.Result
			if single {
				var res demo.Result
				res, err = r.Run(s)
				results = append(results, res)
			} else {
				results, err = r.RunAll(cfg)
			}
			if err != nil {
				return cli.Exit(err, 1)
			}
			for _, res := range results {
				if res.Err != nil {
					log.Info("Scenario halted", zap.String("scenario", res.Scenario), zap.Int("steps", res.Steps), zap.Error(res.Err))
				}
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured scenarios",
		Flags: []cli.Flag{configFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			for _, s := range cfg.Scenarios {
				fmt.Fprintf(c.App.Writer, "%-15s %-14s value=%d steps=%d\n", s.Name, s.Kind, s.Value, s.Steps)
			}
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Compare a transcript with a golden file",
		Description: `Runs the scenarios and diffs their transcript against the golden file, line by line.
Fails if any line differs, printing the diff with "+" for lines only in the
transcript and "-" for lines only in the golden file.

	counterdemo run > default.golden
	counterdemo check --golden default.golden`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "golden",
				Aliases:  []string{"g"},
				Usage:    "File with the expected transcript",
				Required: true,
			},
			configFlag,
			scenarioFlag,
			debugFlag,
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, single, err := selectScenario(c, cfg)
			if err != nil {
				return err
			}
			filename := c.String("golden")
			golden, err := os.ReadFile(filename)
			if err != nil {
				return cli.Exit(fmt.Errorf("error reading golden file: %w", err), 1)
			}
			log, err := newLogger(c.App.ErrWriter, c.Bool("debug"), cfg.LogLevel)
			if err != nil {
				return cli.Exit(fmt.Errorf("error initializing logger: %w", err), 1)
			}
			defer func() { _ = log.Sync() }()

			var ops []diff.Operation[string]
			var dist int
			if single {
				ops, dist, err = demo.Check(string(golden), s, log)
			} else {
				ops, dist, err = demo.CheckAll(string(golden), cfg, log)
			}
			if err != nil {
				return cli.Exit(err, 1)
			}
			if dist == 0 {
				fmt.Fprintf(c.App.Writer, "ok %s\n", filename)
				return nil
			}
			fmt.Fprint(c.App.Writer, changedLines(ops))
			return cli.Exit(fmt.Sprintf("transcript differs from %s in %d lines", filename, dist), 1)
		},
	}
}

// changedLines formats only inserted and deleted lines.
func changedLines(ops []diff.Operation[string]) string {
	var changed []diff.Operation[string]
	for _, op := range ops {
		if op.Op != diff.Keep {
			changed = append(changed, op)
		}
	}
	return diff.Format(changed)
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Output default configuration file",
		Description: `Output the default configuration file to stdout.
You can redirect it to a file and edit its scenarios:

	counterdemo config > scenarios.yml
	counterdemo run --config scenarios.yml`,
		Action: func(c *cli.Context) error {
			if _, err := c.App.Writer.Write(demo.DefaultConfigBytes); err != nil {
				return cli.Exit(fmt.Errorf("error writing config: %w", err), 1)
			}
			return nil
		},
	}
}
