// Command counterdemo runs counter scenarios and prints their transcript.
//
//	counterdemo run --scenario throwing
//	counterdemo check --golden testdata/default.golden
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "counterdemo",
		Usage:     "Step bounded counters through their overflow policies",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			runCommand(),
			listCommand(),
			checkCommand(),
			configCommand(),
		},
	}
}

// newLogger builds a console logger writing to w. The debug flag takes
// precedence over the configured level.
func newLogger(w io.Writer, debug bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch {
	case debug, level == "development":
		cfg = zap.NewDevelopmentConfig()
	case level == "production", level == "":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log_level %q (valid levels: production, development)", level)
	}

	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.Lock(zapcore.AddSync(w))
	l, err := cfg.Build(
		zap.ErrorOutput(sink),
		zap.WrapCore(func(zapcore.Core) zapcore.Core {
			return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), sink, cfg.Level)
		}),
	)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
