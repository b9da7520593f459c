// Package main is the printio-harness driver. It points the process launcher
// at a printio-test binary, runs the full verification suite against it, and
// exits non-zero if any check fails.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/printio/printio-test/internal/harness"
	"github.com/printio/printio-test/internal/launcher"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("printio-harness", pflag.ExitOnError)
	fixtureBin := flags.String("fixture", "", "Path to the printio-test binary under test")
	workDir := flags.String("work-dir", "", "Scratch directory for fixture data files (default: a fresh temp dir)")
	verbose := flags.BoolP("verbose", "v", false, "Log every check, not just failures")
	_ = flags.Parse(args)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *fixtureBin == "" {
		logger.Error().Msg("--fixture is required")
		return 1
	}

	dir := *workDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "printio-harness-")
		if err != nil {
			logger.Error().Err(err).Msg("could not create scratch directory")
			return 1
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	checks, err := harness.Suite(dir)
	if err != nil {
		logger.Error().Err(err).Msg("could not set up verification suite")
		return 1
	}

	if err := harness.Verify(launcher.New(), *fixtureBin, checks, &logger); err != nil {
		logger.Error().Err(err).Str("fixture", *fixtureBin).Msg("fixture verification failed")
		return 1
	}

	logger.Info().Int("checks", len(checks)).Str("fixture", *fixtureBin).Msg("fixture verification passed")
	return 0
}
