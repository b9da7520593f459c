// Package harness verifies a printio-test binary against its contract. Each
// check launches the fixture once or more and compares the captured stdout,
// stderr, and exit code, plus any file the fixture was asked to write, against
// expected values. A launcher that passes the whole suite demonstrably
// captures streams, exit codes, and recorded arguments correctly.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/printio/printio-test/internal/fixture"
	"github.com/printio/printio-test/internal/launcher"
)

// Check is one verification step: launch the fixture with Args and compare
// the capture. Repeat launches the fixture that many times (0 means once);
// stream and exit expectations apply to every run. WantFile/WantContent
// assert a file's bytes after the final run, WantAbsent asserts a path was
// never created.
type Check struct {
	Name        string
	Args        []string
	Repeat      int
	WantExit    int
	WantStdout  []byte
	WantStderr  []byte
	WantFile    string
	WantContent []byte
	WantAbsent  string
}

// Suite materializes the fixture's data files in dir and returns checks
// covering the whole observable contract: help, flag parsing errors, exit
// code pass-through, args-file append ordering, and verbatim stream echoes
// including payloads larger than the fixture's internal copy buffer.
func Suite(dir string) ([]Check, error) {
	// over 4x the fixture's 1KiB copy buffer, and not block-aligned, so a
	// correct chunked copy is the only way to reproduce it
	outPayload := streamPayload(4500)
	errPayload := []byte("error: something went wrong\n")

	outFile := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(outFile, outPayload, 0o644); err != nil {
		return nil, fmt.Errorf("could not write stdout payload: %w", err)
	}
	errFile := filepath.Join(dir, "err.txt")
	if err := os.WriteFile(errFile, errPayload, 0o644); err != nil {
		return nil, fmt.Errorf("could not write stderr payload: %w", err)
	}

	argsFile := filepath.Join(dir, "args.log")
	missingFile := filepath.Join(dir, "missing.txt")
	untouchedFile := filepath.Join(dir, "untouched.log")

	return []Check{
		{
			Name:       "help short-circuits everything",
			Args:       []string{"--help", "-x", "not-a-number"},
			WantStdout: []byte(fixture.HelpText),
		},
		{
			Name: "bare separator produces no output",
			Args: []string{"--", "a", "b", "c"},
		},
		{
			Name:     "exit code passes through",
			Args:     []string{"-x", "42", "--", "foo"},
			WantExit: 42,
		},
		{
			Name:        "command tokens append in order",
			Args:        []string{"-a", argsFile, "--", "one", "two", "three"},
			Repeat:      2,
			WantFile:    argsFile,
			WantContent: []byte("one two three\none two three\n"),
		},
		{
			Name:       "stdout echoes file bytes verbatim",
			Args:       []string{"-o", outFile, "--", "x"},
			WantStdout: outPayload,
		},
		{
			Name:       "stderr echoes file bytes verbatim",
			Args:       []string{"-e", errFile, "--", "x"},
			WantStderr: errPayload,
		},
		{
			Name:       "missing echo file is reported but not fatal",
			Args:       []string{"-o", missingFile, "--", "x"},
			WantStderr: []byte("Could not open file: " + missingFile + "\n"),
		},
		{
			Name:       "unknown token is fatal",
			Args:       []string{"foo", "--", "x"},
			WantExit:   1,
			WantStderr: []byte("Unknown or incomplete option: foo\n"),
		},
		{
			Name:       "missing separator is fatal before side effects",
			Args:       []string{"-a", untouchedFile},
			WantExit:   1,
			WantStderr: []byte("Missing command after \"--\"\n"),
			WantAbsent: untouchedFile,
		},
	}, nil
}

// Verify launches the fixture binary for every check and reports mismatches.
// All checks run even after a failure; the returned error summarizes how many
// failed.
func Verify(l launcher.Launcher, fixtureBin string, checks []Check, logger *zerolog.Logger) error {
	failed := 0
	for _, check := range checks {
		if problems := runCheck(l, fixtureBin, check); len(problems) > 0 {
			failed++
			for _, p := range problems {
				logger.Error().Str("check", check.Name).Msg(p)
			}
			continue
		}
		logger.Debug().Str("check", check.Name).Msg("check passed")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

func runCheck(l launcher.Launcher, fixtureBin string, check Check) []string {
	var problems []string

	runs := check.Repeat
	if runs < 1 {
		runs = 1
	}
	for i := 0; i < runs; i++ {
		res, err := l.Launch(fixtureBin, check.Args...)
		if err != nil {
			return []string{fmt.Sprintf("launch failed: %v", err)}
		}
		if res.ExitCode != check.WantExit {
			problems = append(problems, fmt.Sprintf("exit code %d, expected %d", res.ExitCode, check.WantExit))
		}
		if !bytes.Equal(res.Stdout, check.WantStdout) {
			problems = append(problems, fmt.Sprintf("stdout mismatch: got %d bytes, expected %d bytes", len(res.Stdout), len(check.WantStdout)))
		}
		if !bytes.Equal(res.Stderr, check.WantStderr) {
			problems = append(problems, fmt.Sprintf("stderr mismatch: got %q, expected %q", res.Stderr, check.WantStderr))
		}
	}

	if check.WantFile != "" {
		content, err := os.ReadFile(check.WantFile)
		if err != nil {
			problems = append(problems, fmt.Sprintf("could not read %s: %v", check.WantFile, err))
		} else if !bytes.Equal(content, check.WantContent) {
			problems = append(problems, fmt.Sprintf("%s content %q, expected %q", check.WantFile, content, check.WantContent))
		}
	}
	if check.WantAbsent != "" {
		if _, err := os.Stat(check.WantAbsent); err == nil {
			problems = append(problems, fmt.Sprintf("%s exists but should not have been created", check.WantAbsent))
		}
	}

	return problems
}

// streamPayload builds n bytes of non-repeating binary data, covering the
// full byte range so any transcoding in the copy path would corrupt it.
func streamPayload(n int) []byte {
	payload := make([]byte, n)
	for i := range payload {
		payload[i] = byte((i*7 + i/256) % 256)
	}
	return payload
}
