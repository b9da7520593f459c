// Package launcher spawns a command, waits for it to finish, and captures
// everything a caller needs to assert on: the complete stdout and stderr byte
// streams and the exit code. The printio-test fixture is the canonical
// subprocess used to verify this capture path end to end.
package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// Result holds the captured output of one completed process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Launcher runs a binary to completion and captures its output. A non-zero
// exit is a successful capture, not an error; Launch fails only when the
// process cannot be started at all.
type Launcher interface {
	Launch(binary string, args ...string) (*Result, error)
}

type execLauncher struct {
	dir string
}

// New returns a Launcher backed by os/exec that runs commands in the current
// working directory.
func New() Launcher {
	return &execLauncher{}
}

// NewInDir returns a Launcher that runs every command with dir as its working
// directory.
func NewInDir(dir string) Launcher {
	return &execLauncher{dir: dir}
}

func (l *execLauncher) Launch(binary string, args ...string) (*Result, error) {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", binary, err)
	}

	cmd := exec.Command(resolved, args...)
	cmd.Dir = l.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", binary, err)
		}
		// the process ran and exited non-zero; that is a capture, not a failure
	}

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}
