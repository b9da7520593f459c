// Package fixture implements the printio-test behavior: record the command
// tokens after "--" to a file, echo file contents to stdout and stderr, and
// return a caller-chosen exit code. Launcher tests point their spawn machinery
// at this fixture to assert that streams, exit codes, and invocation arguments
// survive a full process round-trip.
//
// Everything the fixture writes to its streams is part of the contract under
// test, so this package performs no logging of its own.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// HelpText is printed verbatim to stdout when --help is given.
const HelpText = `Print input/output

Usage:
  printio-test --help
    Prints this help to stdout.
  printio-test [-a file] [-o file] [-e file] [-x code] -- {command}
    Saves args after -- into file specified by "-a".
    Prints file specified by "-o" to stdout.
    Prints file specified by "-e" to stderr.
    Returns exit code specified by "-x" (default 0).
`

// copyBufSize bounds the intermediate buffer used when echoing files, so
// payloads larger than one pass exercise the chunked copy path.
const copyBufSize = 1024

// Invocation is the parsed form of a single printio-test command line.
type Invocation struct {
	Help     bool
	ArgsFile string
	OutFile  string
	ErrFile  string
	ExitCode int
	Command  []string
}

// Parse scans args left to right. --help short-circuits the scan entirely,
// even when later tokens are malformed. -a, -o, -e, and -x each consume the
// following token as their value; a flag with no token after it, or any
// unrecognized token, is an error. The first occurrence of a flag wins and
// repeats before "--" are ignored. "--" ends the scan and the remaining
// tokens, possibly none, become the command sequence; an argument list with
// no "--" at all is an error.
//
// The returned error's text is exactly the diagnostic Run prints to stderr.
func Parse(args []string) (*Invocation, error) {
	inv := &Invocation{}
	cmdIndex := -1
	haveExit := false

scan:
	for i := 0; i < len(args); i++ {
		switch tok := args[i]; {
		case tok == "--help":
			inv.Help = true
			return inv, nil
		case tok == "--":
			cmdIndex = i + 1
			break scan
		case tok == "-a" && i+1 < len(args):
			i++
			if inv.ArgsFile == "" {
				inv.ArgsFile = args[i]
			}
		case tok == "-o" && i+1 < len(args):
			i++
			if inv.OutFile == "" {
				inv.OutFile = args[i]
			}
		case tok == "-e" && i+1 < len(args):
			i++
			if inv.ErrFile == "" {
				inv.ErrFile = args[i]
			}
		case tok == "-x" && i+1 < len(args):
			i++
			if !haveExit {
				// best-effort parse, non-numeric input yields 0
				inv.ExitCode, _ = strconv.Atoi(args[i])
				haveExit = true
			}
		default:
			return nil, fmt.Errorf("Unknown or incomplete option: %s", tok)
		}
	}

	if cmdIndex < 0 {
		return nil, errors.New(`Missing command after "--"`)
	}

	inv.Command = args[cmdIndex:]
	return inv, nil
}

// Run executes one invocation against the given streams and returns the exit
// code for the process. Parse errors and an unwritable args file are fatal
// (code 1, nothing else happens); an unreadable echo file is reported and
// skipped without affecting the configured exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	inv, err := Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if inv.Help {
		_, _ = io.WriteString(stdout, HelpText)
		return 0
	}

	if inv.ArgsFile != "" {
		if err := appendCommand(inv.ArgsFile, inv.Command); err != nil {
			fmt.Fprintf(stderr, "Could not open args file for writing: %s\n", inv.ArgsFile)
			return 1
		}
	}
	if inv.OutFile != "" {
		echoFile(inv.OutFile, stdout, stderr)
	}
	if inv.ErrFile != "" {
		echoFile(inv.ErrFile, stderr, stderr)
	}

	return inv.ExitCode
}

// appendCommand adds one line to the args file: the command tokens joined by
// single spaces. Append mode keeps repeated invocations from clobbering each
// other's records. Only the open is fatal; the write itself is best-effort
// like the stream echoes.
func appendCommand(path string, command []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = fmt.Fprintln(f, strings.Join(command, " "))
	return nil
}

// echoFile copies the file at path to dst byte for byte, in copyBufSize
// chunks with no decoding or transformation. An unopenable file is reported
// on diag and skipped.
func echoFile(path string, dst, diag io.Writer) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(diag, "Could not open file: %s\n", path)
		return
	}
	defer f.Close()

	buf := make([]byte, copyBufSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return
			}
		}
		if rerr != nil {
			return
		}
	}
}
