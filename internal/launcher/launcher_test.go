package launcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFixture compiles the printio-test fixture binary and returns its path.
// The binary is built in a temporary directory and cleaned up after the test.
func buildFixture(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "printio-test")

	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = filepath.Join("..", "..", "cmd", "printio-test")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build fixture: %s", string(output))

	return binaryPath
}

func TestExecLauncher(t *testing.T) {
	fixtureBin := buildFixture(t)

	t.Run("captures stdout and stderr separately", func(t *testing.T) {
		dir := t.TempDir()
		outFile := filepath.Join(dir, "out.txt")
		errFile := filepath.Join(dir, "err.txt")
		require.NoError(t, os.WriteFile(outFile, []byte("to stdout"), 0o644))
		require.NoError(t, os.WriteFile(errFile, []byte("to stderr"), 0o644))

		res, err := New().Launch(fixtureBin, "-o", outFile, "-e", errFile, "--", "x")

		require.NoError(t, err)
		assert.Zero(t, res.ExitCode)
		assert.Equal(t, "to stdout", string(res.Stdout))
		assert.Equal(t, "to stderr", string(res.Stderr))
	})

	t.Run("captures non-zero exit code without error", func(t *testing.T) {
		res, err := New().Launch(fixtureBin, "-x", "42", "--", "foo")

		require.NoError(t, err)
		assert.Equal(t, 42, res.ExitCode)
		assert.Empty(t, res.Stdout)
		assert.Empty(t, res.Stderr)
	})

	t.Run("captures diagnostics from a failed run", func(t *testing.T) {
		res, err := New().Launch(fixtureBin, "bogus")

		require.NoError(t, err)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, "Unknown or incomplete option: bogus\n", string(res.Stderr))
	})

	t.Run("handles empty output", func(t *testing.T) {
		res, err := New().Launch(fixtureBin, "--", "a", "b", "c")

		require.NoError(t, err)
		assert.Zero(t, res.ExitCode)
		assert.Empty(t, res.Stdout)
		assert.Empty(t, res.Stderr)
	})

	t.Run("runs in the configured working directory", func(t *testing.T) {
		dir := t.TempDir()

		res, err := NewInDir(dir).Launch(fixtureBin, "-a", "args.log", "--", "hello", "world")

		require.NoError(t, err)
		assert.Zero(t, res.ExitCode)
		content, err := os.ReadFile(filepath.Join(dir, "args.log"))
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", string(content))
	})

	t.Run("returns error when binary not found", func(t *testing.T) {
		_, err := New().Launch("binary-that-does-not-exist")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
