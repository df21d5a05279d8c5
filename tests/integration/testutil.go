// Shared helpers for shrinkray integration tests.
package integration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	shrinkrayBin string
	buildErr     error
)

// SetShrinkrayBin records the path of the binary built by TestMain.
func SetShrinkrayBin(path string) { shrinkrayBin = path }

// SetBuildErr records a build failure so every test can report it.
func SetBuildErr(err error) { buildErr = err }

// BuildError wraps a compile failure together with the compiler output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building shrinkray: %v\n%s", e.Err, e.Output)
}

// FindProjectRoot walks up from the working directory to the directory
// containing go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// CmdResult holds the outcome of one CLI invocation.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// TestEnv gives each test an isolated config and data directory.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// NewTestEnv creates fresh config and data directories under the test's
// temp dir. The build error from TestMain, if any, fails the test here.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("binary not available: %v", buildErr)
	}
	root := t.TempDir()
	return &TestEnv{
		t:         t,
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
	}
}

// RunShrinkray invokes the built binary with the environment's config
// and data directories prepended as global flags.
func (e *TestEnv) RunShrinkray(args ...string) CmdResult {
	e.t.Helper()

	full := append([]string{
		"--config-dir", e.ConfigDir,
		"--data-dir", e.DataDir,
	}, args...)
	cmd := exec.Command(shrinkrayBin, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		e.t.Fatalf("running shrinkray %v: %v", args, err)
	}
	return result
}

// MustRunShrinkray runs the binary and fails the test on a non-zero exit.
func (e *TestEnv) MustRunShrinkray(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunShrinkray(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("shrinkray %v exited %d\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
