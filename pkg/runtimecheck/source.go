package runtimecheck

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds how long a version command may run.
const DefaultTimeout = 10 * time.Second

// Source reports the raw version string of a runtime.
type Source interface {
	Version() (string, error)
}

// GoRuntime reports the version of the Go runtime this binary was built with.
type GoRuntime struct{}

// Version returns runtime.Version(), e.g. "go1.25.1".
func (GoRuntime) Version() (string, error) {
	return runtime.Version(), nil
}

// Runner abstracts command execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	RunCommandContext(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunCommandContext executes a command and returns its output.
func (r *RealRunner) RunCommandContext(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// Command reports the version printed by an external interpreter,
// e.g. "python3 --version".
type Command struct {
	Name    string        // executable name
	Args    []string      // default: --version
	Timeout time.Duration // default: DefaultTimeout
	Runner  Runner
}

// Version runs the command and returns whatever it printed.
func (c *Command) Version() (string, error) {
	if _, err := c.Runner.LookPath(c.Name); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", c.Name, err)
	}

	args := c.Args
	if len(args) == 0 {
		args = []string{"--version"}
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stdout, stderr, err := c.Runner.RunCommandContext(ctx, c.Name, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", c.Name, timeout)
		}
		return "", fmt.Errorf("%s %s: %w", c.Name, strings.Join(args, " "), err)
	}

	// Older interpreters print their version on stderr.
	out := strings.TrimSpace(stdout)
	if out == "" {
		out = strings.TrimSpace(stderr)
	}
	return out, nil
}
