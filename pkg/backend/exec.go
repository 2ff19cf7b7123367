// pkg/backend/exec.go
package backend

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Command is one external program invocation
type Command struct {
	Name string   // Program, looked up in PATH
	Args []string // Arguments
	Dir  string   // Working directory, empty for the current one
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes commands. A command that ran and exited returns its exit
// status with a nil error; err is set only when it could not be started or
// was cancelled.
type Runner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	Timeout time.Duration // Per command, zero means none
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger
}

// NewExecRunner creates a runner attached to the process's terminal
func NewExecRunner(timeout time.Duration, logger *log.Logger) *ExecRunner {
	return &ExecRunner{
		Timeout: timeout,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
	}
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	if r.Logger != nil {
		r.Logger.Printf("exec: %s (dir %q)", c, c.Dir)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	return exitStatus(cmd.Run(), ctx.Err())
}

// exitStatus maps the result of a finished command. A clean exit wins over
// a deadline that expired after the process was already done.
func exitStatus(runErr, ctxErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	if ctxErr != nil {
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, runErr
}
