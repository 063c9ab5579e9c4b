package hooks

//go:generate go tool mockgen -source=runner.go -destination=mocks/runner.gen.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
)

// Task is one shell command ready to run.
type Task struct {
	Package string   // owning package, for reporting
	Command string   // shell command line, placeholders already substituted
	Dir     string   // working directory, always set explicitly
	Env     []string // extra KEY=VALUE entries on top of the process environment
}

// Runner executes a task and reports its exit code.
// A non-nil error means the task could not be run at all.
type Runner interface {
	Run(ctx context.Context, task Task) (int, error)
}

// DefaultShell is used when no shell is configured.
const DefaultShell = "sh"

// ShellRunner runs tasks through "<Shell> -c".
type ShellRunner struct {
	Shell string // defaults to DefaultShell

	// AttachTTY gives tasks /dev/tty as stdin when os.Stdin is not a
	// terminal, as is the case for hooks run by git.
	AttachTTY bool

	// DryRun prints tasks instead of executing them.
	DryRun bool

	Stdin  io.Reader // defaults to os.Stdin
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

var _ Runner = (*ShellRunner)(nil)

// Run executes task.Command in task.Dir and blocks until it exits.
// A cancelled context kills the shell and returns ctx.Err().
func (r *ShellRunner) Run(ctx context.Context, task Task) (int, error) {
	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	if r.DryRun {
		fmt.Fprintf(stdout, "[dry-run] %s: %s\n", task.Package, task.Command)
		return 0, nil
	}

	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	stdin, closeStdin := r.stdin()
	defer closeStdin()

	c := exec.CommandContext(ctx, shell, "-c", task.Command)
	c.Dir = task.Dir
	c.Env = append(os.Environ(), task.Env...)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %q with %s: %w", task.Command, shell, err)
}

// stdin picks the task's stdin and returns a func releasing it.
func (r *ShellRunner) stdin() (io.Reader, func()) {
	noop := func() {}
	if r.Stdin != nil {
		return r.Stdin, noop
	}
	if !r.AttachTTY || isTerminal(os.Stdin) {
		return os.Stdin, noop
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return os.Stdin, noop
	}
	return tty, func() { tty.Close() }
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
