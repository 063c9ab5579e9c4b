package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/raphi011/monohook/internal/cmd"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// outputGit executes a git command and returns its trimmed stdout.
func outputGit(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// outputLines runs git and splits stdout into non-empty lines.
func outputLines(ctx context.Context, dir string, args ...string) ([]string, error) {
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// exitedWith reports whether err is a silent git exit with the given code.
// git uses exit 1 without stderr for "key not set" and "no such ref".
func exitedWith(err error, code int) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == code
}
