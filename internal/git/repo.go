package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CLI implements [Git] with the git binary, run from Dir.
type CLI struct {
	// Dir is where git commands run. Empty means the current directory.
	Dir string
}

// New returns a CLI rooted at dir.
func New(dir string) *CLI {
	return &CLI{Dir: dir}
}

var _ Git = (*CLI)(nil)

// RootDir returns the top-level directory of the work tree containing Dir.
func (g *CLI) RootDir(ctx context.Context) (string, error) {
	out, err := outputGit(ctx, g.Dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return filepath.FromSlash(out), nil
}

// Username returns user.name, or "" when it is not configured.
func (g *CLI) Username(ctx context.Context) (string, error) {
	out, err := outputGit(ctx, g.Dir, "config", "user.name")
	if err != nil {
		if exitedWith(err, 1) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read user.name: %w", err)
	}
	return out, nil
}

// Branch returns the current branch name.
// Returns "(detached)" for detached HEAD state.
func (g *CLI) Branch(ctx context.Context) (string, error) {
	out, err := outputGit(ctx, g.Dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	if out == "" {
		return "(detached)", nil
	}
	return out, nil
}

// StagedFiles lists files in the index that differ from HEAD.
func (g *CLI) StagedFiles(ctx context.Context) ([]string, error) {
	files, err := outputLines(ctx, g.Dir, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoStagedFiles
	}
	return files, nil
}

// CommittedFiles lists files touched by commits that remote does not have
// yet. When branch tracks an upstream the range is upstream..HEAD,
// otherwise every commit reachable from HEAD but from no ref of remote.
func (g *CLI) CommittedFiles(ctx context.Context, remote, branch string) ([]string, error) {
	args := []string{"log", "--name-only", "--format="}
	if upstream := g.upstream(ctx, branch); upstream != "" {
		args = append(args, upstream+"..HEAD")
	} else {
		args = append(args, "HEAD", "--not", "--remotes="+remote)
	}

	lines, err := outputLines(ctx, g.Dir, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list committed files: %w", err)
	}

	seen := make(map[string]bool, len(lines))
	var files []string
	for _, f := range lines {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoCommits
	}
	return files, nil
}

// upstream returns the tracking ref of branch, or "" if it has none.
func (g *CLI) upstream(ctx context.Context, branch string) string {
	if branch == "" || branch == "(detached)" {
		return ""
	}
	out, err := outputGit(ctx, g.Dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		return ""
	}
	return out
}

// CommitMessage reads the message of the commit being made from
// COMMIT_EDITMSG. Outside of a commit, when that file does not exist, the
// last commit's message is returned instead. Comment lines are removed.
func (g *CLI) CommitMessage(ctx context.Context) (string, error) {
	path, err := outputGit(ctx, g.Dir, "rev-parse", "--git-path", "COMMIT_EDITMSG")
	if err != nil {
		return "", fmt.Errorf("failed to locate COMMIT_EDITMSG: %w", err)
	}
	if !filepath.IsAbs(path) && g.Dir != "" {
		path = filepath.Join(g.Dir, path)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return CleanMessage(string(data)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read commit message: %w", err)
	}

	if _, err := outputGit(ctx, g.Dir, "rev-parse", "--verify", "-q", "HEAD"); err != nil {
		if exitedWith(err, 1) {
			return "", ErrNoCommitMessage
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	out, err := outputGit(ctx, g.Dir, "log", "-1", "--format=%B")
	if err != nil {
		return "", fmt.Errorf("failed to read last commit message: %w", err)
	}
	return CleanMessage(out), nil
}

// CleanMessage strips comment lines and surrounding blank space the way
// git's default cleanup does.
func CleanMessage(msg string) string {
	var kept []string
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
