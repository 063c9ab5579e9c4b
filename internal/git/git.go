package git

//go:generate go tool mockgen -source=git.go -destination=mocks/git.gen.go -package=mocks

import "context"

// Git is the set of repository queries the dispatcher depends on.
type Git interface {
	// RootDir returns the absolute top-level directory of the repository.
	RootDir(ctx context.Context) (string, error)

	// Username returns the configured user.name, empty if unset.
	Username(ctx context.Context) (string, error)

	// Branch returns the current branch name.
	Branch(ctx context.Context) (string, error)

	// StagedFiles returns repository-relative paths of staged files.
	StagedFiles(ctx context.Context) ([]string, error)

	// CommittedFiles returns repository-relative paths touched by commits
	// on branch that have not been pushed to remote.
	CommittedFiles(ctx context.Context, remote, branch string) ([]string, error)

	// CommitMessage returns the in-progress (or else the last) commit message.
	CommitMessage(ctx context.Context) (string, error)
}
