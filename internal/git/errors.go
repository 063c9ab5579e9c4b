package git

import "errors"

var (
	// ErrGitNotFound indicates git is not installed or not in PATH.
	ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

	// ErrNotRepository is returned when no repository is found upward from the working directory.
	ErrNotRepository = errors.New("not inside a git repository")

	// ErrNoStagedFiles is returned by StagedFiles when the index has no changes.
	ErrNoStagedFiles = errors.New("no staged files")

	// ErrNoCommits is returned by CommittedFiles when there is nothing to push.
	ErrNoCommits = errors.New("no unpushed commits")

	// ErrNoCommitMessage is returned by CommitMessage when HEAD is unborn and
	// no message has been written yet.
	ErrNoCommitMessage = errors.New("no commit message yet")
)
