package dispatch

import (
	"errors"
	"fmt"

	"github.com/raphi011/monohook/internal/hooks"
)

// ErrCommitMessage is the cause of a failure when the commit message does
// not satisfy a package's pattern.
var ErrCommitMessage = errors.New("commit message does not match required pattern")

// TaskFailedError stops a dispatch run. It names the package, event and
// task that failed.
type TaskFailedError struct {
	Package  string
	Event    hooks.Event
	Task     string
	Index    int // -1 if no task of the list was running
	ExitCode int // -1 if the task did not exit normally
	Err      error
}

func (e *TaskFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s failed: %v", e.Package, e.Event, e.Task, e.Err)
	}
	return fmt.Sprintf("%s: %s task %d (%s) failed with exit code %d",
		e.Package, e.Event, e.Index+1, e.Task, e.ExitCode)
}

func (e *TaskFailedError) Unwrap() error {
	return e.Err
}
