package dispatch

import (
	"fmt"
	"strings"

	"github.com/raphi011/monohook/internal/discovery"
	"github.com/raphi011/monohook/internal/hooks"
)

// Kind is the result of dispatching one event to one package.
type Kind int

const (
	NoConfig Kind = iota
	Skipped
	NoMatchingFiles
	NoTasksConfigured
	TasksSucceeded
	TaskFailed
)

func (k Kind) String() string {
	switch k {
	case NoConfig:
		return "no config"
	case Skipped:
		return "skipped"
	case NoMatchingFiles:
		return "no matching files"
	case NoTasksConfigured:
		return "no tasks"
	case TasksSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Skip reasons.
const (
	ReasonUser     = "user"
	ReasonDisabled = "disabled"
)

// Outcome describes what happened to one package.
type Outcome struct {
	Kind Kind

	// Reason is set for Skipped.
	Reason string

	// Err is the cause for NoConfig and, when the task could not be
	// judged by exit code alone, for TaskFailed.
	Err error

	// TaskIndex, Task and ExitCode are set for TaskFailed. TaskIndex is -1
	// when the failure happened before any task ran.
	TaskIndex int
	Task      string
	ExitCode  int

	// Ran is the number of tasks that completed successfully.
	Ran int
}

// Result pairs a package with its outcome.
type Result struct {
	Package discovery.Package
	Outcome Outcome
}

// Report collects the results of one dispatch run, in package order.
type Report struct {
	Event   hooks.Event
	Results []Result
}

// Count returns how many packages ended with kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Kind == k {
			n++
		}
	}
	return n
}

// Failed returns the failed result, if any.
func (r *Report) Failed() (Result, bool) {
	for _, res := range r.Results {
		if res.Outcome.Kind == TaskFailed {
			return res, true
		}
	}
	return Result{}, false
}

// Summary renders a one-line overview, e.g.
// "pre-commit: 4 packages, 2 ran, 1 skipped, 1 without config".
func (r *Report) Summary() string {
	n := len(r.Results)
	parts := []string{fmt.Sprintf("%s: %d %s", r.Event, n, plural(n, "package", "packages"))}

	add := func(count int, label string) {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, label))
		}
	}
	add(r.Count(TasksSucceeded), "ran")
	add(r.Count(TaskFailed), "failed")
	add(r.Count(Skipped), "skipped")
	add(r.Count(NoMatchingFiles), "unchanged")
	add(r.Count(NoTasksConfigured), "without tasks")
	add(r.Count(NoConfig), "without config")
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
