package hooks

import (
	"fmt"
	"slices"
)

// Event is a git hook name.
type Event string

const (
	EventPostCheckout Event = "post-checkout"
	EventPostCommit   Event = "post-commit"
	EventPostMerge    Event = "post-merge"
	EventPreCommit    Event = "pre-commit"
	EventPrePush      Event = "pre-push"
	EventCommitMsg    Event = "commit-msg"
)

// TaskEvents are the events a manifest can list tasks for.
// commit-msg is configured by pattern only.
var TaskEvents = []Event{
	EventPostCheckout,
	EventPostCommit,
	EventPostMerge,
	EventPreCommit,
	EventPrePush,
}

// Events returns every supported event.
func Events() []Event {
	return append(slices.Clone(TaskEvents), EventCommitMsg)
}

// ParseEvent validates name as a supported event.
func ParseEvent(name string) (Event, error) {
	e := Event(name)
	if !slices.Contains(Events(), e) {
		return "", fmt.Errorf("unknown hook event %q", name)
	}
	return e, nil
}

// FileSensitive reports whether the event filters packages by changed files.
func (e Event) FileSensitive() bool {
	return e == EventPreCommit || e == EventPrePush
}

func (e Event) String() string {
	return string(e)
}
