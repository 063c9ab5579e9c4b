// Package manifest resolves a package's hook configuration from the reserved
// section of its manifest file.
//
// The section looks the same in every supported format. In package.json:
//
//	"monohook": {
//	  "enabled": true,
//	  "skip-users": ["ci-bot"],
//	  "restrictions": {"fileTypes": ["go"], "folders": ["cmd"]},
//	  "commit-msg": "^JIRA-\\d+",
//	  "pre-commit": ["go vet ./..."]
//	}
//
// Manifests ending in .yaml/.yml and .toml are decoded with the matching
// parser; anything else is read as JSON.
package manifest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/raphi011/monohook/internal/hooks"
)

var (
	// ErrNoConfig is returned when a manifest has no usable hook section.
	ErrNoConfig = errors.New("no hook configuration")
	// ErrUnparsable is returned alongside ErrNoConfig when the manifest
	// itself cannot be read or decoded.
	ErrUnparsable = errors.New("manifest could not be parsed")
	// ErrInvalid is returned alongside ErrNoConfig when the section holds a
	// value of the wrong type.
	ErrInvalid = errors.New("invalid hook configuration")
)

// Restrictions limit which changed files concern a package.
// Empty slices mean no restriction.
type Restrictions struct {
	Folders   []string
	FileTypes []string
}

// IsEmpty reports whether no restriction is configured.
func (r Restrictions) IsEmpty() bool {
	return len(r.Folders) == 0 && len(r.FileTypes) == 0
}

// HookConfig is the hook section of one manifest.
type HookConfig struct {
	Enabled          bool
	SkipUsers        []string
	Restrictions     Restrictions
	CommitMsgPattern string
	Tasks            map[hooks.Event][]string

	// Unknown holds section keys that were ignored, sorted.
	Unknown []string
}

// SkipsUser reports whether user is exempt from this package's tasks.
// An empty user never matches.
func (c HookConfig) SkipsUser(user string) bool {
	return user != "" && slices.Contains(c.SkipUsers, user)
}

// TasksFor returns the commands configured for event, in order.
func (c HookConfig) TasksFor(event hooks.Event) []string {
	return c.Tasks[event]
}

// Events returns the events that have at least one task, in the canonical
// event order.
func (c HookConfig) Events() []hooks.Event {
	var events []hooks.Event
	for _, e := range hooks.TaskEvents {
		if len(c.Tasks[e]) > 0 {
			events = append(events, e)
		}
	}
	return events
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s: %s", ErrNoConfig, ErrInvalid, path, fmt.Sprintf(format, args...))
}
