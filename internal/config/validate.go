package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ValidEvents are the accepted commit_msg_events values.
var ValidEvents = []string{"post-checkout", "post-commit", "post-merge", "pre-commit", "pre-push"}

// Validate checks the settings for values monohook cannot work with.
func (c Config) Validate() error {
	if len(c.Manifests) == 0 {
		return errors.New("manifests must name at least one file")
	}
	for i, m := range c.Manifests {
		if m == "" || strings.ContainsAny(m, `/\`) {
			return fmt.Errorf("invalid manifests[%d] %q: must be a plain file name", i, m)
		}
	}
	if c.Section == "" {
		return errors.New("section must not be empty")
	}
	if c.Shell == "" {
		return errors.New("shell must not be empty")
	}
	for i, pat := range c.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("invalid exclude[%d] %q: %w", i, pat, err)
		}
	}
	for _, e := range c.CommitMsgEvents {
		if err := validateEnum(e, "commit_msg_events entry", ValidEvents); err != nil {
			return err
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
