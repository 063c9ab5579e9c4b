package git

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// MinVersion is the oldest git supported (branch --show-current).
const MinVersion = "2.22.0"

var versionRegex = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// CheckGit verifies that git is available in PATH and recent enough.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	out, err := outputGit(ctx, "", "version")
	if err != nil {
		return fmt.Errorf("git version: %w", err)
	}
	return checkVersion(out)
}

// checkVersion validates output of "git version", e.g.
// "git version 2.39.3 (Apple Git-145)" or "git version 2.45.1.windows.1".
func checkVersion(output string) error {
	raw := versionRegex.FindString(output)
	if raw == "" {
		return fmt.Errorf("unrecognized git version %q", output)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("parse git version %q: %w", raw, err)
	}
	constraint, err := semver.NewConstraint(">= " + MinVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("git %s is too old: monohook needs git >= %s", v, MinVersion)
	}
	return nil
}
