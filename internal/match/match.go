// Package match decides whether changed files concern a package, based on
// the package's folder and file-type restrictions.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/raphi011/monohook/internal/manifest"
)

// Matcher is a compiled, case-insensitive file predicate for one package.
type Matcher struct {
	re *regexp.Regexp
}

// New builds the predicate for a package at relPath (slash-separated,
// "" for the repository root).
//
// A file matches when, after an optional "<anything>/<relPath>/" prefix, it
// starts with one of the folders (if any) and ends with ".<type>" for one of
// the file types (if any). Without restrictions any path that does not end
// in "/" matches.
func New(r manifest.Restrictions, relPath string) (*Matcher, error) {
	re, err := regexp.Compile(Pattern(r, relPath))
	if err != nil {
		return nil, fmt.Errorf("invalid restriction pattern: %w", err)
	}
	return &Matcher{re: re}, nil
}

// Pattern returns the regular expression New compiles.
func Pattern(r manifest.Restrictions, relPath string) string {
	var b strings.Builder
	b.WriteString("(?i)^")

	rel := strings.Trim(relPath, "/")
	if rel != "" {
		fmt.Fprintf(&b, "(?:(?:.*/)?%s/)?", regexp.QuoteMeta(rel))
	}

	folders := quoted(r.Folders, func(f string) string { return strings.Trim(f, "/") })
	if len(folders) > 0 {
		fmt.Fprintf(&b, "(?:%s)/", strings.Join(folders, "|"))
	}

	types := quoted(r.FileTypes, func(t string) string { return strings.TrimPrefix(t, ".") })
	if len(types) > 0 {
		fmt.Fprintf(&b, ".*\\.(?:%s)$", strings.Join(types, "|"))
	} else if len(folders) == 0 {
		// A bare "<relPath>/" names the directory, not a file in it.
		b.WriteString(".*[^/]$")
	}
	return b.String()
}

// quoted normalizes and regexp-quotes values, dropping those that end up empty.
func quoted(values []string, normalize func(string) string) []string {
	var out []string
	for _, v := range values {
		v = normalize(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, regexp.QuoteMeta(v))
	}
	return out
}

// Match reports whether file concerns the package.
func (m *Matcher) Match(file string) bool {
	return file != "" && m.re.MatchString(file)
}

// Any reports whether at least one of files matches. An empty list never
// matches.
func (m *Matcher) Any(files []string) bool {
	for _, f := range files {
		if m.Match(f) {
			return true
		}
	}
	return false
}

// String returns the compiled pattern.
func (m *Matcher) String() string {
	return m.re.String()
}
