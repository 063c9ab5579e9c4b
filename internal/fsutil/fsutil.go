// Package fsutil holds the small file-system helpers used by package
// discovery.
package fsutil

import (
	"os"
	"path/filepath"
)

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SubDirs returns the names of the directories directly below dir, sorted
// by name. A directory that cannot be read yields no entries.
func SubDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// WalkOptions filter the directories visited by [WalkDirs].
// Patterns use [filepath.Match] syntax and are matched against the
// directory's base name.
type WalkOptions struct {
	// Exclude prunes matching directories together with their subtrees.
	Exclude []string
}

// WalkDirs calls fn for dir and every directory below it, depth-first and
// in name order. The root itself is never excluded. Unreadable directories
// are treated as empty. Returning [filepath.SkipDir] from fn skips the
// subtree; any other error stops the walk and is returned.
func WalkDirs(dir string, opts WalkOptions, fn func(path string) error) error {
	return walk(dir, opts, fn, true)
}

func walk(dir string, opts WalkOptions, fn func(string) error, root bool) error {
	name := filepath.Base(dir)
	if !root && MatchAny(opts.Exclude, name) {
		return nil
	}
	if err := fn(dir); err != nil {
		if err == filepath.SkipDir {
			return nil
		}
		return err
	}
	for _, sub := range SubDirs(dir) {
		if err := walk(filepath.Join(dir, sub), opts, fn, false); err != nil {
			return err
		}
	}
	return nil
}

// MatchAny reports whether name matches one of patterns.
// Malformed patterns never match.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
