// Package discovery finds the packages of a repository: every directory,
// the root included, that holds a manifest file.
package discovery

import (
	"path/filepath"
	"strings"

	"github.com/raphi011/monohook/internal/fsutil"
)

// Package is one discovered project unit.
type Package struct {
	Name     string // directory base name
	AbsPath  string // absolute directory path
	RelPath  string // slash-separated path from the repository root, "" for the root
	Manifest string // absolute path of the manifest file found
}

// IsRoot reports whether p is the repository root.
func (p Package) IsRoot() bool {
	return p.RelPath == ""
}

// DisplayName is the name used in logs: the relative path, or the
// directory name for the root.
func (p Package) DisplayName() string {
	if p.IsRoot() {
		return p.Name + " (root)"
	}
	return p.RelPath
}

// Options control which directories are packages.
type Options struct {
	// Manifests are file names marking a package, in priority order.
	Manifests []string
	// Exclude are directory name patterns never descended into.
	Exclude []string
}

// Discover walks root depth-first in name order and returns every
// directory containing one of opts.Manifests. Excluded directories are
// skipped with their subtrees; unreadable directories count as empty.
func Discover(root string, opts Options) ([]Package, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var pkgs []Package
	err = fsutil.WalkDirs(root, fsutil.WalkOptions{Exclude: opts.Exclude}, func(dir string) error {
		manifest := findManifest(dir, opts.Manifests)
		if manifest == "" {
			return nil
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		pkgs = append(pkgs, Package{
			Name:     filepath.Base(dir),
			AbsPath:  dir,
			RelPath:  normalizeRel(rel),
			Manifest: manifest,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

// findManifest returns the first manifest present in dir.
func findManifest(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fsutil.IsFile(path) {
			return path
		}
	}
	return ""
}

func normalizeRel(rel string) string {
	if rel == "." {
		return ""
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), "/")
}

// Filter keeps the packages whose Name or RelPath is in names.
// Names that select nothing are returned as unknown.
func Filter(pkgs []Package, names []string) (selected []Package, unknown []string) {
	if len(names) == 0 {
		return pkgs, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSuffix(n, "/")] = true
	}
	found := make(map[string]bool, len(names))
	for _, p := range pkgs {
		switch {
		case want[p.RelPath] && p.RelPath != "":
			found[p.RelPath] = true
		case want[p.Name]:
			found[p.Name] = true
		default:
			continue
		}
		selected = append(selected, p)
	}
	for _, n := range names {
		if !found[strings.TrimSuffix(n, "/")] {
			unknown = append(unknown, n)
		}
	}
	return selected, unknown
}
