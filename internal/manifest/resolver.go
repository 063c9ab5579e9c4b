package manifest

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/raphi011/monohook/internal/discovery"
	"github.com/raphi011/monohook/internal/hooks"
)

// Section keys.
const (
	keyEnabled      = "enabled"
	keySkipUsers    = "skip-users"
	keyRestrictions = "restrictions"
	keyCommitMsg    = "commit-msg"
	keyFileTypes    = "fileTypes"
	keyFolders      = "folders"
)

// Resolver reads hook configuration out of package manifests.
type Resolver struct {
	// Section is the reserved key holding the hook configuration.
	Section string
}

// Resolve loads the manifest of pkg and returns its hook configuration.
// Every error matches ErrNoConfig. Read and decode failures also match
// ErrUnparsable, wrongly typed values ErrInvalid.
func (r Resolver) Resolve(pkg discovery.Package) (HookConfig, error) {
	return r.Load(pkg.Manifest)
}

// Load reads the hook section from the manifest at path.
func (r Resolver) Load(path string) (HookConfig, error) {
	doc, err := decodeFile(path)
	if err != nil {
		return HookConfig{}, fmt.Errorf("%w: %w: %s: %v", ErrNoConfig, ErrUnparsable, path, err)
	}

	raw, ok := doc[r.Section]
	if !ok || raw == nil {
		return HookConfig{}, fmt.Errorf("%w: %s has no %q section", ErrNoConfig, path, r.Section)
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return HookConfig{}, invalid(path, "%q must be an object", r.Section)
	}
	return parseSection(path, section)
}

// parseSection extracts a HookConfig from the raw decoded section.
func parseSection(path string, raw map[string]any) (HookConfig, error) {
	hc := HookConfig{
		Enabled: true,
		Tasks:   make(map[hooks.Event][]string),
	}

	for key, value := range raw {
		var err error
		switch key {
		case keyEnabled:
			b, ok := value.(bool)
			if !ok {
				return HookConfig{}, invalid(path, "%q must be a boolean", key)
			}
			hc.Enabled = b
		case keySkipUsers:
			hc.SkipUsers, err = stringList(value)
		case keyRestrictions:
			hc.Restrictions, err = parseRestrictions(value)
		case keyCommitMsg:
			s, ok := value.(string)
			if !ok {
				return HookConfig{}, invalid(path, "%q must be a string", key)
			}
			hc.CommitMsgPattern = s
		default:
			event := hooks.Event(key)
			if !slices.Contains(hooks.TaskEvents, event) {
				hc.Unknown = append(hc.Unknown, key)
				continue
			}
			var tasks []string
			tasks, err = stringList(value)
			hc.Tasks[event] = nonBlank(tasks)
		}
		if err != nil {
			return HookConfig{}, invalid(path, "%q: %v", key, err)
		}
	}

	sort.Strings(hc.Unknown)
	return hc, nil
}

func parseRestrictions(value any) (Restrictions, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return Restrictions{}, fmt.Errorf("must be an object")
	}
	var r Restrictions
	var err error
	if v, ok := m[keyFileTypes]; ok {
		if r.FileTypes, err = stringList(v); err != nil {
			return Restrictions{}, fmt.Errorf("%s %w", keyFileTypes, err)
		}
	}
	if v, ok := m[keyFolders]; ok {
		if r.Folders, err = stringList(v); err != nil {
			return Restrictions{}, fmt.Errorf("%s %w", keyFolders, err)
		}
	}
	r.FileTypes = nonBlank(r.FileTypes)
	r.Folders = nonBlank(r.Folders)
	return r, nil
}

// stringList accepts a single string or a list of strings.
func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is not a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings")
	}
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
