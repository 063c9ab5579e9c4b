package discovery

import "github.com/sahilm/fuzzy"

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// Suggest returns up to three package paths that fuzzily match name, best
// first. Both relative paths and bare names are searched.
func Suggest(name string, pkgs []Package) []string {
	candidates := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if p.IsRoot() {
			candidates = append(candidates, p.Name)
			continue
		}
		candidates = append(candidates, p.RelPath)
	}

	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
