package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// decodeFile reads path into a generic document map, choosing the decoder by
// file extension.
func decodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		_, err = toml.Decode(string(data), &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
