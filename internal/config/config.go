package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up at the repository root.
const FileName = ".monohook.toml"

// DefaultSection is the manifest key holding a package's hook config.
const DefaultSection = "monohook"

// Config holds the monohook settings for one repository.
type Config struct {
	Manifests       []string `toml:"manifests"`
	Section         string   `toml:"section"`
	Exclude         []string `toml:"exclude"`
	Shell           string   `toml:"shell"`
	CommitMsgEvents []string `toml:"commit_msg_events"`
	AttachTTY       bool     `toml:"attach_tty"`

	// Disabled is set by MONOHOOK=0 and never read from the file.
	Disabled bool `toml:"-"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Manifests:       []string{"package.json"},
		Section:         DefaultSection,
		Exclude:         []string{"node_modules", "vendor", ".git"},
		Shell:           "sh",
		CommitMsgEvents: []string{"pre-commit", "pre-push"},
	}
}

// Path returns the settings file path for a repository root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads <root>/.monohook.toml and applies env overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns error only if file exists but is invalid; the Config returned
// with it is Default() with env overrides applied, so MONOHOOK=0 is still
// visible to the caller.
func Load(root string) (Config, error) {
	cfg, err := decode(root)
	if err == nil {
		applyEnv(&cfg)
		err = cfg.Validate()
	}
	if err != nil {
		cfg = Default()
		applyEnv(&cfg)
		return cfg, err
	}
	return cfg, nil
}

// decode reads the settings file over the defaults.
func decode(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(root))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), FileName)
	}
	return cfg, nil
}

// DisabledByEnv reports whether MONOHOOK turns dispatching off.
func DisabledByEnv() bool {
	v, ok := os.LookupEnv("MONOHOOK")
	return ok && (v == "0" || v == "false")
}

// applyEnv applies MONOHOOK and MONOHOOK_SHELL.
func applyEnv(cfg *Config) {
	if DisabledByEnv() {
		cfg.Disabled = true
	}
	if shell := os.Getenv("MONOHOOK_SHELL"); shell != "" {
		cfg.Shell = shell
	}
}

// Encode renders cfg as TOML.
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const defaultConfig = `# monohook configuration
# Place this file at the repository root. Every setting is optional.

# Manifest file names looked for in each directory. A directory containing
# one of them is a package. Supported formats: .json, .yaml/.yml, .toml
# manifests = ["package.json"]

# Key of the hook section inside each manifest
# section = "monohook"

# Directory name patterns skipped during discovery (filepath.Match syntax)
# exclude = ["node_modules", "vendor", ".git"]

# Shell used to run tasks as "<shell> -c <task>"
# Override per invocation with MONOHOOK_SHELL
# shell = "sh"

# Events that check the package's "commit-msg" pattern before running tasks.
# The commit-msg hook always checks it.
# commit_msg_events = ["pre-commit", "pre-push"]

# Give tasks /dev/tty as stdin when git runs the hook without a terminal,
# so interactive tools keep working.
# attach_tty = false

# Package manifest example (package.json):
#
# {
#   "name": "api",
#   "monohook": {
#     "enabled": true,
#     "skip-users": ["release-bot"],
#     "restrictions": { "fileTypes": ["ts", "tsx"], "folders": ["src"] },
#     "commit-msg": "^[A-Z]+-\\d+ ",
#     "pre-commit": ["npm run lint"],
#     "pre-push": ["npm test"]
#   }
# }
#
# Set MONOHOOK=0 to skip all hooks for one git command.
`

// Init creates a default config file at <root>/.monohook.toml.
// If force is true, overwrites existing file.
// Returns the path to the created file
func Init(root string, force bool) (string, error) {
	path := Path(root)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}
	return path, nil
}
