// Package config handles loading and validation of monohook's repo-level
// settings.
//
// Settings are read from .monohook.toml at the repository root. A missing
// file means defaults. Per-package hook configuration does not live here;
// it is read from each package's manifest by the manifest package.
//
// # Configuration Sources (highest priority first)
//
//   - MONOHOOK=0 env var: disable all hooks for this invocation
//   - MONOHOOK_SHELL env var: shell used to run tasks
//   - .monohook.toml settings
//   - Default values
//
// # Key Settings
//
//   - manifests: manifest file names looked for in each directory (default: ["package.json"])
//   - section: key of the hook section inside a manifest (default: "monohook")
//   - exclude: directory name patterns skipped during discovery
//   - shell: shell used as "<shell> -c <task>" (default: "sh")
//   - commit_msg_events: events that validate the commit message pattern
//   - attach_tty: give tasks /dev/tty when git detached stdin
package config
