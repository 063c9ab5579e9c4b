// Package hooks defines the git hook events monohook handles and runs the
// shell tasks configured for them.
//
// # Events
//
// [Event] enumerates the supported git hooks. File-sensitive events
// (pre-commit, pre-push) only run a package's tasks when a changed file
// concerns that package; the others run unconditionally.
//
// # Tasks
//
// A [Task] is one shell command from a package manifest. [ShellRunner]
// executes it with "sh -c" in the package directory, with stdio attached
// to the terminal so build and test output stays visible while git waits.
// The exit code is the only failure signal.
//
// Example manifest section:
//
//	"monohook": {
//	  "pre-commit": ["npm run lint -- {package}", "npm test"]
//	}
//
// # Placeholder Substitution
//
// Placeholders are replaced with shell-quoted values before a task runs:
//
//   - {package}: package name (directory base name)
//   - {path}: absolute package directory
//   - {root}: repository root
//   - {event}: hook event being dispatched
//   - {branch}: current branch
//
// The same values are exported as MONOHOOK_PACKAGE, MONOHOOK_PATH,
// MONOHOOK_ROOT, MONOHOOK_EVENT and MONOHOOK_BRANCH.
package hooks
