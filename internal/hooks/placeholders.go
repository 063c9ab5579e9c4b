package hooks

import "strings"

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes,
// e.g. "it's" becomes 'it'\''s'.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Context holds the values a task can reference.
type Context struct {
	Package string // package name
	Path    string // absolute package directory
	Root    string // repository root
	Event   Event  // hook being dispatched
	Branch  string // current branch
}

// SubstitutePlaceholders replaces {package}, {path}, {root}, {event} and
// {branch} in command with shell-quoted values from ctx.
// Other brace expressions (${VAR}, find -exec {}) are left alone.
func SubstitutePlaceholders(command string, ctx Context) string {
	return strings.NewReplacer(
		"{package}", shellQuote(ctx.Package),
		"{path}", shellQuote(ctx.Path),
		"{root}", shellQuote(ctx.Root),
		"{event}", shellQuote(string(ctx.Event)),
		"{branch}", shellQuote(ctx.Branch),
	).Replace(command)
}

// Environ returns ctx as MONOHOOK_* environment entries.
func (ctx Context) Environ() []string {
	return []string{
		"MONOHOOK_PACKAGE=" + ctx.Package,
		"MONOHOOK_PATH=" + ctx.Path,
		"MONOHOOK_ROOT=" + ctx.Root,
		"MONOHOOK_EVENT=" + string(ctx.Event),
		"MONOHOOK_BRANCH=" + ctx.Branch,
	}
}

// NewTask builds the task for command in ctx's package.
func NewTask(command string, ctx Context) Task {
	return Task{
		Package: ctx.Package,
		Command: SubstitutePlaceholders(command, ctx),
		Dir:     ctx.Path,
		Env:     ctx.Environ(),
	}
}
