// Package dispatch runs one hook event across every package of a
// repository.
//
// Packages are visited in discovery order. Each one is resolved, filtered
// by user, enabled flag and changed files, and then has its tasks run in
// order. The first failing task ends the whole run.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/discovery"
	"github.com/raphi011/monohook/internal/git"
	"github.com/raphi011/monohook/internal/hooks"
	"github.com/raphi011/monohook/internal/log"
	"github.com/raphi011/monohook/internal/manifest"
	"github.com/raphi011/monohook/internal/match"
)

// DefaultRemote is used for pre-push when git did not name a remote.
const DefaultRemote = "origin"

// Request describes one dispatch run.
type Request struct {
	Event hooks.Event

	// Files are the changed files. Nil means collect them from git for
	// file-sensitive events.
	Files []string

	// Remote is the pre-push target, DefaultRemote if empty.
	Remote string

	// MessageFile is the commit message file passed to commit-msg. When
	// empty the message is read from the repository.
	MessageFile string

	// Packages limits the run to these package names or paths.
	Packages []string
}

// Dispatcher wires the collaborators of a run together.
type Dispatcher struct {
	Git    git.Git
	Runner hooks.Runner
	Config config.Config
}

// env holds the values computed once at the start of a run.
type env struct {
	root   string
	user   string
	branch string
	files  []string

	message    string
	messageErr error
	messageSet bool
}

// Run dispatches req.Event. The returned report covers every visited
// package, also when a task failure ends the run early; in that case the
// error is a *TaskFailedError.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Report, error) {
	l := log.FromContext(ctx)
	report := &Report{Event: req.Event}

	e, err := d.prepare(ctx)
	if err != nil {
		return report, err
	}

	pkgs, err := discovery.Discover(e.root, discovery.Options{
		Manifests: d.Config.Manifests,
		Exclude:   d.Config.Exclude,
	})
	if err != nil {
		return report, fmt.Errorf("failed to discover packages: %w", err)
	}
	l.Debug("discovered packages", "count", len(pkgs), "root", e.root)

	pkgs, err = selectPackages(pkgs, req.Packages)
	if err != nil {
		return report, err
	}
	if len(pkgs) == 0 {
		return report, nil
	}

	if req.Event.FileSensitive() {
		if e.files, err = d.changedFiles(ctx, req, e.branch); err != nil {
			return report, err
		}
		l.Debug("changed files", "event", req.Event, "count", len(e.files))
	}

	resolver := manifest.Resolver{Section: d.Config.Section}
	for _, pkg := range pkgs {
		hc, err := resolver.Resolve(pkg)
		if err != nil && pkg.IsRoot() && errors.Is(err, manifest.ErrUnparsable) {
			return report, fmt.Errorf("root manifest: %w", err)
		}

		outcome := d.dispatchPackage(ctx, pkg, hc, err, req, e)
		report.Results = append(report.Results, Result{Package: pkg, Outcome: outcome})

		if outcome.Kind == TaskFailed {
			return report, &TaskFailedError{
				Package:  pkg.DisplayName(),
				Event:    req.Event,
				Task:     outcome.Task,
				Index:    outcome.TaskIndex,
				ExitCode: outcome.ExitCode,
				Err:      outcome.Err,
			}
		}
	}
	return report, nil
}

// prepare computes the repository-wide values of a run.
func (d *Dispatcher) prepare(ctx context.Context) (*env, error) {
	root, err := d.Git.RootDir(ctx)
	if err != nil {
		return nil, err
	}
	user, err := d.Git.Username(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read git user: %w", err)
	}
	branch, err := d.Git.Branch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current branch: %w", err)
	}
	return &env{root: root, user: user, branch: branch}, nil
}

// changedFiles returns req.Files or asks git. Nothing staged or nothing to
// push yields an empty list.
func (d *Dispatcher) changedFiles(ctx context.Context, req Request, branch string) ([]string, error) {
	if req.Files != nil {
		return req.Files, nil
	}

	l := log.FromContext(ctx)
	var files []string
	var err error
	switch req.Event {
	case hooks.EventPreCommit:
		files, err = d.Git.StagedFiles(ctx)
	case hooks.EventPrePush:
		remote := req.Remote
		if remote == "" {
			remote = DefaultRemote
		}
		files, err = d.Git.CommittedFiles(ctx, remote, branch)
	}

	switch {
	case errors.Is(err, git.ErrNoStagedFiles), errors.Is(err, git.ErrNoCommits):
		l.Printf("%s: %v\n", req.Event, err)
		return []string{}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to collect changed files: %w", err)
	}
	return files, nil
}

// dispatchPackage applies the per-package rules in order and runs the
// tasks when every rule passes.
func (d *Dispatcher) dispatchPackage(ctx context.Context, pkg discovery.Package, hc manifest.HookConfig, resolveErr error, req Request, e *env) Outcome {
	l := log.FromContext(ctx)
	name := pkg.DisplayName()

	if resolveErr != nil {
		if errors.Is(resolveErr, manifest.ErrUnparsable) || errors.Is(resolveErr, manifest.ErrInvalid) {
			l.Warnf("%s: skipped: %v", name, resolveErr)
		} else {
			l.Debug("no hook configuration", "package", name)
		}
		return Outcome{Kind: NoConfig, Err: resolveErr}
	}
	if len(hc.Unknown) > 0 {
		l.Debug("ignoring unknown keys", "package", name, "keys", strings.Join(hc.Unknown, ","))
	}

	if hc.SkipsUser(e.user) {
		l.Printf("%s: skipped for user %s\n", name, e.user)
		return Outcome{Kind: Skipped, Reason: ReasonUser}
	}
	if !hc.Enabled {
		l.Printf("%s: disabled\n", name)
		return Outcome{Kind: Skipped, Reason: ReasonDisabled}
	}

	if req.Event.FileSensitive() {
		m, err := match.New(hc.Restrictions, pkg.RelPath)
		if err != nil {
			return Outcome{Kind: TaskFailed, TaskIndex: -1, Task: "restrictions", ExitCode: -1, Err: err}
		}
		l.Debug("matching files", "package", name, "pattern", m.String())
		if !m.Any(e.files) {
			l.Printf("%s: no files matched\n", name)
			return Outcome{Kind: NoMatchingFiles}
		}
	}

	if d.checksCommitMessage(req.Event) && hc.CommitMsgPattern != "" {
		checked, err := d.checkCommitMessage(ctx, hc.CommitMsgPattern, req, e)
		switch {
		case err != nil:
			return Outcome{Kind: TaskFailed, TaskIndex: -1, Task: "commit-msg", ExitCode: -1, Err: err}
		case checked:
			l.Debug("commit message accepted", "package", name, "pattern", hc.CommitMsgPattern)
		default:
			l.Printf("%s: commit message check skipped: %v\n", name, e.messageErr)
		}
	}

	tasks := hc.TasksFor(req.Event)
	if len(tasks) == 0 {
		if req.Event.FileSensitive() {
			l.Warnf("%s: files changed but no %s tasks defined", name, req.Event)
		} else {
			l.Debug("no tasks defined", "package", name, "event", req.Event)
		}
		return Outcome{Kind: NoTasksConfigured}
	}

	hctx := hooks.Context{
		Package: pkg.Name,
		Path:    pkg.AbsPath,
		Root:    e.root,
		Event:   req.Event,
		Branch:  e.branch,
	}
	for i, command := range tasks {
		task := hooks.NewTask(command, hctx)
		task.Package = name
		l.Printf("%s: running %s\n", name, task.Command)

		code, err := d.Runner.Run(ctx, task)
		if err != nil || code != 0 {
			return Outcome{Kind: TaskFailed, TaskIndex: i, Task: task.Command, ExitCode: code, Err: err, Ran: i}
		}
	}
	return Outcome{Kind: TasksSucceeded, Ran: len(tasks)}
}

func (d *Dispatcher) checksCommitMessage(event hooks.Event) bool {
	return event == hooks.EventCommitMsg || slices.Contains(d.Config.CommitMsgEvents, string(event))
}

// checkCommitMessage matches the commit message against pattern. The
// message is fetched at most once per run. It reports false without an
// error when the repository has no message to check yet; the commit-msg
// event always has one and stays strict.
func (d *Dispatcher) checkCommitMessage(ctx context.Context, pattern string, req Request, e *env) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid commit-msg pattern: %w", err)
	}

	if !e.messageSet {
		e.message, e.messageErr = d.commitMessage(ctx, req)
		e.messageSet = true
	}
	if errors.Is(e.messageErr, git.ErrNoCommitMessage) && req.Event != hooks.EventCommitMsg {
		return false, nil
	}
	if e.messageErr != nil {
		return false, fmt.Errorf("failed to read commit message: %w", e.messageErr)
	}
	if !re.MatchString(e.message) {
		return false, fmt.Errorf("%w %q: %q", ErrCommitMessage, pattern, firstLine(e.message))
	}
	return true, nil
}

func (d *Dispatcher) commitMessage(ctx context.Context, req Request) (string, error) {
	if req.MessageFile == "" {
		return d.Git.CommitMessage(ctx)
	}
	data, err := os.ReadFile(req.MessageFile)
	if err != nil {
		return "", err
	}
	return git.CleanMessage(string(data)), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// selectPackages applies the --package filter. Unknown names are an error
// carrying suggestions.
func selectPackages(pkgs []discovery.Package, names []string) ([]discovery.Package, error) {
	selected, unknown := discovery.Filter(pkgs, names)
	if len(unknown) == 0 {
		return selected, nil
	}
	name := unknown[0]
	if suggestions := discovery.Suggest(name, pkgs); len(suggestions) > 0 {
		return nil, fmt.Errorf("unknown package %q (did you mean %s?)", name, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("unknown package %q", name)
}
