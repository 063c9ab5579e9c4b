package dispatch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/git"
	gitmocks "github.com/raphi011/monohook/internal/git/mocks"
	"github.com/raphi011/monohook/internal/hooks"
	hookmocks "github.com/raphi011/monohook/internal/hooks/mocks"
	"github.com/raphi011/monohook/internal/log"
)

// fakeRunner records tasks and fails those listed in exit.
type fakeRunner struct {
	exit  map[string]int
	err   map[string]error
	calls []hooks.Task
}

func (r *fakeRunner) Run(_ context.Context, task hooks.Task) (int, error) {
	r.calls = append(r.calls, task)
	if err := r.err[task.Command]; err != nil {
		return -1, err
	}
	return r.exit[task.Command], nil
}

func (r *fakeRunner) commands() []string {
	var out []string
	for _, c := range r.calls {
		out = append(out, c.Command)
	}
	return out
}

// newRepo writes manifests (path relative to root -> content) into a temp dir.
func newRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

type harness struct {
	git    *gitmocks.MockGit
	runner *fakeRunner
	d      *Dispatcher
	logs   *bytes.Buffer
	ctx    context.Context
}

// newHarness wires a dispatcher whose repository is root and whose git user
// is user.
func newHarness(t *testing.T, root, user string) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	g := gitmocks.NewMockGit(ctrl)
	g.EXPECT().RootDir(gomock.Any()).Return(root, nil)
	g.EXPECT().Username(gomock.Any()).Return(user, nil)
	g.EXPECT().Branch(gomock.Any()).Return("main", nil)

	runner := &fakeRunner{}
	var logs bytes.Buffer
	return &harness{
		git:    g,
		runner: runner,
		d:      &Dispatcher{Git: g, Runner: runner, Config: config.Default()},
		logs:   &logs,
		ctx:    log.WithLogger(context.Background(), log.New(&logs, true, false)),
	}
}

func kinds(r *Report) map[string]Kind {
	out := make(map[string]Kind, len(r.Results))
	for _, res := range r.Results {
		out[res.Package.RelPath] = res.Outcome.Kind
	}
	return out
}

const (
	manifestA = `{"monohook": {"restrictions": {"fileTypes": ["js"]}, "pre-commit": ["echo A"]}}`
	manifestB = `{"monohook": {"pre-commit": ["echo B"]}}`
)

func TestRun_Scenario1_AllMatchingPackagesRun(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{"A/package.json": manifestA, "B/package.json": manifestB})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return([]string{"A/index.js"}, nil)

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.NoError(t, err)

	assert.Equal(t, []string{"echo A", "echo B"}, h.runner.commands())
	assert.Equal(t, filepath.Join(root, "A"), h.runner.calls[0].Dir)
	assert.Equal(t, filepath.Join(root, "B"), h.runner.calls[1].Dir)
	assert.Equal(t, map[string]Kind{"A": TasksSucceeded, "B": TasksSucceeded}, kinds(report))
}

func TestRun_Scenario2_RestrictedPackageUnchanged(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{"A/package.json": manifestA, "B/package.json": manifestB})
	h := newHarness(t, root, "dev")

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit, Files: []string{"B/readme.md"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"echo B"}, h.runner.commands())
	assert.Equal(t, map[string]Kind{"A": NoMatchingFiles, "B": TasksSucceeded}, kinds(report))
	assert.Contains(t, h.logs.String(), "A: no files matched")
}

func TestRun_Scenario3_DisabledPackageSkipped(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"C/package.json": `{"monohook": {"enabled": false, "post-merge": ["echo C"], "pre-commit": ["echo C"]}}`,
	})

	for _, event := range hooks.TaskEvents {
		t.Run(string(event), func(t *testing.T) {
			h := newHarness(t, root, "dev")
			report, err := h.d.Run(h.ctx, Request{Event: event, Files: []string{"C/x"}})
			require.NoError(t, err)
			assert.Empty(t, h.runner.calls)
			require.Len(t, report.Results, 1)
			assert.Equal(t, Outcome{Kind: Skipped, Reason: ReasonDisabled}, report.Results[0].Outcome)
		})
	}
}

func TestRun_Scenario4_FailFast(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"C/package.json": `{"monohook": {"pre-push": ["echo C"]}}`,
		"D/package.json": `{"monohook": {"pre-push": ["exit 1", "echo D2"]}}`,
		"E/package.json": `{"monohook": {"pre-push": ["echo E"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().CommittedFiles(gomock.Any(), "origin", "main").Return([]string{"C/a", "D/b", "E/c"}, nil)
	h.runner.exit = map[string]int{"exit 1": 1}

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPrePush})

	var tfe *TaskFailedError
	require.ErrorAs(t, err, &tfe)
	assert.Equal(t, &TaskFailedError{Package: "D", Event: hooks.EventPrePush, Task: "exit 1", Index: 0, ExitCode: 1}, tfe)
	assert.Equal(t, "D: pre-push task 1 (exit 1) failed with exit code 1", tfe.Error())

	assert.Equal(t, []string{"echo C", "exit 1"}, h.runner.commands())
	assert.Equal(t, map[string]Kind{"C": TasksSucceeded, "D": TaskFailed}, kinds(report))
	failed, ok := report.Failed()
	require.True(t, ok)
	assert.Equal(t, "D", failed.Package.RelPath)
}

func TestRun_Scenario5_CommitMessageGatesTasks(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+", "pre-commit": ["echo never"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return([]string{"F/a.go"}, nil)
	h.git.EXPECT().CommitMessage(gomock.Any()).Return("fix bug", nil)

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommitMessage)
	assert.Contains(t, err.Error(), `"fix bug"`)

	var tfe *TaskFailedError
	require.ErrorAs(t, err, &tfe)
	assert.Equal(t, -1, tfe.Index)
	assert.Equal(t, "commit-msg", tfe.Task)
	assert.Empty(t, h.runner.calls)
	assert.Equal(t, map[string]Kind{"F": TaskFailed}, kinds(report))
}

func TestRun_CommitMessageAccepted(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+", "pre-commit": ["echo ok"]}}`,
		"G/package.json": `{"monohook": {"commit-msg": "JIRA", "pre-commit": ["echo ok too"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return([]string{"F/a", "G/b"}, nil)
	// Fetched once for both packages.
	h.git.EXPECT().CommitMessage(gomock.Any()).Return("JIRA-42 add feature", nil).Times(1)

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo ok", "echo ok too"}, h.runner.commands())
}

func TestRun_CommitMessageMissingOnUnbornHead(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+", "pre-commit": ["echo first"]}}`,
		"G/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+", "pre-commit": ["echo second"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return([]string{"F/a", "G/b"}, nil)
	h.git.EXPECT().CommitMessage(gomock.Any()).Return("", git.ErrNoCommitMessage).Times(1)

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo first", "echo second"}, h.runner.commands())
	assert.Equal(t, map[string]Kind{"F": TasksSucceeded, "G": TasksSucceeded}, kinds(report))
	assert.Contains(t, h.logs.String(), "F: commit message check skipped: no commit message yet")
}

func TestRun_CommitMsgEventRequiresMessage(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+"}}`,
	})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().CommitMessage(gomock.Any()).Return("", git.ErrNoCommitMessage)

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventCommitMsg})
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrNoCommitMessage)
	assert.Contains(t, err.Error(), "failed to read commit message")
}

func TestRun_CommitMessageOnlyForConfiguredEvents(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+", "pre-push": ["echo push"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.d.Config.CommitMsgEvents = []string{"pre-commit"}

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPrePush, Files: []string{"F/x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo push"}, h.runner.commands())
}

func TestRun_CommitMsgEventReadsMessageFile(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "^JIRA-\\d+"}}`,
		"msg-ok":         "JIRA-7 tidy up\n# Please enter the commit message\n",
		"msg-bad":        "# JIRA-7 in a comment only\ntidy up\n",
	})

	h := newHarness(t, root, "dev")
	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventCommitMsg, MessageFile: filepath.Join(root, "msg-ok")})
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{"F": NoTasksConfigured}, kinds(report))

	h = newHarness(t, root, "dev")
	_, err = h.d.Run(h.ctx, Request{Event: hooks.EventCommitMsg, MessageFile: filepath.Join(root, "msg-bad")})
	assert.ErrorIs(t, err, ErrCommitMessage)
}

func TestRun_InvalidCommitPatternIsFatal(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"F/package.json": `{"monohook": {"commit-msg": "(", "pre-commit": ["echo never"]}}`,
	})
	h := newHarness(t, root, "dev")

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit, Files: []string{"F/x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid commit-msg pattern")
	assert.Empty(t, h.runner.calls)
}

func TestRun_SkipUser(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"A/package.json": `{"monohook": {"skip-users": ["ci-bot"], "enabled": false, "post-commit": ["echo A"]}}`,
		"B/package.json": `{"monohook": {"skip-users": ["someone-else"], "post-commit": ["echo B"]}}`,
	})
	h := newHarness(t, root, "ci-bot")

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Skipped, Reason: ReasonUser}, report.Results[0].Outcome)
	assert.Equal(t, []string{"echo B"}, h.runner.commands())
}

func TestRun_TasksRunInOrderAndStopAtFirstFailure(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"package.json": `{"monohook": {"post-merge": ["first", "second", "third"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.runner.exit = map[string]int{"second": 7}

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostMerge})

	var tfe *TaskFailedError
	require.ErrorAs(t, err, &tfe)
	assert.Equal(t, 1, tfe.Index)
	assert.Equal(t, 7, tfe.ExitCode)
	assert.Equal(t, []string{"first", "second"}, h.runner.commands())
	assert.Equal(t, 1, report.Results[0].Outcome.Ran)
}

func TestRun_NonFileSensitiveEventsIgnoreRestrictions(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"A/package.json": `{"monohook": {"restrictions": {"folders": ["src"]}, "post-checkout": ["npm ci"]}}`,
	})
	h := newHarness(t, root, "dev")

	// No StagedFiles/CommittedFiles expectation: the mock fails if called.
	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCheckout})
	require.NoError(t, err)
	assert.Equal(t, []string{"npm ci"}, h.runner.commands())
}

func TestRun_NoStagedFilesIsSoft(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{"B/package.json": manifestB})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return(nil, git.ErrNoStagedFiles)

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{"B": NoMatchingFiles}, kinds(report))
	assert.Contains(t, h.logs.String(), "no staged files")
}

func TestRun_NoCommitsIsSoft(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{"B/package.json": `{"monohook": {"pre-push": ["echo B"]}}`})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().CommittedFiles(gomock.Any(), "upstream", "main").Return(nil, git.ErrNoCommits)

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPrePush, Remote: "upstream"})
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{"B": NoMatchingFiles}, kinds(report))
}

func TestRun_GitFileErrorIsFatal(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{"B/package.json": manifestB})
	h := newHarness(t, root, "dev")
	h.git.EXPECT().StagedFiles(gomock.Any()).Return(nil, errors.New("index locked"))

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	assert.ErrorContains(t, err, "index locked")
}

func TestRun_NoTasksDistinguishedFromNoMatch(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"A/package.json": `{"monohook": {"pre-push": ["echo push"]}}`,
		"B/package.json": `{"monohook": {"restrictions": {"fileTypes": ["go"]}}}`,
	})
	h := newHarness(t, root, "dev")

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit, Files: []string{"A/x.txt", "B/y.txt"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{"A": NoTasksConfigured, "B": NoMatchingFiles}, kinds(report))
	assert.Contains(t, h.logs.String(), "Warning: A: files changed but no pre-commit tasks defined")
	assert.Contains(t, h.logs.String(), "B: no files matched")
}

func TestRun_NoConfigDoesNotStopRun(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"package.json":   `{"name": "root"}`,
		"A/package.json": `{"monohook": `,
		"B/package.json": `{"monohook": {"enabled": "yes"}}`,
		"C/package.json": `{"monohook": {"post-commit": ["echo C"]}}`,
	})
	h := newHarness(t, root, "dev")

	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit})
	require.NoError(t, err)
	assert.Equal(t, map[string]Kind{"": NoConfig, "A": NoConfig, "B": NoConfig, "C": TasksSucceeded}, kinds(report))
	assert.Equal(t, []string{"echo C"}, h.runner.commands())
	assert.Contains(t, h.logs.String(), "Warning: A: skipped")
	assert.NotContains(t, h.logs.String(), "Warning: "+filepath.Base(root))
}

func TestRun_UnparsableRootManifestIsFatal(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"package.json":   `not json`,
		"C/package.json": `{"monohook": {"post-commit": ["echo C"]}}`,
	})
	h := newHarness(t, root, "dev")

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root manifest")
	assert.Empty(t, h.runner.calls)
}

func TestRun_NotARepository(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	g := gitmocks.NewMockGit(ctrl)
	g.EXPECT().RootDir(gomock.Any()).Return("", git.ErrNotRepository)

	d := &Dispatcher{Git: g, Runner: &fakeRunner{}, Config: config.Default()}
	_, err := d.Run(context.Background(), Request{Event: hooks.EventPreCommit})
	assert.ErrorIs(t, err, git.ErrNotRepository)
}

func TestRun_PlaceholdersAndEnvironment(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"packages/api/package.json": `{"monohook": {"post-checkout": ["echo {package} {event} {branch}"]}}`,
	})
	h := newHarness(t, root, "dev")

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCheckout})
	require.NoError(t, err)
	require.Len(t, h.runner.calls, 1)

	task := h.runner.calls[0]
	assert.Equal(t, "echo 'api' 'post-checkout' 'main'", task.Command)
	assert.Equal(t, "packages/api", task.Package)
	assert.Equal(t, filepath.Join(root, "packages", "api"), task.Dir)
	assert.Contains(t, task.Env, "MONOHOOK_EVENT=post-checkout")
	assert.Contains(t, task.Env, "MONOHOOK_ROOT="+root)
}

func TestRun_RunnerErrorIsFatal(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"A/package.json": `{"monohook": {"post-commit": ["lint"]}}`,
		"B/package.json": `{"monohook": {"post-commit": ["echo B"]}}`,
	})
	h := newHarness(t, root, "dev")
	h.runner.err = map[string]error{"lint": context.Canceled}

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"lint"}, h.runner.commands())
}

func TestRun_PackageFilter(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"packages/api/package.json": `{"monohook": {"post-commit": ["echo api"]}}`,
		"packages/web/package.json": `{"monohook": {"post-commit": ["echo web"]}}`,
	})

	h := newHarness(t, root, "dev")
	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit, Packages: []string{"web"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo web"}, h.runner.commands())

	h = newHarness(t, root, "dev")
	_, err = h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit, Packages: []string{"wbe"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown package "wbe"`)
	assert.Empty(t, h.runner.calls)
}

// commandIs matches a hooks.Task by command line.
type commandIs string

func (c commandIs) Matches(x any) bool {
	task, ok := x.(hooks.Task)
	return ok && task.Command == string(c)
}

func (c commandIs) String() string {
	return "task running " + string(c)
}

func TestRun_WithMockRunner(t *testing.T) {
	t.Parallel()

	root := newRepo(t, map[string]string{
		"A/package.json": `{"monohook": {"post-commit": ["one", "two"]}}`,
		"B/package.json": `{"monohook": {"post-commit": ["three"]}}`,
	})
	h := newHarness(t, root, "dev")

	ctrl := gomock.NewController(t)
	runner := hookmocks.NewMockRunner(ctrl)
	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), commandIs("one")).Return(0, nil),
		runner.EXPECT().Run(gomock.Any(), commandIs("two")).Return(2, nil),
	)
	h.d.Runner = runner

	_, err := h.d.Run(h.ctx, Request{Event: hooks.EventPostCommit})
	var tfe *TaskFailedError
	require.ErrorAs(t, err, &tfe)
	assert.Equal(t, "A", tfe.Package)
}

func TestRun_NoPackages(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newRepo(t, nil), "dev")
	report, err := h.d.Run(h.ctx, Request{Event: hooks.EventPreCommit})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestReport_Summary(t *testing.T) {
	t.Parallel()

	r := &Report{Event: hooks.EventPreCommit, Results: []Result{
		{Outcome: Outcome{Kind: TasksSucceeded}},
		{Outcome: Outcome{Kind: TasksSucceeded}},
		{Outcome: Outcome{Kind: Skipped}},
		{Outcome: Outcome{Kind: NoConfig}},
	}}
	assert.Equal(t, "pre-commit: 4 packages, 2 ran, 1 skipped, 1 without config", r.Summary())

	one := &Report{Event: hooks.EventPostMerge, Results: []Result{{Outcome: Outcome{Kind: NoMatchingFiles}}}}
	assert.Equal(t, "post-merge: 1 package, 1 unchanged", one.Summary())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no config", NoConfig.String())
	assert.Equal(t, "failed", TaskFailed.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
