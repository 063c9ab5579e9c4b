package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/dispatch"
	"github.com/raphi011/monohook/internal/hooks"
)

// newHookCmds returns one command per git hook monohook handles.
func newHookCmds() []*cobra.Command {
	return []*cobra.Command{
		newPreCommitCmd(),
		newPrePushCmd(),
		newCommitMsgCmd(),
		newPassiveHookCmd(hooks.EventPostCheckout, "<prev-head> <new-head> <branch-flag>"),
		newPassiveHookCmd(hooks.EventPostCommit, ""),
		newPassiveHookCmd(hooks.EventPostMerge, "<squash-flag>"),
	}
}

func newPreCommitCmd() *cobra.Command {
	var flags dispatchFlags

	cmd := &cobra.Command{
		Use:     "pre-commit",
		Short:   "Run pre-commit tasks of packages with staged changes",
		GroupID: GroupHooks,
		Args:    cobra.NoArgs,
		Long: `Run pre-commit tasks of every package whose restrictions match a staged file.

Packages with a "commit-msg" pattern also check the commit message first.`,
		Example: `  monohook pre-commit              # As called from .git/hooks/pre-commit
  monohook pre-commit -p api       # Only the api package
  monohook pre-commit -n           # Show what would run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, dispatch.Request{Event: hooks.EventPreCommit}, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func newPrePushCmd() *cobra.Command {
	var flags dispatchFlags

	cmd := &cobra.Command{
		Use:     "pre-push [remote] [url]",
		Short:   "Run pre-push tasks of packages with unpushed changes",
		GroupID: GroupHooks,
		Args:    cobra.MaximumNArgs(2),
		Long: `Run pre-push tasks of every package whose restrictions match a file
changed by the commits about to be pushed.

git passes the remote name and URL. The commit range is the upstream
branch when one is tracked, otherwise every commit not yet on the remote.`,
		Example: `  monohook pre-push origin git@example.com:org/repo.git
  monohook pre-push                # Defaults to origin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dispatch.Request{Event: hooks.EventPrePush}
			if len(args) > 0 {
				req.Remote = args[0]
			}
			return runDispatch(cmd, req, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func newCommitMsgCmd() *cobra.Command {
	var flags dispatchFlags

	cmd := &cobra.Command{
		Use:     "commit-msg <file>",
		Short:   "Check the commit message against package patterns",
		GroupID: GroupHooks,
		Args:    cobra.ExactArgs(1),
		Long: `Check the commit message in <file> against the "commit-msg" pattern of
every package. Comment lines starting with # are ignored.`,
		Example: `  monohook commit-msg .git/COMMIT_EDITMSG`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			if !filepath.IsAbs(file) {
				file = filepath.Join(config.WorkDirFromContext(cmd.Context()), file)
			}
			return runDispatch(cmd, dispatch.Request{Event: hooks.EventCommitMsg, MessageFile: file}, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// newPassiveHookCmd builds a command for a hook that runs every enabled
// package regardless of changed files. git's arguments are accepted and
// ignored.
func newPassiveHookCmd(event hooks.Event, gitArgs string) *cobra.Command {
	var flags dispatchFlags

	use := string(event)
	if gitArgs != "" {
		use += " " + gitArgs
	}

	cmd := &cobra.Command{
		Use:     use,
		Short:   "Run " + string(event) + " tasks of every package",
		GroupID: GroupHooks,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, dispatch.Request{Event: event}, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}
