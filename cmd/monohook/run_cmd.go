package main

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/dispatch"
	"github.com/raphi011/monohook/internal/hooks"
)

func newRunCmd() *cobra.Command {
	var flags dispatchFlags

	cmd := &cobra.Command{
		Use:               "run <event> [file...]",
		Short:             "Dispatch a hook event manually",
		GroupID:           GroupUtility,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeEventArg,
		Long: `Dispatch a hook event as if git had triggered it.

Files given after the event replace the ones monohook would collect from
git (staged files for pre-commit, unpushed changes for pre-push).
Paths are relative to the repository root.`,
		Example: `  monohook run pre-commit                     # Use the staged files
  monohook run pre-commit api/main.go         # Pretend only this file changed
  monohook run post-merge -p web -n           # Preview web's post-merge tasks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := parseEventArg(args[0])
			if err != nil {
				return err
			}
			req := dispatch.Request{Event: event}
			if len(args) > 1 {
				req.Files = args[1:]
			}
			return runDispatch(cmd, req, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// parseEventArg parses an event name, suggesting the closest one on a typo.
func parseEventArg(name string) (hooks.Event, error) {
	event, err := hooks.ParseEvent(name)
	if err == nil {
		return event, nil
	}

	names := eventNames()
	if matches := fuzzy.Find(name, names); len(matches) > 0 {
		return "", fmt.Errorf("%w (did you mean %q?)", err, matches[0].Str)
	}
	return "", fmt.Errorf("%w (valid: %s)", err, strings.Join(names, ", "))
}

func eventNames() []string {
	var names []string
	for _, e := range hooks.Events() {
		names = append(names, e.String())
	}
	return names
}
