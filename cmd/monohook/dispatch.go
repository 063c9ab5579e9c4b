package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/dispatch"
	"github.com/raphi011/monohook/internal/git"
	"github.com/raphi011/monohook/internal/hooks"
	"github.com/raphi011/monohook/internal/log"
)

// dispatchFlags are shared by every command that runs tasks.
type dispatchFlags struct {
	packages []string
	dryRun   bool
}

func (f *dispatchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.packages, "package", "p", nil, "Only run tasks of these packages (name or path, repeatable)")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Print tasks without executing them")
	cmd.RegisterFlagCompletionFunc("package", completePackages)
}

// runDispatch runs req with the repository's settings and prints the summary.
func runDispatch(cmd *cobra.Command, req dispatch.Request, flags *dispatchFlags) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	if cfg.Disabled {
		l.Debug("hooks disabled by MONOHOOK", "event", req.Event)
		return nil
	}

	req.Packages = flags.packages
	d := &dispatch.Dispatcher{
		Git: git.New(config.WorkDirFromContext(ctx)),
		Runner: &hooks.ShellRunner{
			Shell:     cfg.Shell,
			AttachTTY: cfg.AttachTTY,
			DryRun:    flags.dryRun,
			Stdout:    cmd.OutOrStdout(),
			Stderr:    cmd.ErrOrStderr(),
		},
		Config: *cfg,
	}

	l.Debug("dispatching", "event", req.Event, "files", len(req.Files), "dryRun", flags.dryRun)
	report, err := d.Run(ctx, req)
	if report != nil && len(report.Results) > 0 {
		l.Println(report.Summary())
	}
	return err
}
