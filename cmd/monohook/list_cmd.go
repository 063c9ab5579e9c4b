package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/discovery"
	"github.com/raphi011/monohook/internal/git"
	"github.com/raphi011/monohook/internal/log"
	"github.com/raphi011/monohook/internal/manifest"
	"github.com/raphi011/monohook/internal/ui/static"
)

var listHeaders = []string{"PACKAGE", "MANIFEST", "STATUS", "EVENTS", "RESTRICTIONS"}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List packages and their hook configuration",
		Aliases: []string{"ls"},
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `List every discovered package with the state of its hook configuration.

STATUS is one of: enabled, disabled, skipped (the current git user is in
skip-users), no config, or invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			repo := git.New(config.WorkDirFromContext(ctx))
			root, err := repo.RootDir(ctx)
			if err != nil {
				return err
			}
			user, err := repo.Username(ctx)
			if err != nil {
				return err
			}

			pkgs, err := discovery.Discover(root, discovery.Options{Manifests: cfg.Manifests, Exclude: cfg.Exclude})
			if err != nil {
				return err
			}
			if len(pkgs) == 0 {
				l.Printf("No packages found (looked for %s)\n", strings.Join(cfg.Manifests, ", "))
				return nil
			}

			resolver := manifest.Resolver{Section: cfg.Section}
			rows := make([][]string, 0, len(pkgs))
			for _, pkg := range pkgs {
				hc, err := resolver.Resolve(pkg)
				if err != nil {
					l.Debug("resolve failed", "package", pkg.DisplayName(), "error", err)
				}
				rows = append(rows, packageRow(pkg, hc, err, user))
			}
			return static.WriteTable(cmd.OutOrStdout(), listHeaders, rows)
		},
	}

	return cmd
}

// packageRow formats one package for the list table.
func packageRow(pkg discovery.Package, hc manifest.HookConfig, resolveErr error, user string) []string {
	row := []string{pkg.DisplayName(), filepath.Base(pkg.Manifest)}

	switch {
	case resolveErr != nil && (errors.Is(resolveErr, manifest.ErrUnparsable) || errors.Is(resolveErr, manifest.ErrInvalid)):
		return append(row, "invalid", "-", "-")
	case resolveErr != nil:
		return append(row, "no config", "-", "-")
	case hc.SkipsUser(user):
		row = append(row, "skipped")
	case !hc.Enabled:
		row = append(row, "disabled")
	default:
		row = append(row, "enabled")
	}

	var events []string
	for _, e := range hc.Events() {
		events = append(events, e.String())
	}
	if hc.CommitMsgPattern != "" {
		events = append(events, "commit-msg")
	}

	return append(row, orDash(strings.Join(events, ",")), orDash(formatRestrictions(hc.Restrictions)))
}

// formatRestrictions renders restrictions as "src/ lib/ *.ts".
func formatRestrictions(r manifest.Restrictions) string {
	var parts []string
	for _, f := range r.Folders {
		parts = append(parts, strings.TrimSuffix(f, "/")+"/")
	}
	for _, t := range r.FileTypes {
		parts = append(parts, "*."+strings.TrimPrefix(t, "."))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
