package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/git"
	"github.com/raphi011/monohook/internal/log"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage monohook configuration.

Settings live in .monohook.toml at the repository root. Every key is
optional; a missing file means defaults.`,
		Example: `  monohook config init     # Create a commented .monohook.toml
  monohook config show     # Show effective settings`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  monohook config init      # Create .monohook.toml
  monohook config init -f   # Overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := git.New(config.WorkDirFromContext(ctx)).RootDir(ctx)
			if err != nil {
				return err
			}

			path, err := config.Init(root, force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the effective settings as TOML, after defaults and the
MONOHOOK_SHELL override are applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			out, err := cfg.Encode()
			if err != nil {
				return err
			}
			if cfg.Disabled {
				out = "# hooks disabled by MONOHOOK\n" + out
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	return cmd
}
