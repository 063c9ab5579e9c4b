package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/git"
	"github.com/raphi011/monohook/internal/log"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupHooks   = "hooks"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "monohook",
	Short: "Git hooks for monorepos",
	Long: `monohook runs git hook tasks for every package of a monorepo.

A package is any directory holding a manifest (package.json by default).
Its tasks live in the manifest's "monohook" section, keyed by hook name,
and only run when the changed files concern the package.

Call the hook commands from .git/hooks, e.g. .git/hooks/pre-commit:

  #!/bin/sh
  exec monohook pre-commit`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := log.WithLogger(cmd.Context(), log.New(cmd.ErrOrStderr(), verbose, quiet))
		cmd.SetContext(ctx)

		// Skip git check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if err := git.CheckGit(ctx); err != nil {
			return err
		}

		// Outside a repository commands fail on their own.
		root, err := git.New(config.WorkDirFromContext(ctx)).RootDir(ctx)
		if err != nil {
			return nil
		}
		cfg, err := loadConfig(ctx, root)
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(ctx, &cfg))
		return nil
	},
}

// loadConfig reads the repository settings. A broken settings file is only
// a warning when MONOHOOK disables dispatching.
func loadConfig(ctx context.Context, root string) (config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil && cfg.Disabled {
		log.FromContext(ctx).Warnf("ignoring %s: %v", config.FileName, err)
		return cfg, nil
	}
	return cfg, err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "monohook: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithWorkDir(ctx, workDir)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "monohook:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output and external commands")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output except warnings")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupHooks, Title: "Hook Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Hook commands
	for _, c := range newHookCmds() {
		rootCmd.AddCommand(c)
	}

	// Utility commands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
