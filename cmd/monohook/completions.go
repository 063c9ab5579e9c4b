package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/monohook/internal/config"
	"github.com/raphi011/monohook/internal/discovery"
	"github.com/raphi011/monohook/internal/git"
)

// completeEventArg completes the event of "run"; later args are files.
func completeEventArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return eventNames(), cobra.ShellCompDirectiveNoFileComp
}

// completePackages completes --package with discovered package paths.
func completePackages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	root, err := git.New(config.WorkDirFromContext(ctx)).RootDir(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	pkgs, err := discovery.Discover(root, discovery.Options{Manifests: cfg.Manifests, Exclude: cfg.Exclude})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, p := range pkgs {
		if p.IsRoot() {
			names = append(names, p.Name)
			continue
		}
		names = append(names, p.RelPath)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
