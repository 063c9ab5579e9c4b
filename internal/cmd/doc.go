// Package cmd runs helper commands (git, mostly) and folds their stderr
// into the returned error.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, root, "git", "diff", "--cached", "--name-only")
//	if err != nil {
//	    // err is git's stderr when it wrote any
//	}
//
// The command line is logged through [log.Logger.Command] when verbose.
//
// Hook tasks do not go through this package: they stream their output to
// the terminal and are run by the hooks package.
package cmd
