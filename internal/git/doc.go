// Package git answers the repository questions the dispatcher asks, by
// shelling out to the git CLI.
//
// # Collaborator
//
// [Git] is the interface consumed by the dispatcher; [CLI] implements it.
// Tests substitute the gomock-generated mocks in the mocks subpackage.
//
//   - [Git.RootDir]: top-level directory of the work tree
//   - [Git.Username]: user.name from git config
//   - [Git.Branch]: current branch, "(detached)" for a detached HEAD
//   - [Git.StagedFiles]: files in the index, [ErrNoStagedFiles] when none
//   - [Git.CommittedFiles]: files touched by unpushed commits, [ErrNoCommits] when none
//   - [Git.CommitMessage]: in-progress commit message
//
// # Version
//
// [CheckGit] verifies git is installed and at least [MinVersion].
package git
