package gitdiff

import (
	"context"
	"strings"
)

// Changed paths are handed back to git verbatim, so pathspec magic is off.
var diffBaseArguments = []string{"-c", "core.quotepath=off", "--literal-pathspecs", "diff", "--no-color", "--no-ext-diff"}

const (
	pathspecSeparator = "--"
	nameSeparator     = "\x00"
)

// ChangedFiles lists the repository-relative paths changed in commitRange, in git's order.
func (runner *Runner) ChangedFiles(ctx context.Context, repository string, commitRange Range) ([]string, error) {
	output, runError := runner.Run(ctx, repository, diffArguments(commitRange, []string{"--name-only", "-z"})...)
	if runError != nil {
		return nil, runError
	}
	var changedFiles []string
	for _, name := range strings.Split(output, nameSeparator) {
		if name != "" {
			changedFiles = append(changedFiles, name)
		}
	}
	return changedFiles, nil
}

// FileDiff returns the unified diff of one path in commitRange.
func (runner *Runner) FileDiff(ctx context.Context, repository string, commitRange Range, path string) (string, error) {
	return runner.Run(ctx, repository, diffArguments(commitRange, nil, path)...)
}

// Stats returns git's --stat summary for commitRange restricted to paths.
func (runner *Runner) Stats(ctx context.Context, repository string, commitRange Range, paths []string) (string, error) {
	return runner.Run(ctx, repository, diffArguments(commitRange, []string{"--stat"}, paths...)...)
}

func diffArguments(commitRange Range, options []string, paths ...string) []string {
	arguments := make([]string, 0, len(diffBaseArguments)+len(options)+len(commitRange.Arguments)+len(paths)+1)
	arguments = append(arguments, diffBaseArguments...)
	arguments = append(arguments, options...)
	arguments = append(arguments, commitRange.Arguments...)
	arguments = append(arguments, pathspecSeparator)
	return append(arguments, paths...)
}
