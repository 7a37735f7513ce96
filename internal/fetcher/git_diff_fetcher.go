package fetcher

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/filter"
	"github.com/temirov/ctxgen/internal/gitdiff"
	"github.com/temirov/ctxgen/internal/modifiers"
	"github.com/temirov/ctxgen/internal/sources"
	"github.com/temirov/ctxgen/internal/utils"
)

const logFieldRange = "range"

// DiffRunner is the subset of gitdiff.Runner the diff fetcher needs.
type DiffRunner interface {
	EnsureRepository(ctx context.Context, path string) error
	ChangedFiles(ctx context.Context, repository string, commitRange gitdiff.Range) ([]string, error)
	FileDiff(ctx context.Context, repository string, commitRange gitdiff.Range, path string) (string, error)
	Stats(ctx context.Context, repository string, commitRange gitdiff.Range, paths []string) (string, error)
}

// GitDiffFetcher renders CommitDiffSource values.
type GitDiffFetcher struct {
	rootPath  string
	runner    DiffRunner
	modifiers *modifiers.Registry
	logger    *zap.Logger
}

// NewGitDiffFetcher constructs a GitDiffFetcher. Relative repositories are
// resolved against rootPath.
func NewGitDiffFetcher(rootPath string, runner DiffRunner, modifierRegistry *modifiers.Registry, logger *zap.Logger) *GitDiffFetcher {
	return &GitDiffFetcher{
		rootPath:  rootPath,
		runner:    runner,
		modifiers: modifierRegistry,
		logger:    utils.LoggerOrNop(logger),
	}
}

// Supports accepts sources.CommitDiffSource.
func (diffFetcher *GitDiffFetcher) Supports(source sources.Source) bool {
	_, isDiffSource := source.(sources.CommitDiffSource)
	return isDiffSource
}

// Fetch renders optional change statistics followed by one fenced diff block
// per changed file that survives the path and content filters.
func (diffFetcher *GitDiffFetcher) Fetch(ctx context.Context, source sources.Source) (string, error) {
	diffSource, isDiffSource := source.(sources.CommitDiffSource)
	if !isDiffSource {
		return "", fmt.Errorf(errorUnsupportedFormat, sources.Label(source))
	}

	commitRange, resolveError := gitdiff.ResolveCommitRange(diffSource.Commit)
	if resolveError != nil {
		return "", resolveError
	}
	repository := utils.ResolveAgainstRoot(diffFetcher.rootPath, diffSource.Repository)
	if ensureError := diffFetcher.runner.EnsureRepository(ctx, repository); ensureError != nil {
		return "", ensureError
	}

	changedFiles, listError := diffFetcher.runner.ChangedFiles(ctx, repository, commitRange)
	if listError != nil {
		return "", listError
	}

	criteria := filter.Criteria{
		Names:       diffSource.FilePatterns,
		Paths:       diffSource.Path,
		NotPaths:    diffSource.NotPath,
		Contains:    diffSource.Contains,
		NotContains: diffSource.NotContains,
	}

	type selectedDiff struct {
		path string
		body string
	}
	var selected []selectedDiff
	for _, changedFile := range changedFiles {
		if !criteria.MatchesPath(changedFile) {
			continue
		}
		body, diffError := diffFetcher.runner.FileDiff(ctx, repository, commitRange, changedFile)
		if diffError != nil {
			return "", diffError
		}
		if criteria.HasContentConstraints() && !criteria.MatchesContent(body) {
			diffFetcher.logger.Debug(logDiffBodyFilteredOut, zap.String(logFieldPath, changedFile))
			continue
		}
		selected = append(selected, selectedDiff{path: changedFile, body: body})
	}

	var rendered strings.Builder
	if diffSource.ShowStats && len(selected) > 0 {
		selectedPaths := make([]string, 0, len(selected))
		for _, diff := range selected {
			selectedPaths = append(selectedPaths, diff.path)
		}
		stats, statsError := diffFetcher.runner.Stats(ctx, repository, commitRange, selectedPaths)
		if statsError != nil {
			return "", statsError
		}
		rendered.WriteString(utils.CodeFence + lineTerminator)
		rendered.WriteString(stats)
		if !strings.HasSuffix(stats, lineTerminator) {
			rendered.WriteString(lineTerminator)
		}
		rendered.WriteString(utils.CodeFence + blankLine)
	}

	for _, diff := range selected {
		body := diffFetcher.modifiers.Apply(diffSource.Modifiers, strings.TrimRight(diff.body, lineTerminator), modifiers.Context{
			FilePath: diff.path,
			Source:   diffSource,
		})
		writeFencedBlock(&rendered, diffFenceLanguage, diff.path, body)
	}

	diffFetcher.logger.Debug(logFetchedDiffSource,
		zap.String(logFieldSource, sources.Label(source)),
		zap.String(logFieldRange, commitRange.String()),
		zap.Int(logFieldFiles, len(selected)),
	)
	return rendered.String(), nil
}
