package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/filetree"
	"github.com/temirov/ctxgen/internal/filter"
	"github.com/temirov/ctxgen/internal/modifiers"
	"github.com/temirov/ctxgen/internal/sources"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	hiddenEntryPrefix       = "."
	logSkippedUnreadableDir = "skipping unreadable directory"
)

// versionControlDirectories are never descended into.
var versionControlDirectories = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
	".bzr": {},
}

// FileFetcher renders FileSource values.
type FileFetcher struct {
	basePath    string
	modifiers   *modifiers.Registry
	treeBuilder *filetree.Builder
	logger      *zap.Logger
}

// NewFileFetcher constructs a FileFetcher. basePath is stripped from file
// paths to produce display paths.
func NewFileFetcher(basePath string, modifierRegistry *modifiers.Registry, treeBuilder *filetree.Builder, logger *zap.Logger) *FileFetcher {
	if treeBuilder == nil {
		treeBuilder = filetree.NewBuilder()
	}
	return &FileFetcher{
		basePath:    basePath,
		modifiers:   modifierRegistry,
		treeBuilder: treeBuilder,
		logger:      utils.LoggerOrNop(logger),
	}
}

// Supports accepts sources.FileSource.
func (fileFetcher *FileFetcher) Supports(source sources.Source) bool {
	_, isFileSource := source.(sources.FileSource)
	return isFileSource
}

// Fetch renders an optional tree view followed by one fenced block per file.
func (fileFetcher *FileFetcher) Fetch(ctx context.Context, source sources.Source) (string, error) {
	fileSource, isFileSource := source.(sources.FileSource)
	if !isFileSource {
		return "", fmt.Errorf(errorUnsupportedFormat, sources.Label(source))
	}

	filePaths, enumerateError := fileFetcher.enumerate(ctx, fileSource)
	if enumerateError != nil {
		return "", enumerateError
	}

	var rendered strings.Builder
	if fileSource.ShowTreeView {
		rendered.WriteString(utils.CodeFence + lineTerminator)
		rendered.WriteString(fileFetcher.treeBuilder.Build(filePaths, fileFetcher.basePath))
		rendered.WriteString(utils.CodeFence + blankLine)
	}

	for _, filePath := range filePaths {
		if contextError := ctx.Err(); contextError != nil {
			return "", contextError
		}
		fileBytes, readError := os.ReadFile(filePath)
		if readError != nil {
			return "", fmt.Errorf(errorFileReadFormat, ErrFileRead, filePath, readError)
		}
		content := fileFetcher.modifiers.Apply(fileSource.Modifiers, string(fileBytes), modifiers.Context{
			FilePath: filePath,
			Source:   fileSource,
		})
		writeFencedBlock(&rendered, "", utils.DisplayPath(filePath, fileFetcher.basePath), content)
	}

	fileFetcher.logger.Debug(logFetchedFileSource, zap.String(logFieldSource, sources.Label(source)), zap.Int(logFieldFiles, len(filePaths)))
	return rendered.String(), nil
}

// enumerate lists the files selected by source: matching files from every
// directory in lexical walk order, then the individually named files.
// Substring exclusion only prunes walked files; named files are always kept.
func (fileFetcher *FileFetcher) enumerate(ctx context.Context, source sources.FileSource) ([]string, error) {
	var directories []string
	var individualFiles []string
	for _, sourcePath := range source.SourcePaths {
		pathInformation, statError := os.Stat(sourcePath)
		if statError != nil {
			// Missing paths are tolerated so shared configurations keep
			// working across checkouts that lack some directories.
			fileFetcher.logger.Debug(logSkippedMissingPath, zap.String(logFieldPath, sourcePath))
			continue
		}
		if pathInformation.IsDir() {
			directories = append(directories, sourcePath)
		} else if pathInformation.Mode().IsRegular() {
			individualFiles = append(individualFiles, sourcePath)
		}
	}

	var selected []string
	for _, directory := range directories {
		walkError := filepath.WalkDir(directory, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
			if contextError := ctx.Err(); contextError != nil {
				return contextError
			}
			if accessError != nil {
				if directoryEntry != nil && directoryEntry.IsDir() && walkedPath != directory {
					fileFetcher.logger.Warn(logSkippedUnreadableDir, zap.String(logFieldPath, walkedPath), zap.Error(accessError))
					return filepath.SkipDir
				}
				return accessError
			}
			if walkedPath == directory {
				return nil
			}
			entryName := directoryEntry.Name()
			if directoryEntry.IsDir() {
				if _, isVersionControl := versionControlDirectories[entryName]; isVersionControl || strings.HasPrefix(entryName, hiddenEntryPrefix) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(entryName, hiddenEntryPrefix) || !directoryEntry.Type().IsRegular() {
				return nil
			}
			if filter.MatchesName(source.FilePatterns, entryName) && !filter.ExcludedBySubstring(walkedPath, source.ExcludePatterns) {
				selected = append(selected, walkedPath)
			}
			return nil
		})
		if walkError != nil {
			if errors.Is(walkError, context.Canceled) || errors.Is(walkError, context.DeadlineExceeded) {
				return nil, walkError
			}
			return nil, fmt.Errorf(errorFileReadFormat, ErrFileRead, directory, walkError)
		}
	}
	return append(selected, individualFiles...), nil
}
