// Package fetcher turns configured sources into rendered text.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ctxgen/internal/sources"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	errorNoFetcherFormat   = "%w for %s"
	errorUnsupportedFormat = "%s is not supported by this fetcher"
	errorSourceFormat      = "%s: %v"
	errorFileReadFormat    = "%w %s: %v"
	lineTerminator         = "\n"
	blankLine              = "\n\n"
	diffFenceLanguage      = "diff"
	logFieldSource         = "source"
	logFieldPath           = "path"
	logFieldFiles          = "files"
	logSkippedMissingPath  = "source path does not exist, skipping"
	logFetchedFileSource   = "fetched file source"
	logFetchedDiffSource   = "fetched git diff source"
	logDiffBodyFilteredOut = "diff filtered out by content"
)

var (
	// ErrNoFetcherAvailable is returned when no registered fetcher supports a source.
	ErrNoFetcherAvailable = errors.New("no fetcher available")
	// ErrFileRead is returned when a file selected by a source cannot be read.
	ErrFileRead = errors.New("failed to read file")
)

// Fetcher turns one kind of source into rendered text.
type Fetcher interface {
	Supports(source sources.Source) bool
	Fetch(ctx context.Context, source sources.Source) (string, error)
}

// SourceError attributes a fetch failure to the source that caused it.
type SourceError struct {
	Kind        string
	Description string
	Err         error
}

func (sourceError *SourceError) Error() string {
	label := sourceError.Kind + " source"
	if sourceError.Description != "" {
		label = fmt.Sprintf("%s source %q", sourceError.Kind, sourceError.Description)
	}
	return fmt.Sprintf(errorSourceFormat, label, sourceError.Err)
}

func (sourceError *SourceError) Unwrap() error {
	return sourceError.Err
}

func wrapSourceError(source sources.Source, err error) error {
	if err == nil {
		return nil
	}
	var existing *SourceError
	if errors.As(err, &existing) {
		return err
	}
	return &SourceError{Kind: source.Kind(), Description: source.Meta().Description, Err: err}
}

// Registry holds fetchers in registration order.
type Registry struct {
	fetchers []Fetcher
}

// NewRegistry creates a Registry for the provided fetchers, skipping nil entries.
func NewRegistry(fetchers ...Fetcher) *Registry {
	registry := &Registry{}
	for _, fetcher := range fetchers {
		registry.Register(fetcher)
	}
	return registry
}

// Register appends fetcher; earlier registrations are tried first.
func (registry *Registry) Register(fetcher Fetcher) *Registry {
	if fetcher != nil {
		registry.fetchers = append(registry.fetchers, fetcher)
	}
	return registry
}

// FindFetcher returns the first registered fetcher that supports source.
func (registry *Registry) FindFetcher(source sources.Source) (Fetcher, error) {
	for _, fetcher := range registry.fetchers {
		if fetcher.Supports(source) {
			return fetcher, nil
		}
	}
	return nil, fmt.Errorf(errorNoFetcherFormat, ErrNoFetcherAvailable, sources.Label(source))
}

// Parse finds the fetcher for source and fetches it. Errors name the source.
func (registry *Registry) Parse(ctx context.Context, source sources.Source) (string, error) {
	fetcher, findError := registry.FindFetcher(source)
	if findError != nil {
		return "", findError
	}
	content, fetchError := fetcher.Fetch(ctx, source)
	if fetchError != nil {
		return "", wrapSourceError(source, fetchError)
	}
	return content, nil
}

// writeFencedBlock renders one file block: opening fence, path marker, body
// followed by a blank line, closing fence.
func writeFencedBlock(builder *strings.Builder, language, displayPath, body string) {
	builder.WriteString(utils.CodeFence + language + lineTerminator)
	builder.WriteString(utils.PathMarkerPrefix + displayPath + lineTerminator)
	builder.WriteString(body + blankLine)
	builder.WriteString(utils.CodeFence + lineTerminator)
}
