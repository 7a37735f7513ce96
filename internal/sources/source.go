// Package sources defines the configured descriptions of where document content comes from.
package sources

import (
	"errors"
	"fmt"
)

const (
	// KindFile identifies file tree sources.
	KindFile = "file"
	// KindGitDiff identifies git commit diff sources.
	KindGitDiff = "git_diff"
	// KindText identifies literal text sources.
	KindText = "text"

	sourceLabelFormat         = "%s source %q"
	sourceLabelNoDescription  = "%s source"
	errorUnknownSourceFormat  = "%w: %q"
	errorMissingSourceType    = "source entry has no \"type\""
	errorSourceFieldFormat    = "%q must be %s in %s source"
	errorSourceElementFormat  = "all elements in %q must be strings in %s source"
	expectedStringDescription = "a string"
	expectedListDescription   = "a string or an array of strings"
	expectedBoolDescription   = "a boolean"
)

// ErrUnknownSourceType is returned when a configured source names a type no variant implements.
var ErrUnknownSourceType = errors.New("unknown source type")

// Source is a configured content origin. Implementations are the closed set
// FileSource, CommitDiffSource and TextSource.
type Source interface {
	Kind() string
	Meta() SourceMeta
	isSource()
}

// SourceMeta carries the fields every source variant shares.
type SourceMeta struct {
	Description string
	Modifiers   []string
}

// Meta returns the shared description and modifier identifiers.
func (meta SourceMeta) Meta() SourceMeta {
	return meta
}

// Label renders a human-readable identification of a source for error messages.
func Label(source Source) string {
	if source == nil {
		return "<nil> source"
	}
	description := source.Meta().Description
	if description == "" {
		return fmt.Sprintf(sourceLabelNoDescription, source.Kind())
	}
	return fmt.Sprintf(sourceLabelFormat, source.Kind(), description)
}
