package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/ctxgen/internal/sources"
)

const (
	openingTagFormat = "<%s>\n"
	closingTagFormat = "\n</%s>\n"
)

// TextFetcher renders TextSource values.
type TextFetcher struct{}

// NewTextFetcher constructs a TextFetcher.
func NewTextFetcher() *TextFetcher {
	return &TextFetcher{}
}

// Supports accepts sources.TextSource.
func (*TextFetcher) Supports(source sources.Source) bool {
	_, isTextSource := source.(sources.TextSource)
	return isTextSource
}

// Fetch returns the literal content, wrapped in the configured tag if any.
func (*TextFetcher) Fetch(_ context.Context, source sources.Source) (string, error) {
	textSource, isTextSource := source.(sources.TextSource)
	if !isTextSource {
		return "", fmt.Errorf(errorUnsupportedFormat, sources.Label(source))
	}
	if textSource.Tag == "" {
		return textSource.Content + blankLine, nil
	}
	var rendered strings.Builder
	rendered.WriteString(fmt.Sprintf(openingTagFormat, textSource.Tag))
	rendered.WriteString(textSource.Content)
	rendered.WriteString(fmt.Sprintf(closingTagFormat, textSource.Tag))
	rendered.WriteString(lineTerminator)
	return rendered.String(), nil
}
