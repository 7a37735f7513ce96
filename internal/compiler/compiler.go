// Package compiler assembles documents from their sources and writes them to disk.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/ctxgen/internal/documents"
	"github.com/temirov/ctxgen/internal/fetcher"
	"github.com/temirov/ctxgen/internal/gitdiff"
	"github.com/temirov/ctxgen/internal/tokenizer"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	// DefaultConcurrency bounds concurrent source fetches within one document.
	DefaultConcurrency = 4

	titlePrefix = "# "

	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644

	errorDocumentFormat        = "document %s: %w"
	errorCreateDirectoryFormat = "create output directory %s: %w"
	errorWriteOutputFormat     = "write output %s: %w"
	errorCountTokensFormat     = "count tokens: %w"

	logFieldDocument     = "document"
	logFieldPath         = "path"
	logFieldSize         = "size"
	logFieldTokens       = "tokens"
	logFieldSources      = "sources"
	logFieldRetryable    = "retryable"
	logCompiledDocument  = "compiled document"
	logSkippedExisting   = "output exists and overwrite is disabled, skipping"
	logDocumentFailed    = "document failed"
	logCompilingDocument = "compiling document"
	logTokenCountFailed  = "token count failed"
)

// Options configures a Compiler.
type Options struct {
	// OutputRoot is prepended to relative document output paths.
	OutputRoot string
	// Concurrency bounds parallel source fetches per document; values below one mean DefaultConcurrency.
	Concurrency int
	// Counter, when set, reports token counts of each compiled document.
	Counter tokenizer.Counter
	Logger  *zap.Logger
}

// Compiler turns documents into output files.
type Compiler struct {
	fetchers    *fetcher.Registry
	outputRoot  string
	concurrency int
	counter     tokenizer.Counter
	logger      *zap.Logger
}

// DocumentResult describes the outcome of compiling one document.
type DocumentResult struct {
	Document   documents.Document
	OutputPath string
	Content    string
	Tokens     int
	Counted    bool
	Skipped    bool
	Err        error
}

// Result collects the per-document outcomes of one compilation in registry order.
type Result struct {
	Documents []DocumentResult
}

// Failed returns the documents whose compilation failed.
func (result Result) Failed() []DocumentResult {
	var failed []DocumentResult
	for _, documentResult := range result.Documents {
		if documentResult.Err != nil {
			failed = append(failed, documentResult)
		}
	}
	return failed
}

// Err joins the errors of every failed document, or returns nil.
func (result Result) Err() error {
	var documentErrors []error
	for _, documentResult := range result.Failed() {
		documentErrors = append(documentErrors, documentResult.Err)
	}
	return errors.Join(documentErrors...)
}

// Last returns the last document that was written.
func (result Result) Last() (DocumentResult, bool) {
	for index := len(result.Documents) - 1; index >= 0; index-- {
		documentResult := result.Documents[index]
		if documentResult.Err == nil && !documentResult.Skipped {
			return documentResult, true
		}
	}
	return DocumentResult{}, false
}

// NewCompiler constructs a Compiler dispatching sources through fetchers.
func NewCompiler(fetchers *fetcher.Registry, options Options) *Compiler {
	concurrency := options.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Compiler{
		fetchers:    fetchers,
		outputRoot:  options.OutputRoot,
		concurrency: concurrency,
		counter:     options.Counter,
		logger:      utils.LoggerOrNop(options.Logger),
	}
}

// Compile builds every document in registry. A failing document is recorded
// in the result and does not stop the remaining documents.
func (compiler *Compiler) Compile(ctx context.Context, registry *documents.Registry) Result {
	var result Result
	for _, document := range registry.Items() {
		documentResult := compiler.CompileDocument(ctx, document)
		if documentResult.Err != nil {
			compiler.logger.Error(logDocumentFailed,
				zap.String(logFieldDocument, documentLabel(document)),
				zap.Bool(logFieldRetryable, gitdiff.IsRetryable(documentResult.Err)),
				zap.Error(documentResult.Err),
			)
		}
		result.Documents = append(result.Documents, documentResult)
	}
	return result
}

// CompileDocument renders document and writes it to its output path.
func (compiler *Compiler) CompileDocument(ctx context.Context, document documents.Document) DocumentResult {
	outputPath := compiler.resolveOutputPath(document.OutputPath)
	documentResult := DocumentResult{Document: document, OutputPath: outputPath}

	if !document.Overwrite {
		if _, statError := os.Stat(outputPath); statError == nil {
			compiler.logger.Info(logSkippedExisting, zap.String(logFieldDocument, documentLabel(document)), zap.String(logFieldPath, outputPath))
			documentResult.Skipped = true
			return documentResult
		}
	}

	compiler.logger.Debug(logCompilingDocument, zap.String(logFieldDocument, documentLabel(document)), zap.Int(logFieldSources, len(document.Sources)))
	content, renderError := compiler.Render(ctx, document)
	if renderError != nil {
		documentResult.Err = fmt.Errorf(errorDocumentFormat, documentLabel(document), renderError)
		return documentResult
	}
	documentResult.Content = content

	if writeError := writeOutput(outputPath, content); writeError != nil {
		documentResult.Err = fmt.Errorf(errorDocumentFormat, documentLabel(document), writeError)
		return documentResult
	}

	fields := []zap.Field{
		zap.String(logFieldDocument, documentLabel(document)),
		zap.String(logFieldPath, outputPath),
		zap.String(logFieldSize, humanize.Bytes(uint64(len(content)))),
	}
	if compiler.counter != nil {
		countResult, countError := tokenizer.CountBytes(compiler.counter, []byte(content))
		if countError != nil {
			compiler.logger.Warn(logTokenCountFailed, zap.String(logFieldDocument, documentLabel(document)), zap.Error(fmt.Errorf(errorCountTokensFormat, countError)))
		} else if countResult.Counted {
			documentResult.Tokens = countResult.Tokens
			documentResult.Counted = true
			fields = append(fields, zap.String(logFieldTokens, humanize.Comma(int64(countResult.Tokens))))
		}
	}
	compiler.logger.Info(logCompiledDocument, fields...)
	return documentResult
}

// Render fetches every source of document and concatenates the results in
// source order under a title line. Sources are fetched concurrently.
func (compiler *Compiler) Render(ctx context.Context, document documents.Document) (string, error) {
	fetched := make([]string, len(document.Sources))
	fetchErrors := make([]error, len(document.Sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(compiler.concurrency)
	for sourceIndex, source := range document.Sources {
		group.Go(func() error {
			content, fetchError := compiler.fetchers.Parse(groupCtx, source)
			if fetchError != nil {
				fetchErrors[sourceIndex] = fetchError
				return fetchError
			}
			fetched[sourceIndex] = content
			return nil
		})
	}
	groupError := group.Wait()
	if groupError != nil {
		return "", firstSourceError(fetchErrors, groupError)
	}

	var builder strings.Builder
	if document.Description != "" {
		builder.WriteString(titlePrefix + document.Description + "\n\n")
	}
	for _, content := range fetched {
		builder.WriteString(content)
	}
	return builder.String(), nil
}

// firstSourceError picks the failure of the earliest source, preferring real
// failures over cancellations caused by a sibling's failure.
func firstSourceError(fetchErrors []error, fallback error) error {
	for _, fetchError := range fetchErrors {
		if fetchError != nil && !errors.Is(fetchError, context.Canceled) {
			return fetchError
		}
	}
	for _, fetchError := range fetchErrors {
		if fetchError != nil {
			return fetchError
		}
	}
	return fallback
}

func (compiler *Compiler) resolveOutputPath(outputPath string) string {
	if filepath.IsAbs(outputPath) || compiler.outputRoot == "" {
		return outputPath
	}
	return filepath.Join(compiler.outputRoot, outputPath)
}

func writeOutput(outputPath, content string) error {
	directory := filepath.Dir(outputPath)
	if mkdirError := os.MkdirAll(directory, outputDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, directory, mkdirError)
	}
	if writeError := os.WriteFile(outputPath, []byte(content), outputFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
	}
	return nil
}

func documentLabel(document documents.Document) string {
	if document.Description != "" {
		return fmt.Sprintf("%q (%s)", document.Description, document.OutputPath)
	}
	return document.OutputPath
}
