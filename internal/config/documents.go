// Package config discovers document configuration files and application defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ctxgen/internal/documents"
	"github.com/temirov/ctxgen/internal/sources"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	documentsKey   = "documents"
	descriptionKey = "description"
	outputPathKey  = "outputpath"
	overwriteKey   = "overwrite"
	tagsKey        = "tags"
	sourcesKey     = "sources"

	errorDocumentsShapeFormat     = "%q must be a list of documents"
	errorDocumentShapeFormat      = "document #%d must be a mapping"
	errorDocumentFieldFormat      = "document #%d: %q must be %s"
	errorDocumentOutputFormat     = "document #%d: %w"
	errorDocumentSourceFormat     = "document #%d (%s) source #%d: %w"
	errorDocumentSourceTypeFormat = "document #%d (%s) source #%d must be a mapping"
)

// ErrMissingOutputPath reports a document without an output path.
var ErrMissingOutputPath = errors.New("document has no outputPath")

// DecodeDocuments converts the decoded body of a configuration file into a
// registry. Keys are matched case-insensitively; relative source paths are
// resolved against rootPath.
func DecodeDocuments(body map[string]any, rootPath string) (*documents.Registry, error) {
	registry := documents.NewRegistry()
	rawDocuments, present := lowerKeys(body)[documentsKey]
	if !present || rawDocuments == nil {
		return registry, nil
	}
	entries, isList := asMapList(rawDocuments)
	if !isList {
		return nil, fmt.Errorf(errorDocumentsShapeFormat, documentsKey)
	}
	for documentIndex, entry := range entries {
		if entry == nil {
			return nil, fmt.Errorf(errorDocumentShapeFormat, documentIndex+1)
		}
		document, decodeError := decodeDocument(documentIndex+1, entry, rootPath)
		if decodeError != nil {
			return nil, decodeError
		}
		registry.Register(document)
	}
	return registry, nil
}

func decodeDocument(documentNumber int, entry map[string]any, rootPath string) (documents.Document, error) {
	values := lowerKeys(entry)
	document := documents.Document{Overwrite: true}

	stringFields := []struct {
		key    string
		target *string
	}{
		{key: descriptionKey, target: &document.Description},
		{key: outputPathKey, target: &document.OutputPath},
	}
	for _, field := range stringFields {
		value, present := values[field.key]
		if !present || value == nil {
			continue
		}
		stringValue, isString := value.(string)
		if !isString {
			return documents.Document{}, fmt.Errorf(errorDocumentFieldFormat, documentNumber, field.key, "a string")
		}
		*field.target = stringValue
	}
	if strings.TrimSpace(document.OutputPath) == "" {
		return documents.Document{}, fmt.Errorf(errorDocumentOutputFormat, documentNumber, ErrMissingOutputPath)
	}

	if value, present := values[overwriteKey]; present && value != nil {
		overwrite, isBool := value.(bool)
		if !isBool {
			return documents.Document{}, fmt.Errorf(errorDocumentFieldFormat, documentNumber, overwriteKey, "a boolean")
		}
		document.Overwrite = overwrite
	}

	if value, present := values[tagsKey]; present && value != nil {
		tags, tagsError := asStringList(value)
		if tagsError != nil {
			return documents.Document{}, fmt.Errorf(errorDocumentFieldFormat, documentNumber, tagsKey, "a string or a list of strings")
		}
		document.Tags = utils.DeduplicatePatterns(tags)
	}

	rawSources, present := values[sourcesKey]
	if !present || rawSources == nil {
		return document, nil
	}
	sourceEntries, isList := asMapList(rawSources)
	if !isList {
		return documents.Document{}, fmt.Errorf(errorDocumentFieldFormat, documentNumber, sourcesKey, "a list")
	}
	for sourceIndex, sourceEntry := range sourceEntries {
		if sourceEntry == nil {
			return documents.Document{}, fmt.Errorf(errorDocumentSourceTypeFormat, documentNumber, document.OutputPath, sourceIndex+1)
		}
		source, sourceError := sources.FromMap(sourceEntry, rootPath)
		if sourceError != nil {
			return documents.Document{}, fmt.Errorf(errorDocumentSourceFormat, documentNumber, document.OutputPath, sourceIndex+1, sourceError)
		}
		document.Sources = append(document.Sources, source)
	}
	return document, nil
}

func lowerKeys(data map[string]any) map[string]any {
	lowered := make(map[string]any, len(data))
	for key, value := range data {
		lowered[strings.ToLower(key)] = value
	}
	return lowered
}

// asMapList accepts the list shapes produced by the supported decoders: JSON
// and YAML yield []any, TOML arrays of tables yield []map[string]any. A nil
// element marks an entry that is not a mapping.
func asMapList(value any) ([]map[string]any, bool) {
	switch typedValue := value.(type) {
	case []map[string]any:
		return typedValue, true
	case []any:
		entries := make([]map[string]any, 0, len(typedValue))
		for _, element := range typedValue {
			entry, _ := asStringKeyedMap(element)
			entries = append(entries, entry)
		}
		return entries, true
	default:
		return nil, false
	}
}

func asStringKeyedMap(value any) (map[string]any, bool) {
	switch typedValue := value.(type) {
	case map[string]any:
		return typedValue, true
	case map[any]any:
		converted := make(map[string]any, len(typedValue))
		for key, element := range typedValue {
			converted[fmt.Sprint(key)] = element
		}
		return converted, true
	default:
		return nil, false
	}
}

func asStringList(value any) ([]string, error) {
	switch typedValue := value.(type) {
	case string:
		return []string{typedValue}, nil
	case []string:
		return typedValue, nil
	case []any:
		list := make([]string, 0, len(typedValue))
		for _, element := range typedValue {
			stringElement, isString := element.(string)
			if !isString {
				return nil, errors.New("non-string element")
			}
			list = append(list, stringElement)
		}
		return list, nil
	default:
		return nil, errors.New("unsupported list shape")
	}
}
