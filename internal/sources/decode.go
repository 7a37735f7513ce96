package sources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ctxgen/internal/utils"
)

// configEntry gives case-insensitive access to one decoded source entry.
// Viper lower-cases keys, JSON and TOML keep them as written.
type configEntry struct {
	kind   string
	values map[string]any
}

func newConfigEntry(data map[string]any) configEntry {
	values := make(map[string]any, len(data))
	for key, value := range data {
		values[strings.ToLower(key)] = value
	}
	return configEntry{values: values}
}

func (entry configEntry) lookup(key string) (any, bool) {
	value, present := entry.values[strings.ToLower(key)]
	if !present || value == nil {
		return nil, false
	}
	return value, true
}

func (entry configEntry) stringValue(key, fallback string) (string, error) {
	value, present := entry.lookup(key)
	if !present {
		return fallback, nil
	}
	stringValue, isString := value.(string)
	if !isString {
		return "", fmt.Errorf(errorSourceFieldFormat, key, expectedStringDescription, entry.kind)
	}
	return stringValue, nil
}

func (entry configEntry) boolValue(key string, fallback bool) (bool, error) {
	value, present := entry.lookup(key)
	if !present {
		return fallback, nil
	}
	boolValue, isBool := value.(bool)
	if !isBool {
		return false, fmt.Errorf(errorSourceFieldFormat, key, expectedBoolDescription, entry.kind)
	}
	return boolValue, nil
}

func (entry configEntry) stringList(key string) (StringList, error) {
	value, present := entry.lookup(key)
	if !present {
		return nil, nil
	}
	switch typedValue := value.(type) {
	case string:
		if typedValue == "" {
			return nil, nil
		}
		return StringList{typedValue}, nil
	case []string:
		return StringList(typedValue), nil
	case []any:
		list := make(StringList, 0, len(typedValue))
		for _, element := range typedValue {
			stringElement, isString := element.(string)
			if !isString {
				return nil, fmt.Errorf(errorSourceElementFormat, key, entry.kind)
			}
			list = append(list, stringElement)
		}
		return list, nil
	default:
		return nil, fmt.Errorf(errorSourceFieldFormat, key, expectedListDescription, entry.kind)
	}
}

// FromMap builds a Source from one decoded configuration entry. Relative
// paths are resolved against rootPath.
func FromMap(data map[string]any, rootPath string) (Source, error) {
	entry := newConfigEntry(data)
	kind, kindError := entry.stringValue("type", "")
	if kindError != nil {
		return nil, kindError
	}
	if kind == "" {
		return nil, errors.New(errorMissingSourceType)
	}
	entry.kind = kind

	switch kind {
	case KindFile:
		return fileSourceFromEntry(entry, rootPath)
	case KindGitDiff:
		return commitDiffSourceFromEntry(entry, rootPath)
	case KindText:
		return textSourceFromEntry(entry)
	default:
		return nil, fmt.Errorf(errorUnknownSourceFormat, ErrUnknownSourceType, kind)
	}
}

func metaFromEntry(entry configEntry) (SourceMeta, error) {
	description, descriptionError := entry.stringValue("description", "")
	if descriptionError != nil {
		return SourceMeta{}, descriptionError
	}
	modifiers, modifiersError := entry.stringList("modifiers")
	if modifiersError != nil {
		return SourceMeta{}, modifiersError
	}
	return SourceMeta{Description: description, Modifiers: modifiers}, nil
}

func fileSourceFromEntry(entry configEntry, rootPath string) (Source, error) {
	meta, metaError := metaFromEntry(entry)
	if metaError != nil {
		return nil, metaError
	}
	sourcePaths, pathsError := entry.stringList("sourcePaths")
	if pathsError != nil {
		return nil, pathsError
	}
	filePatterns, patternError := entry.stringList("filePattern")
	if patternError != nil {
		return nil, patternError
	}
	excludePatterns, excludeError := entry.stringList("excludePatterns")
	if excludeError != nil {
		return nil, excludeError
	}
	showTreeView, treeError := entry.boolValue("showTreeView", true)
	if treeError != nil {
		return nil, treeError
	}

	resolvedPaths := make([]string, 0, len(sourcePaths))
	for _, sourcePath := range sourcePaths {
		resolvedPaths = append(resolvedPaths, utils.ResolveAgainstRoot(rootPath, sourcePath))
	}
	return NewFileSource(meta.Description, resolvedPaths, filePatterns, excludePatterns, showTreeView, meta.Modifiers), nil
}

func commitDiffSourceFromEntry(entry configEntry, rootPath string) (Source, error) {
	meta, metaError := metaFromEntry(entry)
	if metaError != nil {
		return nil, metaError
	}
	repository, repositoryError := entry.stringValue("repository", DefaultRepository)
	if repositoryError != nil {
		return nil, repositoryError
	}
	commit, commitError := entry.stringValue("commit", DefaultCommit)
	if commitError != nil {
		return nil, commitError
	}

	source := NewCommitDiffSource(utils.ResolveAgainstRoot(rootPath, repository), meta.Description, commit)
	source.Modifiers = meta.Modifiers

	listFields := []struct {
		key    string
		target *StringList
	}{
		{key: "filePattern", target: &source.FilePatterns},
		{key: "notPath", target: &source.NotPath},
		{key: "path", target: &source.Path},
		{key: "contains", target: &source.Contains},
		{key: "notContains", target: &source.NotContains},
	}
	for _, field := range listFields {
		list, listError := entry.stringList(field.key)
		if listError != nil {
			return nil, listError
		}
		if list != nil {
			*field.target = list
		}
	}

	showStats, statsError := entry.boolValue("showStats", true)
	if statsError != nil {
		return nil, statsError
	}
	source.ShowStats = showStats
	return source, nil
}

func textSourceFromEntry(entry configEntry) (Source, error) {
	meta, metaError := metaFromEntry(entry)
	if metaError != nil {
		return nil, metaError
	}
	content, contentError := entry.stringValue("content", "")
	if contentError != nil {
		return nil, contentError
	}
	tag, tagError := entry.stringValue("tag", "")
	if tagError != nil {
		return nil, tagError
	}
	source := NewTextSource(meta.Description, content)
	source.Tag = tag
	source.Modifiers = meta.Modifiers
	return source, nil
}
