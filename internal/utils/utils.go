// Package utils contains general helper functions shared by the ctxgen packages.
package utils

import (
	"path/filepath"
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// DisplayPath strips basePath from the directory of filePath and joins the
// remainder with the file name using forward slashes. A file that sits
// directly in basePath is displayed by its bare name.
func DisplayPath(filePath, basePath string) string {
	directoryPath := filepath.ToSlash(filepath.Dir(filePath))
	fileName := filepath.Base(filePath)
	normalizedBase := strings.TrimRight(filepath.ToSlash(basePath), "/")

	relativeDirectory := directoryPath
	if normalizedBase != "" {
		relativeDirectory = strings.Replace(directoryPath, normalizedBase, EmptyString, 1)
	}
	relativeDirectory = strings.Trim(strings.TrimSpace(relativeDirectory), "/")
	if relativeDirectory == "" || relativeDirectory == "." {
		return fileName
	}
	return relativeDirectory + "/" + fileName
}

// ResolveAgainstRoot joins candidate onto rootPath unless candidate is absolute.
func ResolveAgainstRoot(rootPath, candidate string) string {
	if strings.HasPrefix(candidate, "/") || filepath.IsAbs(candidate) {
		return candidate
	}
	trimmed := strings.Trim(candidate, "/")
	if rootPath == "" {
		return trimmed
	}
	return filepath.Join(rootPath, trimmed)
}
