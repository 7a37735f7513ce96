// Package filter evaluates the include and exclude conditions sources place on candidate files.
package filter

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const globMetaCharacters = "*?[{"

// Criteria groups the selection axes shared by file and diff sources. An
// empty axis places no constraint.
type Criteria struct {
	// Names are globs matched against the base name.
	Names []string
	// Paths must match the relative path: glob when the pattern has glob
	// characters, literal substring otherwise.
	Paths []string
	// NotPaths use the same matching as Paths and exclude on match.
	NotPaths []string
	// Contains requires the body to contain at least one of the substrings.
	Contains []string
	// NotContains excludes bodies containing any of the substrings.
	NotContains []string
}

// MatchesPath evaluates the name, path and notPath axes against a slash
// separated relative path.
func (criteria Criteria) MatchesPath(relativePath string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", "/")
	baseName := path.Base(normalizedPath)

	if !isUnconstrained(criteria.Names) && !anyNameMatches(criteria.Names, baseName) {
		return false
	}
	if !isUnconstrained(criteria.Paths) && !anyPathMatches(criteria.Paths, normalizedPath) {
		return false
	}
	if anyPathMatches(criteria.NotPaths, normalizedPath) {
		return false
	}
	return true
}

// MatchesContent evaluates the contains and notContains axes against body.
func (criteria Criteria) MatchesContent(body string) bool {
	if !isUnconstrained(criteria.Contains) && !anySubstring(criteria.Contains, body) {
		return false
	}
	return !anySubstring(criteria.NotContains, body)
}

// HasContentConstraints reports whether MatchesContent can reject anything,
// letting callers skip reading bodies.
func (criteria Criteria) HasContentConstraints() bool {
	return !isUnconstrained(criteria.Contains) || !isUnconstrained(criteria.NotContains)
}

// MatchesName reports whether baseName matches any of the globs. An empty
// pattern list matches everything.
func MatchesName(patterns []string, baseName string) bool {
	if isUnconstrained(patterns) {
		return true
	}
	return anyNameMatches(patterns, baseName)
}

// ExcludedBySubstring reports whether fullPath contains any pattern as a
// literal substring. It is deliberately not path-component aware, so
// "vendor" also excludes "vendored/file.txt"; configurations rely on this.
func ExcludedBySubstring(fullPath string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(fullPath, pattern) {
			return true
		}
	}
	return false
}

func anyNameMatches(patterns []string, baseName string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		matched, matchError := doublestar.Match(pattern, baseName)
		if matchError == nil && matched {
			return true
		}
	}
	return false
}

func anyPathMatches(patterns []string, relativePath string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, globMetaCharacters) {
			matched, matchError := doublestar.Match(pattern, relativePath)
			if matchError == nil && matched {
				return true
			}
			continue
		}
		if strings.Contains(relativePath, pattern) {
			return true
		}
	}
	return false
}

func anySubstring(needles []string, body string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(body, needle) {
			return true
		}
	}
	return false
}

func isUnconstrained(patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" {
			return false
		}
	}
	return true
}
