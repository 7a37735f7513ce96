package filter_test

import (
	"testing"

	"github.com/temirov/ctxgen/internal/filter"
)

func TestCriteriaMatchesPath(testingHandle *testing.T) {
	testCases := []struct {
		name         string
		criteria     filter.Criteria
		relativePath string
		expected     bool
	}{
		{name: "empty_matches_everything", criteria: filter.Criteria{}, relativePath: "any/file.txt", expected: true},
		{name: "name_glob_match", criteria: filter.Criteria{Names: []string{"*.go"}}, relativePath: "cmd/main.go", expected: true},
		{name: "name_glob_miss", criteria: filter.Criteria{Names: []string{"*.go"}}, relativePath: "README.md", expected: false},
		{name: "name_glob_is_case_sensitive", criteria: filter.Criteria{Names: []string{"*.go"}}, relativePath: "MAIN.GO", expected: false},
		{name: "default_diff_pattern_requires_dot", criteria: filter.Criteria{Names: []string{"*.*"}}, relativePath: "Makefile", expected: false},
		{name: "path_substring", criteria: filter.Criteria{Paths: []string{"internal/"}}, relativePath: "internal/app/run.go", expected: true},
		{name: "path_substring_miss", criteria: filter.Criteria{Paths: []string{"internal/"}}, relativePath: "cmd/run.go", expected: false},
		{name: "path_double_star_glob", criteria: filter.Criteria{Paths: []string{"src/**/*.ts"}}, relativePath: "src/a/b/c.ts", expected: true},
		{name: "not_path_excludes", criteria: filter.Criteria{NotPaths: []string{"vendor"}}, relativePath: "vendor/lib/x.go", expected: false},
		{name: "not_path_glob_excludes", criteria: filter.Criteria{NotPaths: []string{"*_test.go"}}, relativePath: "run_test.go", expected: false},
		{name: "blank_patterns_are_ignored", criteria: filter.Criteria{Names: []string{""}, Paths: []string{""}}, relativePath: "x.txt", expected: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTestHandle *testing.T) {
			if matched := testCase.criteria.MatchesPath(testCase.relativePath); matched != testCase.expected {
				subTestHandle.Fatalf("MatchesPath(%q) = %t, expected %t", testCase.relativePath, matched, testCase.expected)
			}
		})
	}
}

func TestCriteriaMatchesContent(testingHandle *testing.T) {
	criteria := filter.Criteria{Contains: []string{"func "}, NotContains: []string{"DO NOT EDIT"}}
	if !criteria.HasContentConstraints() {
		testingHandle.Fatalf("expected content constraints")
	}
	if !criteria.MatchesContent("+func run() {}") {
		testingHandle.Fatalf("expected body with func to match")
	}
	if criteria.MatchesContent("+var x = 1") {
		testingHandle.Fatalf("expected body without func to be rejected")
	}
	if criteria.MatchesContent("// Code generated. DO NOT EDIT.\n+func x() {}") {
		testingHandle.Fatalf("expected generated body to be rejected")
	}
	if (filter.Criteria{}).HasContentConstraints() {
		testingHandle.Fatalf("empty criteria must not report content constraints")
	}
}

func TestExcludedBySubstringIsNotComponentAware(testingHandle *testing.T) {
	excludePatterns := []string{"vendor"}
	if !filter.ExcludedBySubstring("/project/vendor/lib.go", excludePatterns) {
		testingHandle.Fatalf("expected vendor directory to be excluded")
	}
	if !filter.ExcludedBySubstring("/project/vendored/file.txt", excludePatterns) {
		testingHandle.Fatalf("expected partial directory name match to be excluded")
	}
	if filter.ExcludedBySubstring("/project/src/lib.go", excludePatterns) {
		testingHandle.Fatalf("unexpected exclusion")
	}
	if filter.ExcludedBySubstring("/project/src/lib.go", []string{""}) {
		testingHandle.Fatalf("blank pattern must not exclude")
	}
}
