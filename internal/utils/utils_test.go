package utils_test

import (
	"path/filepath"
	"testing"

	"github.com/temirov/ctxgen/internal/utils"
)

func TestDeduplicatePatterns(testingHandle *testing.T) {
	deduplicated := utils.DeduplicatePatterns([]string{"vendor", "*.go", "vendor", "docs", "*.go"})
	expected := []string{"vendor", "*.go", "docs"}
	if len(deduplicated) != len(expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, deduplicated)
	}
	for index := range expected {
		if deduplicated[index] != expected[index] {
			testingHandle.Fatalf("expected %v, got %v", expected, deduplicated)
		}
	}
}

func TestDisplayPath(testingHandle *testing.T) {
	testCases := []struct {
		name         string
		filePath     string
		basePath     string
		expectedPath string
	}{
		{name: "file_at_root", filePath: "/project/main.go", basePath: "/project", expectedPath: "main.go"},
		{name: "nested_file", filePath: "/project/internal/app/run.go", basePath: "/project", expectedPath: "internal/app/run.go"},
		{name: "trailing_separator_base", filePath: "/project/docs/a.md", basePath: "/project/", expectedPath: "docs/a.md"},
		{name: "outside_base", filePath: "/elsewhere/b.txt", basePath: "/project", expectedPath: "elsewhere/b.txt"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTestHandle *testing.T) {
			displayPath := utils.DisplayPath(testCase.filePath, testCase.basePath)
			if displayPath != testCase.expectedPath {
				subTestHandle.Fatalf("expected %q, got %q", testCase.expectedPath, displayPath)
			}
		})
	}
}

func TestResolveAgainstRoot(testingHandle *testing.T) {
	rootPath := testingHandle.TempDir()
	if resolved := utils.ResolveAgainstRoot(rootPath, "/srv/repo"); resolved != "/srv/repo" {
		testingHandle.Fatalf("absolute path must pass through, got %q", resolved)
	}
	if resolved := utils.ResolveAgainstRoot(rootPath, "nested/repo/"); resolved != filepath.Join(rootPath, "nested", "repo") {
		testingHandle.Fatalf("unexpected joined path %q", resolved)
	}
	if resolved := utils.ResolveAgainstRoot(rootPath, "."); resolved != rootPath {
		testingHandle.Fatalf("dot must resolve to root, got %q", resolved)
	}
}

func TestIsBinary(testingHandle *testing.T) {
	if utils.IsBinary([]byte("plain text")) {
		testingHandle.Fatalf("text reported as binary")
	}
	if !utils.IsBinary([]byte{0x00, 0x01}) {
		testingHandle.Fatalf("NUL bytes not reported as binary")
	}
	if utils.IsBinary(nil) {
		testingHandle.Fatalf("empty input reported as binary")
	}
}
