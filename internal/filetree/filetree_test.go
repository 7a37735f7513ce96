package filetree_test

import (
	"testing"

	"github.com/temirov/ctxgen/internal/filetree"
)

func TestBuildMergesSharedPrefixes(testingHandle *testing.T) {
	builder := filetree.NewBuilder()
	rendered := builder.Build([]string{"/base/a/b.txt", "/base/a/c.txt"}, "/base")
	expected := "└── a/\n" +
		"    ├── b.txt\n" +
		"    └── c.txt\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nexpected:\n%s", rendered, expected)
	}
}

func TestBuildPreservesFirstEncounteredOrder(testingHandle *testing.T) {
	builder := filetree.NewBuilder()
	rendered := builder.Build([]string{
		"/repo/zeta.go",
		"/repo/cmd/run/main.go",
		"/repo/alpha.go",
		"/repo/cmd/tool.go",
	}, "/repo/")
	expected := "├── zeta.go\n" +
		"├── cmd/\n" +
		"│   ├── run/\n" +
		"│   │   └── main.go\n" +
		"│   └── tool.go\n" +
		"└── alpha.go\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nexpected:\n%s", rendered, expected)
	}
}

func TestBuildIsIdempotent(testingHandle *testing.T) {
	builder := filetree.NewBuilder()
	filePaths := []string{"/p/x/1.txt", "/p/y/2.txt", "/p/x/3.txt"}
	first := builder.Build(filePaths, "/p")
	second := builder.Build(filePaths, "/p")
	if first != second {
		testingHandle.Fatalf("rendering differs between runs:\n%s\n---\n%s", first, second)
	}
}

func TestBuildKeepsPathsOutsideBase(testingHandle *testing.T) {
	builder := filetree.NewBuilder()
	rendered := builder.Build([]string{"/other/file.txt"}, "/base")
	expected := "└── other/\n    └── file.txt\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s", rendered)
	}
	if empty := builder.Build(nil, "/base"); empty != "" {
		testingHandle.Fatalf("expected empty rendering, got %q", empty)
	}
}
