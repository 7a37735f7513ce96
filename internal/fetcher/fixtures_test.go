package fetcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// materializeArchive writes every file of a txtar archive below a fresh
// temporary directory and returns that directory.
func materializeArchive(testingHandle *testing.T, archiveText string) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	archive := txtar.Parse([]byte(archiveText))
	for _, archiveFile := range archive.Files {
		filePath := filepath.Join(rootDirectory, filepath.FromSlash(archiveFile.Name))
		if mkdirError := os.MkdirAll(filepath.Dir(filePath), 0o755); mkdirError != nil {
			testingHandle.Fatalf("mkdir %s: %v", filePath, mkdirError)
		}
		if writeError := os.WriteFile(filePath, archiveFile.Data, 0o644); writeError != nil {
			testingHandle.Fatalf("write %s: %v", filePath, writeError)
		}
	}
	return rootDirectory
}
