package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/config"
)

const (
	notesConfiguration = `documents:
  - description: Notes
    outputPath: notes.md
    sources:
      - type: text
        description: Intro
        content: hello
      - type: file
        description: Text files
        sourcePaths: src
        filePattern: "*.txt"
        showTreeView: false
`
	expectedNotesOutput = "# Notes\n\nhello\n\n```\n// Path: src/a.txt\nalpha\n\n```\n"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

func isolateEnvironment(testingHandle *testing.T) {
	testingHandle.Helper()
	for _, key := range []string{"CTXGEN_CONFIG", "CTXGEN_OUTPUT_ROOT", "CTXGEN_WORKERS", "CTXGEN_TOKENS", "CTXGEN_MODEL", "CTXGEN_COPY"} {
		testingHandle.Setenv(key, "")
		if unsetError := os.Unsetenv(key); unsetError != nil {
			testingHandle.Fatalf("unset %s: %v", key, unsetError)
		}
	}
}

func prepareProject(testingHandle *testing.T) string {
	testingHandle.Helper()
	projectDirectory := testingHandle.TempDir()
	files := map[string]string{
		"context.yaml": notesConfiguration,
		"src/a.txt":    "alpha",
		"src/b.md":     "beta",
	}
	for relativePath, content := range files {
		absolutePath := filepath.Join(projectDirectory, relativePath)
		if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
			testingHandle.Fatalf("mkdir: %v", mkdirError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o600); writeError != nil {
			testingHandle.Fatalf("write %s: %v", relativePath, writeError)
		}
	}
	return projectDirectory
}

func executeCommand(testingHandle *testing.T, environment Environment, arguments ...string) (string, error) {
	testingHandle.Helper()
	var output bytes.Buffer
	environment.Output = &output
	if environment.Logger == nil {
		environment.Logger = zap.NewNop()
	}
	command := NewRootCommand(environment)
	command.SetArgs(normalizeToggleArguments(command, arguments))
	executionError := command.Execute()
	return output.String(), executionError
}

func TestGenerateWritesConfiguredDocuments(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	projectDirectory := prepareProject(testingHandle)

	testCases := []struct {
		name         string
		arguments    []string
		expectedPath string
	}{
		{name: "root_command", arguments: nil, expectedPath: "notes.md"},
		{name: "generate_alias", arguments: []string{"gen"}, expectedPath: "notes.md"},
		{name: "output_root", arguments: []string{"--output-root", "build"}, expectedPath: filepath.Join("build", "notes.md")},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			_, executionError := executeCommand(testingHandle, Environment{WorkingDirectory: projectDirectory}, testCase.arguments...)
			if executionError != nil {
				testingHandle.Fatalf("execute: %v", executionError)
			}
			written, readError := os.ReadFile(filepath.Join(projectDirectory, testCase.expectedPath))
			if readError != nil {
				testingHandle.Fatalf("read output: %v", readError)
			}
			if string(written) != expectedNotesOutput {
				testingHandle.Fatalf("unexpected output:\n%q\nexpected:\n%q", string(written), expectedNotesOutput)
			}
		})
	}
}

func TestGenerateCopiesLastDocument(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	projectDirectory := prepareProject(testingHandle)
	copier := &recordingCopier{}

	_, executionError := executeCommand(testingHandle, Environment{WorkingDirectory: projectDirectory, Copier: copier}, "--copy", "yes")
	if executionError != nil {
		testingHandle.Fatalf("execute: %v", executionError)
	}
	if len(copier.copied) != 1 || copier.copied[0] != expectedNotesOutput {
		testingHandle.Fatalf("unexpected clipboard content: %q", copier.copied)
	}
}

func TestGenerateWithoutConfiguration(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	_, executionError := executeCommand(testingHandle, Environment{WorkingDirectory: testingHandle.TempDir()})
	if !errors.Is(executionError, ErrNoConfiguration) {
		testingHandle.Fatalf("expected ErrNoConfiguration, got %v", executionError)
	}
}

func TestGenerateWithMissingExplicitConfiguration(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	_, executionError := executeCommand(testingHandle, Environment{WorkingDirectory: prepareProject(testingHandle)}, "--config", "absent.json")
	if !errors.Is(executionError, config.ErrConfigurationNotFound) {
		testingHandle.Fatalf("expected ErrConfigurationNotFound, got %v", executionError)
	}
}

func TestGenerateReportsFailedDocuments(testingHandle *testing.T) {
	isolateEnvironment(testingHandle)
	projectDirectory := testingHandle.TempDir()
	brokenConfiguration := `{"documents":[
		{"description":"Diff","outputPath":"diff.md","sources":[{"type":"git_diff","description":"Bad range","commit":"not a commit"}]},
		{"description":"Text","outputPath":"text.md","sources":[{"type":"text","content":"ok"}]}
	]}`
	if writeError := os.WriteFile(filepath.Join(projectDirectory, "context.json"), []byte(brokenConfiguration), 0o600); writeError != nil {
		testingHandle.Fatalf("write configuration: %v", writeError)
	}

	_, executionError := executeCommand(testingHandle, Environment{WorkingDirectory: projectDirectory})
	if executionError == nil || !strings.Contains(executionError.Error(), `"Bad range"`) {
		testingHandle.Fatalf("expected error naming the failing source, got %v", executionError)
	}
	if _, statError := os.Stat(filepath.Join(projectDirectory, "text.md")); statError != nil {
		testingHandle.Fatalf("expected the healthy document to be written: %v", statError)
	}
}

func TestInitCommand(testingHandle *testing.T) {
	projectDirectory := testingHandle.TempDir()
	environment := Environment{WorkingDirectory: projectDirectory}

	output, executionError := executeCommand(testingHandle, environment, "init", "context.json")
	if executionError != nil {
		testingHandle.Fatalf("init: %v", executionError)
	}
	expectedPath := filepath.Join(projectDirectory, "context.json")
	if !strings.Contains(output, expectedPath) {
		testingHandle.Fatalf("expected output to name %s, got %q", expectedPath, output)
	}
	if _, statError := os.Stat(expectedPath); statError != nil {
		testingHandle.Fatalf("expected configuration file: %v", statError)
	}

	_, repeatError := executeCommand(testingHandle, environment, "init", "context.json")
	if !errors.Is(repeatError, config.ErrConfigurationExists) {
		testingHandle.Fatalf("expected ErrConfigurationExists, got %v", repeatError)
	}
}

func TestSchemaCommandPrintsURL(testingHandle *testing.T) {
	output, executionError := executeCommand(testingHandle, Environment{}, "schema")
	if executionError != nil {
		testingHandle.Fatalf("schema: %v", executionError)
	}
	if !strings.Contains(output, SchemaURL) {
		testingHandle.Fatalf("expected schema URL in output, got %q", output)
	}
}

func TestVersionFlag(testingHandle *testing.T) {
	output, executionError := executeCommand(testingHandle, Environment{}, "--version")
	if executionError != nil {
		testingHandle.Fatalf("version: %v", executionError)
	}
	if !strings.HasPrefix(output, "ctxgen version: ") {
		testingHandle.Fatalf("unexpected version output %q", output)
	}
}
