package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeConfigurationWritesLoadableTemplate(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		fileName      string
		expectedPath  string
		expectedToken string
	}{
		{name: "default_yaml", fileName: "", expectedPath: "context.yaml", expectedToken: "outputPath: context.md"},
		{name: "json", fileName: "context.json", expectedPath: "context.json", expectedToken: `"outputPath": "context.md"`},
		{name: "toml", fileName: "context.toml", expectedPath: "context.toml", expectedToken: "[[documents]]"},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			workingDirectory := testingHandle.TempDir()
			path, initError := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, FileName: testCase.fileName})
			if initError != nil {
				testingHandle.Fatalf("InitializeConfiguration error: %v", initError)
			}
			if path != filepath.Join(workingDirectory, testCase.expectedPath) {
				testingHandle.Fatalf("unexpected path %s", path)
			}
			content, readError := os.ReadFile(path)
			if readError != nil {
				testingHandle.Fatalf("read configuration: %v", readError)
			}
			if !strings.Contains(string(content), testCase.expectedToken) {
				testingHandle.Fatalf("expected %q in configuration:\n%s", testCase.expectedToken, string(content))
			}

			registry, loadError := NewFileLoader(path, workingDirectory).Load()
			if loadError != nil {
				testingHandle.Fatalf("load written configuration: %v", loadError)
			}
			items := registry.Items()
			if len(items) != 1 || items[0].OutputPath != "context.md" || items[0].Description != "Your description here" {
				testingHandle.Fatalf("unexpected documents: %+v", items)
			}
			if len(items[0].Sources) != 1 || items[0].Sources[0].Meta().Description != "First context" {
				testingHandle.Fatalf("unexpected sources: %+v", items[0].Sources)
			}
		})
	}
}

func TestInitializeConfigurationRefusesOverwrite(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	path := filepath.Join(workingDirectory, "context.yaml")
	if writeError := os.WriteFile(path, []byte("existing"), 0o600); writeError != nil {
		testingHandle.Fatalf("write seed config: %v", writeError)
	}
	_, initError := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if !errors.Is(initError, ErrConfigurationExists) {
		testingHandle.Fatalf("expected ErrConfigurationExists, got %v", initError)
	}
	content, _ := os.ReadFile(path)
	if string(content) != "existing" {
		testingHandle.Fatalf("existing configuration was modified")
	}
}

func TestInitializeConfigurationRejectsUnknownExtension(testingHandle *testing.T) {
	_, initError := InitializeConfiguration(InitOptions{WorkingDirectory: testingHandle.TempDir(), FileName: "context.ini"})
	if initError == nil {
		testingHandle.Fatalf("expected error for unsupported extension")
	}
}
