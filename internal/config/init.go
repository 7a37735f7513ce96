package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/temirov/ctxgen/internal/documents"
	"github.com/temirov/ctxgen/internal/sources"
)

const (
	// DefaultInitFileName is written by init when no file name is given.
	DefaultInitFileName = "context.yaml"

	templateDocumentDescription = "Your description here"
	templateDocumentOutputPath  = "context.md"
	templateSourceDescription   = "First context"
	templateSourceContent       = "My first context"

	jsonIndent = "    "
	yamlIndent = 2

	errorConfigurationPathFormat    = "%w: %s"
	errorInspectConfigurationFormat = "inspect configuration path %s: %w"
	errorWriteConfigurationFormat   = "write configuration to %s: %w"
	errorEncodeConfigurationFormat  = "encode configuration template: %w"
	errorUnsupportedExtensionFormat = "unsupported configuration extension %q"
)

// ErrConfigurationExists reports that init would overwrite an existing file.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	WorkingDirectory string
	FileName         string
}

// TemplateRegistry returns the documents written by init.
func TemplateRegistry() *documents.Registry {
	return documents.NewRegistry(documents.NewDocument(
		templateDocumentDescription,
		templateDocumentOutputPath,
		sources.NewTextSource(templateSourceDescription, templateSourceContent),
	))
}

// InitializeConfiguration writes the template configuration and returns its
// path. The format follows the file extension. Existing files are never replaced.
func InitializeConfiguration(options InitOptions) (string, error) {
	workingDirectory, directoryError := resolveWorkingDirectory(options.WorkingDirectory)
	if directoryError != nil {
		return "", directoryError
	}
	fileName := strings.TrimSpace(options.FileName)
	if fileName == "" {
		fileName = DefaultInitFileName
	}
	destinationPath := fileName
	if !filepath.IsAbs(destinationPath) {
		destinationPath = filepath.Join(workingDirectory, fileName)
	}

	if _, statError := os.Stat(destinationPath); statError == nil {
		return "", fmt.Errorf(errorConfigurationPathFormat, ErrConfigurationExists, destinationPath)
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf(errorInspectConfigurationFormat, destinationPath, statError)
	}

	content, encodeError := EncodeRegistry(TemplateRegistry(), filepath.Ext(destinationPath))
	if encodeError != nil {
		return "", encodeError
	}
	if writeError := os.WriteFile(destinationPath, content, 0o600); writeError != nil {
		return "", fmt.Errorf(errorWriteConfigurationFormat, destinationPath, writeError)
	}
	return destinationPath, nil
}

// EncodeRegistry renders registry in the configuration format named by extension.
func EncodeRegistry(registry *documents.Registry, extension string) ([]byte, error) {
	encoded, marshalError := json.Marshal(registry)
	if marshalError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, marshalError)
	}

	switch strings.ToLower(extension) {
	case ".json":
		var indented bytes.Buffer
		if indentError := json.Indent(&indented, encoded, "", jsonIndent); indentError != nil {
			return nil, fmt.Errorf(errorEncodeConfigurationFormat, indentError)
		}
		indented.WriteByte('\n')
		return indented.Bytes(), nil
	case ".yaml", ".yml":
		return encodeYAML(encoded)
	case tomlExtension:
		return encodeTOML(encoded)
	default:
		return nil, fmt.Errorf(errorUnsupportedExtensionFormat, extension)
	}
}

// encodeYAML re-reads the JSON through a yaml.Node so key order survives,
// then switches every node to block style.
func encodeYAML(encoded []byte) ([]byte, error) {
	var root yaml.Node
	if decodeError := yaml.Unmarshal(encoded, &root); decodeError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, decodeError)
	}
	resetNodeStyle(&root)

	var output bytes.Buffer
	encoder := yaml.NewEncoder(&output)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(&root); encodeError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, closeError)
	}
	return output.Bytes(), nil
}

func resetNodeStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetNodeStyle(child)
	}
}

func encodeTOML(encoded []byte) ([]byte, error) {
	var body map[string]any
	if decodeError := json.Unmarshal(encoded, &body); decodeError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, decodeError)
	}
	var output bytes.Buffer
	if encodeError := toml.NewEncoder(&output).Encode(body); encodeError != nil {
		return nil, fmt.Errorf(errorEncodeConfigurationFormat, encodeError)
	}
	return output.Bytes(), nil
}
