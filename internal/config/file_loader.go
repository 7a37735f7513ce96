package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/temirov/ctxgen/internal/documents"
)

const (
	tomlExtension = ".toml"

	errorStatConfigurationFormat   = "stat configuration %s: %w"
	errorReadConfigurationFormat   = "read configuration from %s: %w"
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
	errorConfigurationIsDirFormat  = "configuration path %s is a directory"
)

// FileLoader reads documents from one configuration file. YAML and JSON files
// are read through viper, TOML files through BurntSushi/toml.
type FileLoader struct {
	path     string
	rootPath string
}

// NewFileLoader constructs a FileLoader for path. Relative source paths inside
// the file are resolved against rootPath, or the file's directory when rootPath is empty.
func NewFileLoader(path, rootPath string) *FileLoader {
	if rootPath == "" {
		rootPath = filepath.Dir(path)
	}
	return &FileLoader{path: path, rootPath: rootPath}
}

// Name returns the configuration file path.
func (loader *FileLoader) Name() string {
	return loader.path
}

// IsSupported reports whether the configuration file exists.
func (loader *FileLoader) IsSupported() bool {
	info, statError := os.Stat(loader.path)
	return statError == nil && !info.IsDir()
}

// Load decodes the configuration file into a document registry.
func (loader *FileLoader) Load() (*documents.Registry, error) {
	info, statError := os.Stat(loader.path)
	if statError != nil {
		return nil, fmt.Errorf(errorStatConfigurationFormat, loader.path, statError)
	}
	if info.IsDir() {
		return nil, fmt.Errorf(errorConfigurationIsDirFormat, loader.path)
	}

	var body map[string]any
	var readError error
	if strings.EqualFold(filepath.Ext(loader.path), tomlExtension) {
		body, readError = readTOML(loader.path)
	} else {
		body, readError = readWithViper(loader.path)
	}
	if readError != nil {
		return nil, readError
	}

	registry, decodeError := DecodeDocuments(body, loader.rootPath)
	if decodeError != nil {
		return nil, fmt.Errorf(errorDecodeConfigurationFormat, loader.path, decodeError)
	}
	return registry, nil
}

func readWithViper(path string) (map[string]any, error) {
	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return nil, fmt.Errorf(errorReadConfigurationFormat, path, readError)
	}
	return reader.AllSettings(), nil
}

func readTOML(path string) (map[string]any, error) {
	body := map[string]any{}
	if _, decodeError := toml.DecodeFile(path, &body); decodeError != nil {
		return nil, fmt.Errorf(errorReadConfigurationFormat, path, decodeError)
	}
	return body, nil
}

var _ documents.NamedLoader = (*FileLoader)(nil)
