package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/ctxgen/internal/documents"
)

// DefaultConfigurationFileNames lists the configuration files looked up in the
// working directory, in merge order.
var DefaultConfigurationFileNames = []string{
	"context.yaml",
	"context.yml",
	"context.json",
	"context.toml",
}

// ErrConfigurationNotFound reports an explicit configuration file that does not exist.
var ErrConfigurationNotFound = errors.New("configuration file not found")

const errorResolveWorkingDirectoryFormat = "determine working directory: %w"

// LoadOptions controls how document configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// NewDocumentsLoader returns the loader for the configured documents. An
// explicit file yields a single loader; otherwise every default file name in
// the working directory contributes one.
func NewDocumentsLoader(options LoadOptions) (documents.Loader, error) {
	workingDirectory, directoryError := resolveWorkingDirectory(options.WorkingDirectory)
	if directoryError != nil {
		return nil, directoryError
	}

	if options.ExplicitFilePath != "" {
		explicitPath := options.ExplicitFilePath
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(workingDirectory, explicitPath)
		}
		loader := NewFileLoader(explicitPath, workingDirectory)
		if !loader.IsSupported() {
			return nil, fmt.Errorf(errorConfigurationPathFormat, ErrConfigurationNotFound, explicitPath)
		}
		return documents.NewCompositeLoader(loader), nil
	}

	loaders := make([]documents.Loader, 0, len(DefaultConfigurationFileNames))
	for _, fileName := range DefaultConfigurationFileNames {
		loaders = append(loaders, NewFileLoader(filepath.Join(workingDirectory, fileName), workingDirectory))
	}
	return documents.NewCompositeLoader(loaders...), nil
}

func resolveWorkingDirectory(workingDirectory string) (string, error) {
	if workingDirectory != "" {
		return workingDirectory, nil
	}
	currentDirectory, directoryError := os.Getwd()
	if directoryError != nil {
		return "", fmt.Errorf(errorResolveWorkingDirectoryFormat, directoryError)
	}
	return currentDirectory, nil
}
