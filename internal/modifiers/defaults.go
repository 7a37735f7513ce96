package modifiers

import (
	"path/filepath"

	"go.uber.org/zap"
)

// NewDefaultRegistry registers every built-in modifier available on this platform.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	return NewRegistry(
		logger,
		NewGoSignatureModifier(),
		NewJavaScriptSignatureModifier(),
		NewGoModRequiresModifier(),
		NewSanitizerModifier(),
	)
}

func baseName(filePath string) string {
	if filePath == "" {
		return ""
	}
	return filepath.Base(filePath)
}
