package modifiers

import (
	"golang.org/x/mod/modfile"
)

const (
	goModRequiresModifierID = "gomod-requires"
	goModFileName           = "go.mod"
)

// GoModRequiresModifier normalises a go.mod file to its module, toolchain
// and direct requirements, dropping indirect requirements.
type GoModRequiresModifier struct{}

// NewGoModRequiresModifier constructs a GoModRequiresModifier.
func NewGoModRequiresModifier() Modifier {
	return GoModRequiresModifier{}
}

// ID returns "gomod-requires".
func (GoModRequiresModifier) ID() string { return goModRequiresModifierID }

// Supports accepts files named go.mod.
func (GoModRequiresModifier) Supports(fileName string) bool {
	return fileName == goModFileName
}

// Modify returns content unchanged when it does not parse.
func (GoModRequiresModifier) Modify(content string, _ Context) string {
	moduleFile, parseError := modfile.Parse(goModFileName, []byte(content), nil)
	if parseError != nil || moduleFile == nil {
		return content
	}
	var indirectPaths []string
	for _, requirement := range moduleFile.Require {
		if requirement != nil && requirement.Indirect {
			indirectPaths = append(indirectPaths, requirement.Mod.Path)
		}
	}
	for _, indirectPath := range indirectPaths {
		if dropError := moduleFile.DropRequire(indirectPath); dropError != nil {
			return content
		}
	}
	moduleFile.Cleanup()
	return string(modfile.Format(moduleFile.Syntax))
}
