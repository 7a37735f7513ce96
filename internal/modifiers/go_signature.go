package modifiers

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
)

const (
	goSignatureModifierID = "go-signature"
	goFileExtension       = ".go"
)

type bodyRange struct {
	start token.Pos
	end   token.Pos
}

// GoSignatureModifier reduces Go source to its declarations by removing
// function bodies and the comments inside them.
type GoSignatureModifier struct{}

// NewGoSignatureModifier constructs a GoSignatureModifier.
func NewGoSignatureModifier() Modifier {
	return GoSignatureModifier{}
}

// ID returns "go-signature".
func (GoSignatureModifier) ID() string { return goSignatureModifierID }

// Supports accepts .go files.
func (GoSignatureModifier) Supports(fileName string) bool {
	return strings.HasSuffix(fileName, goFileExtension)
}

// Modify returns content unchanged when it does not parse.
func (GoSignatureModifier) Modify(content string, context Context) string {
	fileSet := token.NewFileSet()
	fileAST, parseError := parser.ParseFile(fileSet, context.FilePath, content, parser.ParseComments)
	if parseError != nil {
		return content
	}

	var removedBodies []bodyRange
	for _, declaration := range fileAST.Decls {
		functionDeclaration, isFunction := declaration.(*ast.FuncDecl)
		if !isFunction || functionDeclaration.Body == nil {
			continue
		}
		removedBodies = append(removedBodies, bodyRange{start: functionDeclaration.Body.Pos(), end: functionDeclaration.Body.End()})
		functionDeclaration.Body = nil
	}

	keptComments := fileAST.Comments[:0]
	for _, commentGroup := range fileAST.Comments {
		if !insideAny(commentGroup.Pos(), removedBodies) {
			keptComments = append(keptComments, commentGroup)
		}
	}
	fileAST.Comments = keptComments

	var formatted bytes.Buffer
	if formatError := format.Node(&formatted, fileSet, fileAST); formatError != nil {
		return content
	}
	return formatted.String()
}

func insideAny(position token.Pos, ranges []bodyRange) bool {
	for _, candidate := range ranges {
		if position >= candidate.start && position < candidate.end {
			return true
		}
	}
	return false
}
