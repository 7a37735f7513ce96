//go:build cgo

package modifiers

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"
)

const (
	javaScriptBodyField      = "body"
	javaScriptStatementBlock = "statement_block"
	javaScriptElidedBody     = "{ /* ... */ }"
)

var javaScriptCallableNodeTypes = map[string]struct{}{
	"function_declaration":           {},
	"generator_function_declaration": {},
	"method_definition":              {},
	"function":                       {},
	"function_expression":            {},
	"generator_function":             {},
	"arrow_function":                 {},
}

type javaScriptSignatureModifier struct{}

// NewJavaScriptSignatureModifier constructs the js-signature modifier, which
// replaces every outermost function body with a placeholder.
func NewJavaScriptSignatureModifier() Modifier {
	return javaScriptSignatureModifier{}
}

func (javaScriptSignatureModifier) ID() string { return javaScriptSignatureModifierID }

func (javaScriptSignatureModifier) Supports(fileName string) bool {
	return supportsJavaScript(fileName)
}

func (javaScriptSignatureModifier) Modify(content string, _ Context) string {
	source := []byte(content)
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, parseError := parser.ParseCtx(context.Background(), nil, source)
	if parseError != nil || tree == nil {
		return content
	}
	defer tree.Close()

	var elided []bodyByteRange
	collectJavaScriptBodies(tree.RootNode(), &elided)
	if len(elided) == 0 {
		return content
	}
	sort.Slice(elided, func(first, second int) bool { return elided[first].start < elided[second].start })

	var rewritten strings.Builder
	cursor := uint32(0)
	for _, bodyRange := range elided {
		rewritten.Write(source[cursor:bodyRange.start])
		rewritten.WriteString(javaScriptElidedBody)
		cursor = bodyRange.end
	}
	rewritten.Write(source[cursor:])
	return rewritten.String()
}

type bodyByteRange struct {
	start uint32
	end   uint32
}

// collectJavaScriptBodies records the statement-block bodies of callables
// without descending into them, so nested functions disappear with their parent.
func collectJavaScriptBodies(node *sitter.Node, elided *[]bodyByteRange) {
	if node == nil {
		return
	}
	if _, isCallable := javaScriptCallableNodeTypes[node.Type()]; isCallable {
		body := node.ChildByFieldName(javaScriptBodyField)
		if body != nil && body.Type() == javaScriptStatementBlock {
			*elided = append(*elided, bodyByteRange{start: body.StartByte(), end: body.EndByte()})
			return
		}
	}
	for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
		collectJavaScriptBodies(node.NamedChild(childIndex), elided)
	}
}
