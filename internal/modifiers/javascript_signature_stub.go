//go:build !cgo

package modifiers

// NewJavaScriptSignatureModifier returns nil when cgo is unavailable so the
// registry skips js-signature on platforms that cannot build the tree-sitter
// bindings.
func NewJavaScriptSignatureModifier() Modifier {
	return nil
}
