package modifiers

import "strings"

const javaScriptSignatureModifierID = "js-signature"

var javaScriptFileExtensions = []string{".js", ".mjs", ".cjs", ".jsx"}

func supportsJavaScript(fileName string) bool {
	for _, extension := range javaScriptFileExtensions {
		if strings.HasSuffix(fileName, extension) {
			return true
		}
	}
	return false
}
