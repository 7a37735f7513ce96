package modifiers

import "regexp"

const (
	sanitizerModifierID = "sanitizer"
	redactedPlaceholder = "[REDACTED]"
)

var (
	credentialAssignmentPattern = regexp.MustCompile(`(?i)((?:api[_-]?key|secret|token|password|passwd)["']?\s*[:=]\s*)("[^"]*"|'[^']*'|[^\s,;]+)`)
	emailAddressPattern         = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	privateKeyBlockPattern      = regexp.MustCompile(`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`)
)

// SanitizerModifier redacts credential assignments, private key blocks and
// e-mail addresses.
type SanitizerModifier struct{}

// NewSanitizerModifier constructs a SanitizerModifier.
func NewSanitizerModifier() Modifier {
	return SanitizerModifier{}
}

// ID returns "sanitizer".
func (SanitizerModifier) ID() string { return sanitizerModifierID }

// Supports accepts every file.
func (SanitizerModifier) Supports(string) bool { return true }

// Modify redacts sensitive values.
func (SanitizerModifier) Modify(content string, _ Context) string {
	content = privateKeyBlockPattern.ReplaceAllString(content, redactedPlaceholder)
	content = credentialAssignmentPattern.ReplaceAllString(content, "${1}"+redactedPlaceholder)
	return emailAddressPattern.ReplaceAllString(content, redactedPlaceholder)
}
