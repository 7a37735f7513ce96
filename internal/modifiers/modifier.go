// Package modifiers contains content transforms applied to individual files before they are rendered.
package modifiers

import (
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/sources"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	logMissingModifier     = "modifier not registered, skipping"
	logFieldModifier       = "modifier"
	logFieldPath           = "path"
	logDuplicateModifierID = "modifier registered twice, keeping the latest"
)

// Context describes the file being modified and the source that produced it.
type Context struct {
	FilePath string
	Source   sources.Source
}

// Modifier rewrites file content. Modify must not have side effects visible
// outside the returned string.
type Modifier interface {
	ID() string
	Supports(fileName string) bool
	Modify(content string, context Context) string
}

// Registry maps modifier identifiers to modifiers. It is immutable after construction.
type Registry struct {
	modifiers map[string]Modifier
	logger    *zap.Logger
}

// NewRegistry creates a Registry for the provided modifiers. Nil modifiers are
// dropped so platform-dependent constructors may opt out.
func NewRegistry(logger *zap.Logger, modifierList ...Modifier) *Registry {
	registry := &Registry{modifiers: map[string]Modifier{}, logger: utils.LoggerOrNop(logger)}
	for _, modifier := range modifierList {
		if modifier == nil {
			continue
		}
		if _, exists := registry.modifiers[modifier.ID()]; exists {
			registry.logger.Warn(logDuplicateModifierID, zap.String(logFieldModifier, modifier.ID()))
		}
		registry.modifiers[modifier.ID()] = modifier
	}
	return registry
}

// Has reports whether a modifier with id is registered.
func (registry *Registry) Has(id string) bool {
	if registry == nil {
		return false
	}
	_, found := registry.modifiers[id]
	return found
}

// Get returns the modifier registered under id.
func (registry *Registry) Get(id string) (Modifier, bool) {
	if registry == nil {
		return nil, false
	}
	modifier, found := registry.modifiers[id]
	return modifier, found
}

// IDs lists the registered identifiers in lexical order.
func (registry *Registry) IDs() []string {
	if registry == nil {
		return nil
	}
	identifiers := make([]string, 0, len(registry.modifiers))
	for identifier := range registry.modifiers {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)
	return identifiers
}

// Apply runs the modifiers named by ids over content in the order listed.
// A modifier is skipped when it does not support the file name. Unknown ids
// are skipped too: existing configurations reference modifiers that may not
// be available in every build, so a missing id is lenient, not an error.
func (registry *Registry) Apply(ids []string, content string, context Context) string {
	fileName := baseName(context.FilePath)
	for _, id := range ids {
		modifier, found := registry.Get(id)
		if !found {
			if registry != nil {
				registry.logger.Debug(logMissingModifier, zap.String(logFieldModifier, id), zap.String(logFieldPath, context.FilePath))
			}
			continue
		}
		if !modifier.Supports(fileName) {
			continue
		}
		content = modifier.Modify(content, context)
	}
	return content
}
