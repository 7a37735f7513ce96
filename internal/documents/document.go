// Package documents models the output documents and the loaders that discover them.
package documents

import (
	"encoding/json"

	"github.com/temirov/ctxgen/internal/sources"
)

// Document is an ordered group of sources rendered into one output file.
type Document struct {
	Description string
	// OutputPath is not required to be unique across a registry; a later
	// document may overwrite an earlier one's output.
	OutputPath string
	Sources    []sources.Source
	// Overwrite allows replacing an existing output file.
	Overwrite bool
	Tags      []string
}

// NewDocument constructs a Document that overwrites existing output.
func NewDocument(description, outputPath string, documentSources ...sources.Source) Document {
	return Document{
		Description: description,
		OutputPath:  outputPath,
		Sources:     documentSources,
		Overwrite:   true,
	}
}

type documentShape struct {
	Description string           `json:"description"`
	OutputPath  string           `json:"outputPath"`
	Overwrite   bool             `json:"overwrite"`
	Tags        []string         `json:"tags,omitempty"`
	Sources     []sources.Source `json:"sources"`
}

// MarshalJSON writes the configuration shape of a document.
func (document Document) MarshalJSON() ([]byte, error) {
	documentSources := document.Sources
	if documentSources == nil {
		documentSources = []sources.Source{}
	}
	return json.Marshal(documentShape{
		Description: document.Description,
		OutputPath:  document.OutputPath,
		Overwrite:   document.Overwrite,
		Tags:        document.Tags,
		Sources:     documentSources,
	})
}

// Registry is the ordered collection of documents produced by one loading pass.
type Registry struct {
	items []Document
}

// NewRegistry constructs a Registry holding documents in the given order.
func NewRegistry(documentList ...Document) *Registry {
	registry := &Registry{}
	for _, document := range documentList {
		registry.Register(document)
	}
	return registry
}

// Register appends document.
func (registry *Registry) Register(document Document) *Registry {
	registry.items = append(registry.items, document)
	return registry
}

// Items returns the documents in registration order. The slice is a copy.
func (registry *Registry) Items() []Document {
	if registry == nil {
		return nil
	}
	return append([]Document(nil), registry.items...)
}

// Len reports the number of registered documents.
func (registry *Registry) Len() int {
	if registry == nil {
		return 0
	}
	return len(registry.items)
}

// MarshalJSON writes {"documents": [...]}.
func (registry *Registry) MarshalJSON() ([]byte, error) {
	items := registry.Items()
	if items == nil {
		items = []Document{}
	}
	return json.Marshal(struct {
		Documents []Document `json:"documents"`
	}{Documents: items})
}
