package documents

import "fmt"

const errorLoaderFormat = "load documents from %s: %w"

// Loader discovers documents from one configuration origin.
type Loader interface {
	IsSupported() bool
	Load() (*Registry, error)
}

// NamedLoader is implemented by loaders that can describe their origin in errors.
type NamedLoader interface {
	Loader
	Name() string
}

// CompositeLoader merges the documents of several loaders into one registry.
type CompositeLoader struct {
	loaders []Loader
}

// NewCompositeLoader constructs a CompositeLoader; nil loaders are dropped.
func NewCompositeLoader(loaders ...Loader) *CompositeLoader {
	composite := &CompositeLoader{}
	for _, loader := range loaders {
		if loader != nil {
			composite.loaders = append(composite.loaders, loader)
		}
	}
	return composite
}

// IsSupported reports whether at least one loader is supported.
func (composite *CompositeLoader) IsSupported() bool {
	for _, loader := range composite.loaders {
		if loader.IsSupported() {
			return true
		}
	}
	return false
}

// Load queries supported loaders in registration order and appends their
// documents, keeping each loader's own order.
func (composite *CompositeLoader) Load() (*Registry, error) {
	merged := NewRegistry()
	for loaderIndex, loader := range composite.loaders {
		if !loader.IsSupported() {
			continue
		}
		loaded, loadError := loader.Load()
		if loadError != nil {
			return nil, fmt.Errorf(errorLoaderFormat, loaderName(loader, loaderIndex), loadError)
		}
		for _, document := range loaded.Items() {
			merged.Register(document)
		}
	}
	return merged, nil
}

func loaderName(loader Loader, loaderIndex int) string {
	if named, isNamed := loader.(NamedLoader); isNamed {
		return named.Name()
	}
	return fmt.Sprintf("loader #%d", loaderIndex+1)
}
