package sources

import "encoding/json"

// TextSource contributes literal text. It has no filtering surface.
type TextSource struct {
	SourceMeta
	Content string
	// Tag, when set, wraps the content in <Tag>...</Tag>.
	Tag string
}

// NewTextSource constructs a TextSource.
func NewTextSource(description, content string) TextSource {
	return TextSource{SourceMeta: SourceMeta{Description: description}, Content: content}
}

// Kind returns KindText.
func (TextSource) Kind() string { return KindText }

func (TextSource) isSource() {}

type textSourceDocument struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Tag         string `json:"tag,omitempty"`
}

// MarshalJSON writes the configuration shape of a text source.
func (source TextSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(textSourceDocument{
		Type:        KindText,
		Description: source.Description,
		Content:     source.Content,
		Tag:         source.Tag,
	})
}
