package sources

import "encoding/json"

// DefaultFilePattern matches every file name.
const DefaultFilePattern = "*"

// FileSource pulls content from files and directory trees on disk.
type FileSource struct {
	SourceMeta
	// SourcePaths lists files or directories. Entries that do not exist at
	// fetch time are skipped without error.
	SourcePaths []string
	// FilePatterns are name globs applied to files found inside directories.
	FilePatterns StringList
	// ExcludePatterns drop any file whose path contains one of them as a
	// literal substring.
	ExcludePatterns []string
	ShowTreeView    bool
}

// NewFileSource constructs a FileSource defaulting the file pattern to DefaultFilePattern.
func NewFileSource(description string, sourcePaths []string, filePatterns StringList, excludePatterns []string, showTreeView bool, modifiers []string) FileSource {
	if filePatterns.IsEmpty() {
		filePatterns = StringList{DefaultFilePattern}
	}
	return FileSource{
		SourceMeta:      SourceMeta{Description: description, Modifiers: modifiers},
		SourcePaths:     sourcePaths,
		FilePatterns:    filePatterns,
		ExcludePatterns: excludePatterns,
		ShowTreeView:    showTreeView,
	}
}

// Kind returns KindFile.
func (FileSource) Kind() string { return KindFile }

func (FileSource) isSource() {}

type fileSourceDocument struct {
	Type            string     `json:"type"`
	Description     string     `json:"description"`
	SourcePaths     []string   `json:"sourcePaths"`
	FilePattern     StringList `json:"filePattern"`
	ExcludePatterns []string   `json:"excludePatterns,omitempty"`
	ShowTreeView    bool       `json:"showTreeView"`
	Modifiers       []string   `json:"modifiers,omitempty"`
}

// MarshalJSON writes the configuration shape of a file source.
func (source FileSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileSourceDocument{
		Type:            KindFile,
		Description:     source.Description,
		SourcePaths:     source.SourcePaths,
		FilePattern:     source.FilePatterns,
		ExcludePatterns: source.ExcludePatterns,
		ShowTreeView:    source.ShowTreeView,
		Modifiers:       source.Modifiers,
	})
}
