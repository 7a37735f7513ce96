package sources

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultRepository is the repository used when none is configured.
	DefaultRepository = "."
	// DefaultCommit diffs the staged changes.
	DefaultCommit = "staged"
	// DefaultDiffFilePattern matches any file name that has an extension.
	DefaultDiffFilePattern = "*.*"
)

// CommitDiffSource renders the changes of a commit range in a git repository.
type CommitDiffSource struct {
	SourceMeta
	// Repository is an absolute path once the source is built by FromMap.
	Repository string
	// Commit is a range ("A..B"), a single commit or ref, or a preset such as "staged".
	Commit       string
	FilePatterns StringList
	NotPath      StringList
	Path         StringList
	Contains     StringList
	NotContains  StringList
	ShowStats    bool
}

// NewCommitDiffSource constructs a CommitDiffSource with the documented defaults.
func NewCommitDiffSource(repository, description, commit string) CommitDiffSource {
	if repository == "" {
		repository = DefaultRepository
	}
	if commit == "" {
		commit = DefaultCommit
	}
	return CommitDiffSource{
		SourceMeta:   SourceMeta{Description: description},
		Repository:   repository,
		Commit:       commit,
		FilePatterns: StringList{DefaultDiffFilePattern},
		ShowStats:    true,
	}
}

// Kind returns KindGitDiff.
func (CommitDiffSource) Kind() string { return KindGitDiff }

func (CommitDiffSource) isSource() {}

// commitDiffDocument is the persisted shape; commitRange is the serialized
// name of Commit.
type commitDiffDocument struct {
	Type        string     `json:"type"`
	Repository  string     `json:"repository"`
	Description string     `json:"description"`
	CommitRange string     `json:"commitRange"`
	FilePattern StringList `json:"filePattern"`
	NotPath     StringList `json:"notPath"`
	Path        StringList `json:"path"`
	Contains    StringList `json:"contains"`
	NotContains StringList `json:"notContains"`
	ShowStats   bool       `json:"showStats"`
}

// MarshalJSON writes the flat git_diff shape used for exported configuration.
func (source CommitDiffSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(commitDiffDocument{
		Type:        KindGitDiff,
		Repository:  source.Repository,
		Description: source.Description,
		CommitRange: source.Commit,
		FilePattern: source.FilePatterns,
		NotPath:     source.NotPath,
		Path:        source.Path,
		Contains:    source.Contains,
		NotContains: source.NotContains,
		ShowStats:   source.ShowStats,
	})
}

// UnmarshalJSON reads the flat git_diff shape. Both "commitRange" and the
// configuration key "commit" are accepted; absent fields take the defaults.
func (source *CommitDiffSource) UnmarshalJSON(data []byte) error {
	var document struct {
		commitDiffDocument
		Commit    string   `json:"commit"`
		ShowStats *bool    `json:"showStats"`
		Modifiers []string `json:"modifiers"`
	}
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("decode %s source: %w", KindGitDiff, err)
	}
	if document.Type != "" && document.Type != KindGitDiff {
		return fmt.Errorf(errorUnknownSourceFormat, ErrUnknownSourceType, document.Type)
	}
	commit := document.CommitRange
	if commit == "" {
		commit = document.Commit
	}
	decoded := NewCommitDiffSource(document.Repository, document.Description, commit)
	if !document.FilePattern.IsEmpty() {
		decoded.FilePatterns = document.FilePattern
	}
	decoded.NotPath = document.NotPath
	decoded.Path = document.Path
	decoded.Contains = document.Contains
	decoded.NotContains = document.NotContains
	if document.ShowStats != nil {
		decoded.ShowStats = *document.ShowStats
	}
	decoded.Modifiers = document.Modifiers
	*source = decoded
	return nil
}
