// Package gitdiff resolves commit expressions and runs git to collect diffs.
package gitdiff

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// PresetStaged diffs the index against HEAD.
	PresetStaged = "staged"
	// PresetUnstaged diffs the working tree against the index.
	PresetUnstaged = "unstaged"
	// PresetLast diffs the most recent commit.
	PresetLast = "last"
	// PresetToday diffs everything committed since midnight.
	PresetToday = "today"
	// PresetLastWeek diffs everything committed during the last week.
	PresetLastWeek = "last-week"
	// PresetLastMonth diffs everything committed during the last month.
	PresetLastMonth = "last-month"

	rangeOperator          = ".."
	cachedFlag             = "--cached"
	parentRangeFormat      = "%s~1..%s"
	commitsBackRangeFormat = "HEAD~%s..HEAD"
	errorInvalidFormat     = "%w: %q"
)

// ErrInvalidCommitExpression is returned for commit expressions that are neither a range, a preset nor a ref.
var ErrInvalidCommitExpression = errors.New("invalid commit expression")

var (
	lastCommitsPattern = regexp.MustCompile(`^last-(\d+)-commits?$`)
	revisionPattern    = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._/\-]*(?:@\{[A-Za-z0-9. ]+\})?(?:[~^]\d*)*$`)
	presetRanges       = map[string]string{
		PresetLast:      "HEAD~1..HEAD",
		PresetToday:     "HEAD@{midnight}..HEAD",
		PresetLastWeek:  "HEAD@{1.week.ago}..HEAD",
		PresetLastMonth: "HEAD@{1.month.ago}..HEAD",
	}
)

// Range is a resolved commit expression.
type Range struct {
	// Expression is the configured value.
	Expression string
	// Arguments are passed to git diff ahead of the pathspec separator.
	Arguments []string
}

// String renders the arguments the way they are passed to git.
func (commitRange Range) String() string {
	if len(commitRange.Arguments) == 0 {
		return "working tree"
	}
	return strings.Join(commitRange.Arguments, " ")
}

// ResolveCommitRange turns a configured commit expression into diff arguments.
// Ranges pass through verbatim, presets expand to explicit ranges, and a
// single commit or ref becomes the diff against its first parent.
func ResolveCommitRange(expression string) (Range, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		trimmed = PresetStaged
	}

	switch trimmed {
	case PresetStaged:
		return Range{Expression: trimmed, Arguments: []string{cachedFlag}}, nil
	case PresetUnstaged:
		return Range{Expression: trimmed}, nil
	}
	if presetRange, isPreset := presetRanges[trimmed]; isPreset {
		return Range{Expression: trimmed, Arguments: []string{presetRange}}, nil
	}
	if matches := lastCommitsPattern.FindStringSubmatch(trimmed); matches != nil {
		return Range{Expression: trimmed, Arguments: []string{fmt.Sprintf(commitsBackRangeFormat, matches[1])}}, nil
	}

	if strings.Contains(trimmed, rangeOperator) {
		if !isValidRange(trimmed) {
			return Range{}, fmt.Errorf(errorInvalidFormat, ErrInvalidCommitExpression, expression)
		}
		return Range{Expression: trimmed, Arguments: []string{trimmed}}, nil
	}

	if !revisionPattern.MatchString(trimmed) {
		return Range{}, fmt.Errorf(errorInvalidFormat, ErrInvalidCommitExpression, expression)
	}
	return Range{Expression: trimmed, Arguments: []string{fmt.Sprintf(parentRangeFormat, trimmed, trimmed)}}, nil
}

// isValidRange accepts "A..B" and "A...B" where both ends are revisions; an
// empty end stands for HEAD as in git.
func isValidRange(expression string) bool {
	separator := rangeOperator
	if strings.Contains(expression, "...") {
		separator = "..."
	}
	endpoints := strings.SplitN(expression, separator, 2)
	if len(endpoints) != 2 || (endpoints[0] == "" && endpoints[1] == "") {
		return false
	}
	for _, endpoint := range endpoints {
		if endpoint != "" && !revisionPattern.MatchString(endpoint) {
			return false
		}
	}
	return true
}
