// Package filetree renders a flat list of file paths as an indented directory tree.
package filetree

import (
	"path/filepath"
	"strings"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"
	pathSeparator       = "/"
	lineTerminator      = "\n"
)

// Builder renders file trees. It performs no filesystem access and trusts the
// caller's path list.
type Builder struct{}

// NewBuilder constructs a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

type treeNode struct {
	name        string
	isDirectory bool
	children    []*treeNode
	childIndex  map[string]*treeNode
}

func newTreeNode(name string, isDirectory bool) *treeNode {
	return &treeNode{name: name, isDirectory: isDirectory, childIndex: map[string]*treeNode{}}
}

// child returns the named child, creating it on first encounter so siblings
// keep insertion order.
func (node *treeNode) child(name string, isDirectory bool) *treeNode {
	if existing, found := node.childIndex[name]; found {
		if isDirectory {
			existing.isDirectory = true
		}
		return existing
	}
	created := newTreeNode(name, isDirectory)
	node.childIndex[name] = created
	node.children = append(node.children, created)
	return created
}

// Build strips basePath from every path, merges the remaining segments into a
// shared prefix tree and renders it. Siblings appear in first-encountered
// order.
func (builder *Builder) Build(filePaths []string, basePath string) string {
	root := newTreeNode("", true)
	for _, filePath := range filePaths {
		segments := relativeSegments(filePath, basePath)
		if len(segments) == 0 {
			continue
		}
		current := root
		for segmentIndex, segment := range segments {
			isDirectory := segmentIndex < len(segments)-1
			current = current.child(segment, isDirectory)
		}
	}

	var rendered strings.Builder
	for childIndex, child := range root.children {
		renderTreeNode(&rendered, child, "", childIndex == len(root.children)-1)
	}
	return rendered.String()
}

func relativeSegments(filePath, basePath string) []string {
	normalizedPath := filepath.ToSlash(filePath)
	normalizedBase := strings.TrimRight(filepath.ToSlash(basePath), pathSeparator)
	if normalizedBase != "" && (normalizedPath == normalizedBase || strings.HasPrefix(normalizedPath, normalizedBase+pathSeparator)) {
		normalizedPath = strings.TrimPrefix(normalizedPath, normalizedBase)
	}
	trimmedPath := strings.Trim(normalizedPath, pathSeparator)
	if trimmedPath == "" {
		return nil
	}
	var segments []string
	for _, segment := range strings.Split(trimmedPath, pathSeparator) {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

func renderTreeNode(writer *strings.Builder, node *treeNode, prefix string, isLast bool) {
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	writer.WriteString(prefix + connector + node.name)
	if node.isDirectory {
		writer.WriteString(directorySuffix)
	}
	writer.WriteString(lineTerminator)
	for childIndex, child := range node.children {
		renderTreeNode(writer, child, childPrefix, childIndex == len(node.children)-1)
	}
}
