// Package entities defines core domain models and data structures.
package entities

import (
	"path"
	"sort"
)

// ArtifactIndex is a snapshot of the executable test scripts found under a search root.
// Keys are slash-separated paths (search root joined with the file's path below it),
// values are the raw file contents read at scan time.
type ArtifactIndex struct {
	root  string
	files map[string]string
	paths []string
}

// NewArtifactIndex builds an index from scanned files. The map is copied.
func NewArtifactIndex(root string, files map[string]string) *ArtifactIndex {
	idx := &ArtifactIndex{
		root:  root,
		files: make(map[string]string, len(files)),
		paths: make([]string, 0, len(files)),
	}
	for p, content := range files {
		idx.files[p] = content
		idx.paths = append(idx.paths, p)
	}
	sort.Strings(idx.paths)
	return idx
}

// Root returns the search root the index was built from
func (a *ArtifactIndex) Root() string {
	if a == nil {
		return ""
	}
	return a.root
}

// Len returns the number of indexed artifacts
func (a *ArtifactIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.paths)
}

// Paths returns all artifact paths in lexicographic order
func (a *ArtifactIndex) Paths() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.paths))
	copy(out, a.paths)
	return out
}

// Contains reports whether path is an indexed artifact
func (a *ArtifactIndex) Contains(p string) bool {
	if a == nil {
		return false
	}
	_, ok := a.files[p]
	return ok
}

// Content returns the text captured for an artifact
func (a *ArtifactIndex) Content(p string) (string, bool) {
	if a == nil {
		return "", false
	}
	content, ok := a.files[p]
	return content, ok
}

// Filename returns the base name of an artifact path
func Filename(artifactPath string) string {
	return path.Base(artifactPath)
}
