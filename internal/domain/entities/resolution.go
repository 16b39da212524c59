package entities

// NoScriptFound is the text shown in place of a path when no artifact could be resolved
const NoScriptFound = "No matching script found"

// ResolutionSource tells where a script path came from
type ResolutionSource string

// Resolution sources
const (
	SourceCatalog   ResolutionSource = "catalog"
	SourceHeuristic ResolutionSource = "heuristic"
	SourceOracle    ResolutionSource = "oracle"
	SourceNone      ResolutionSource = "none"
)

// ScriptResolution is the outcome of resolving a record to an executable artifact
type ScriptResolution struct {
	Path   string
	Found  bool
	Source ResolutionSource
}

// Resolved creates a successful resolution
func Resolved(p string, source ResolutionSource) ScriptResolution {
	return ScriptResolution{Path: p, Found: true, Source: source}
}

// Unresolved creates the "no matching script" resolution
func Unresolved() ScriptResolution {
	return ScriptResolution{Source: SourceNone}
}

// String returns the path, or NoScriptFound when nothing was resolved
func (s ScriptResolution) String() string {
	if !s.Found {
		return NoScriptFound
	}
	return s.Path
}
