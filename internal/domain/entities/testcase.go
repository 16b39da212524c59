package entities

import "strings"

// Standard dataset columns. Every other column lands in TestCaseRecord.Attributes.
const (
	ColumnTitle       = "title"
	ColumnDescription = "description"
	ColumnScriptPath  = "script_path"
)

// TestCaseRecord is one row of the test case catalog
type TestCaseRecord struct {
	// Index is the row position in the dataset and identifies the record for one load
	Index       int
	Title       string
	Description string
	// ScriptPath is the authoritative artifact mapping; empty when unknown
	ScriptPath string
	attributes map[string]string
}

// NewTestCaseRecord creates a record from a dataset row. The attribute map is copied.
func NewTestCaseRecord(index int, title, description, scriptPath string, attributes map[string]string) TestCaseRecord {
	rec := TestCaseRecord{
		Index:       index,
		Title:       title,
		Description: description,
		ScriptPath:  strings.TrimSpace(scriptPath),
	}
	if len(attributes) > 0 {
		rec.attributes = make(map[string]string, len(attributes))
		for k, v := range attributes {
			rec.attributes[k] = v
		}
	}
	return rec
}

// HasScript reports whether the catalog already maps this record to an artifact
func (r TestCaseRecord) HasScript() bool {
	return r.ScriptPath != ""
}

// Attribute returns an extra catalog column by name
func (r TestCaseRecord) Attribute(name string) (string, bool) {
	v, ok := r.attributes[name]
	return v, ok
}

// Attributes returns a copy of the extra catalog columns
func (r TestCaseRecord) Attributes() map[string]string {
	out := make(map[string]string, len(r.attributes))
	for k, v := range r.attributes {
		out[k] = v
	}
	return out
}

// Fields returns the record as a flat column map, including the standard columns
func (r TestCaseRecord) Fields() map[string]string {
	out := r.Attributes()
	out[ColumnTitle] = r.Title
	out[ColumnDescription] = r.Description
	out[ColumnScriptPath] = r.ScriptPath
	return out
}
