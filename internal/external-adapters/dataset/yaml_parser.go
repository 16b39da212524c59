package dataset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/casebot/internal/domain/interfaces/repositories"
)

// YAMLParser parses a dataset written as a YAML sequence of mappings
type YAMLParser struct{}

// NewYAMLParser creates a new YAML parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse decodes the sequence, keeping key order of first appearance as the column list
func (p *YAMLParser) Parse(data []byte) (*repositories.CaseDataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("dataset must be a list of test cases")
	}

	ds := &repositories.CaseDataset{}
	seen := make(map[string]bool)

	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("test case %d is not a mapping", i)
		}
		row := make(map[string]string, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key := item.Content[j].Value
			val := item.Content[j+1]
			if val.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("test case %d: column %q must be a scalar", i, key)
			}
			if val.Tag == "!!null" {
				row[key] = ""
			} else {
				row[key] = val.Value
			}
			if !seen[key] {
				seen[key] = true
				ds.Columns = append(ds.Columns, key)
			}
		}
		ds.Records = append(ds.Records, buildRecord(i, row))
	}

	if len(ds.Records) > 0 {
		if err := requireColumns(ds.Columns); err != nil {
			return nil, err
		}
	}
	return ds, nil
}
