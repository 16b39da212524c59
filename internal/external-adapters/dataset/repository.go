// Package dataset provides file-backed test case repositories (CSV and YAML).
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces/repositories"
)

// Parser turns dataset bytes into records
type Parser interface {
	Parse(data []byte) (*repositories.CaseDataset, error)
}

// FileRepository implements repositories.CaseRepository for a dataset file
type FileRepository struct {
	path   string
	parser Parser
}

// NewFileRepository creates a repository, choosing the parser by file extension.
// .yml and .yaml are parsed as YAML, everything else as CSV.
func NewFileRepository(path string) *FileRepository {
	var parser Parser = NewCSVParser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		parser = NewYAMLParser()
	}
	return &FileRepository{path: path, parser: parser}
}

// Location returns the dataset path
func (r *FileRepository) Location() string {
	return r.path
}

// LoadCases reads and parses the dataset file
func (r *FileRepository) LoadCases(_ context.Context) (*repositories.CaseDataset, error) {
	//nolint:gosec // G304: dataset path comes from configuration
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entities.ErrDatasetNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read dataset %s: %w", r.path, err)
	}

	ds, err := r.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", r.path, err)
	}
	return ds, nil
}

// buildRecord splits a row into standard columns and the attribute bag
func buildRecord(index int, row map[string]string) entities.TestCaseRecord {
	attrs := make(map[string]string, len(row))
	for k, v := range row {
		switch k {
		case entities.ColumnTitle, entities.ColumnDescription, entities.ColumnScriptPath:
			continue
		}
		attrs[k] = v
	}
	return entities.NewTestCaseRecord(index,
		row[entities.ColumnTitle],
		row[entities.ColumnDescription],
		row[entities.ColumnScriptPath],
		attrs,
	)
}

func requireColumns(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	for _, c := range []string{entities.ColumnTitle, entities.ColumnDescription} {
		if !have[c] {
			return fmt.Errorf("missing required column %q", c)
		}
	}
	return nil
}
