// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/casebot/internal/domain/entities"
)

// CaseDataset is a parsed test case dataset
type CaseDataset struct {
	// Columns lists the dataset columns in source order
	Columns []string
	Records []entities.TestCaseRecord
}

// CaseRepository defines the interface for loading the test case catalog
type CaseRepository interface {
	// Location returns where the dataset is read from
	Location() string

	// LoadCases parses the dataset, preserving row order.
	// Returns an error wrapping entities.ErrDatasetNotFound when the dataset is absent.
	LoadCases(ctx context.Context) (*CaseDataset, error)
}

// ArtifactScanner enumerates executable test scripts under a search root
type ArtifactScanner interface {
	// Scan reads every matching file below the root. Unreadable files are skipped.
	Scan(ctx context.Context) (*entities.ArtifactIndex, error)
}
