// Package services implements domain business logic and use cases.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/repositories"
)

// Catalog is the loaded, read-only set of test case records plus the artifact index.
// It is safe for concurrent use.
type Catalog struct {
	location  string
	columns   []string
	records   []entities.TestCaseRecord
	artifacts *entities.ArtifactIndex
}

// LoadCatalog reads the dataset and scans the artifact root once.
// A missing dataset is fatal; artifact scan problems only shrink the index.
func LoadCatalog(ctx context.Context, repo repositories.CaseRepository, scanner repositories.ArtifactScanner, logger interfaces.Logger) (*Catalog, error) {
	logger = interfaces.OrNoOp(logger)

	dataset, err := repo.LoadCases(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrDatasetNotFound) {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		return nil, fmt.Errorf("failed to load test cases from %s: %w", repo.Location(), err)
	}

	artifacts, err := scanner.Scan(ctx)
	if err != nil {
		logger.Warn("artifact scan failed, continuing with empty index", interfaces.F("error", err))
		artifacts = entities.NewArtifactIndex("", nil)
	}

	logger.Info("catalog loaded",
		interfaces.F("dataset", repo.Location()),
		interfaces.F("records", len(dataset.Records)),
		interfaces.F("artifacts", artifacts.Len()),
	)

	return NewCatalog(repo.Location(), dataset.Columns, dataset.Records, artifacts), nil
}

// NewCatalog assembles a catalog from already-loaded parts. Slices are copied.
func NewCatalog(location string, columns []string, records []entities.TestCaseRecord, artifacts *entities.ArtifactIndex) *Catalog {
	if artifacts == nil {
		artifacts = entities.NewArtifactIndex("", nil)
	}
	c := &Catalog{
		location:  location,
		columns:   append([]string(nil), columns...),
		records:   append([]entities.TestCaseRecord(nil), records...),
		artifacts: artifacts,
	}
	return c
}

// Location returns the dataset the catalog was loaded from
func (c *Catalog) Location() string {
	return c.location
}

// Columns returns the dataset column names in source order
func (c *Catalog) Columns() []string {
	return append([]string(nil), c.columns...)
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.records)
}

// Record returns the record at row position i
func (c *Catalog) Record(i int) (entities.TestCaseRecord, bool) {
	if i < 0 || i >= len(c.records) {
		return entities.TestCaseRecord{}, false
	}
	return c.records[i], true
}

// Records returns all records in catalog order
func (c *Catalog) Records() []entities.TestCaseRecord {
	return append([]entities.TestCaseRecord(nil), c.records...)
}

// Artifacts returns the artifact index snapshot
func (c *Catalog) Artifacts() *entities.ArtifactIndex {
	return c.artifacts
}
