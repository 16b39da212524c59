package gateways

import (
	"context"

	"github.com/ochairo/casebot/internal/domain/entities"
)

// SemanticOracle is an opaque natural-language matcher.
// Implementations return ok=false when they select nothing.
type SemanticOracle interface {
	// SelectRecord picks the record most relevant to query, returning its position in records
	SelectRecord(ctx context.Context, query string, records []entities.TestCaseRecord) (index int, ok bool, err error)

	// SelectArtifact picks the artifact path that implements record
	SelectArtifact(ctx context.Context, record entities.TestCaseRecord, artifacts *entities.ArtifactIndex) (artifactPath string, ok bool, err error)
}
