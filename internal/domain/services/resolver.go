package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
)

// minKeywordLength is the length a title token must exceed to be matched against filenames
const minKeywordLength = 3

// ScriptResolver maps a catalog record to an executable artifact path
type ScriptResolver struct {
	artifacts *entities.ArtifactIndex
	oracle    gateways.SemanticOracle
	logger    interfaces.Logger
}

// NewScriptResolver creates a resolver over the catalog's artifact index.
// oracle may be nil, in which case the filename heuristic is used.
func NewScriptResolver(catalog *Catalog, oracle gateways.SemanticOracle, logger interfaces.Logger) *ScriptResolver {
	return &ScriptResolver{
		artifacts: catalog.Artifacts(),
		oracle:    oracle,
		logger:    interfaces.OrNoOp(logger),
	}
}

// Resolve returns the record's script. "Not found" is a normal result, never an error.
func (r *ScriptResolver) Resolve(ctx context.Context, record entities.TestCaseRecord) entities.ScriptResolution {
	if record.HasScript() {
		return entities.Resolved(record.ScriptPath, entities.SourceCatalog)
	}

	r.logger.Info("script path missing, searching artifacts",
		interfaces.F("title", record.Title),
		interfaces.F("artifacts", r.artifacts.Len()),
	)

	if r.oracle != nil {
		if res, ok := r.resolveWithOracle(ctx, record); ok {
			return res
		}
	}
	return r.resolveByFilename(record)
}

func (r *ScriptResolver) resolveWithOracle(ctx context.Context, record entities.TestCaseRecord) (entities.ScriptResolution, bool) {
	p, ok, err := r.oracle.SelectArtifact(ctx, record, r.artifacts)
	if err != nil {
		r.logger.Warn("oracle script lookup failed, falling back to filename matching",
			interfaces.F("title", record.Title), interfaces.F("error", err))
		return entities.ScriptResolution{}, false
	}
	if !ok {
		return entities.Unresolved(), true
	}
	if !r.artifacts.Contains(p) {
		r.logger.Warn("oracle selected unknown artifact", interfaces.F("path", p))
		return entities.Unresolved(), true
	}
	return entities.Resolved(p, entities.SourceOracle), true
}

func (r *ScriptResolver) resolveByFilename(record entities.TestCaseRecord) entities.ScriptResolution {
	keywords := TitleKeywords(record.Title)
	if len(keywords) == 0 {
		return entities.Unresolved()
	}

	for _, p := range r.artifacts.Paths() {
		name := strings.ToLower(entities.Filename(p))
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return entities.Resolved(p, entities.SourceHeuristic)
			}
		}
	}
	return entities.Unresolved()
}

// TitleKeywords returns the lower-cased title words longer than three characters
func TitleKeywords(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minKeywordLength {
			keywords = append(keywords, f)
		}
	}
	return keywords
}
