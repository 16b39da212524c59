package services

import (
	"context"
	"strings"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
)

// MatchMode selects the matching strategy
type MatchMode string

// Supported match modes
const (
	MatchModeKeyword MatchMode = "keyword"
	MatchModeOracle  MatchMode = "oracle"
)

// stopWords are filler words that carry no intent
var stopWords = map[string]struct{}{
	"make": {},
	"me":   {},
	"a":    {},
}

// Matcher turns a free-text query into at most one catalog record
type Matcher interface {
	Search(ctx context.Context, query string) (entities.TestCaseRecord, bool)
}

// NewMatcher returns the matcher for mode. Oracle mode without an oracle degrades to keyword.
func NewMatcher(catalog *Catalog, mode MatchMode, oracle gateways.SemanticOracle, logger interfaces.Logger) Matcher {
	logger = interfaces.OrNoOp(logger)
	keyword := NewKeywordMatcher(catalog, logger)

	if mode != MatchModeOracle {
		return keyword
	}
	if oracle == nil {
		logger.Warn("oracle match mode requested but no oracle configured, using keyword matching")
		return keyword
	}
	return &OracleMatcher{catalog: catalog, oracle: oracle, fallback: keyword, logger: logger}
}

// KeywordMatcher returns the first record whose title or description contains a query token
type KeywordMatcher struct {
	catalog *Catalog
	logger  interfaces.Logger
}

// NewKeywordMatcher creates a keyword-substring matcher
func NewKeywordMatcher(catalog *Catalog, logger interfaces.Logger) *KeywordMatcher {
	return &KeywordMatcher{catalog: catalog, logger: interfaces.OrNoOp(logger)}
}

// Search scans records in catalog order. First match wins; there is no scoring.
func (m *KeywordMatcher) Search(_ context.Context, query string) (entities.TestCaseRecord, bool) {
	tokens := QueryTokens(query)
	m.logger.Debug("searching catalog", interfaces.F("query", query), interfaces.F("tokens", tokens))
	if len(tokens) == 0 {
		return entities.TestCaseRecord{}, false
	}

	for _, rec := range m.catalog.records {
		text := strings.ToLower(rec.Title + " " + rec.Description)
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				return rec, true
			}
		}
	}
	return entities.TestCaseRecord{}, false
}

// QueryTokens lower-cases and splits a query, dropping stop words
func QueryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// OracleMatcher delegates the selection to a semantic oracle
type OracleMatcher struct {
	catalog  *Catalog
	oracle   gateways.SemanticOracle
	fallback Matcher
	logger   interfaces.Logger
}

// Search asks the oracle; on oracle failure the keyword matcher answers
func (m *OracleMatcher) Search(ctx context.Context, query string) (entities.TestCaseRecord, bool) {
	// Stop-word-only queries never match, whichever strategy runs
	if len(QueryTokens(query)) == 0 {
		return entities.TestCaseRecord{}, false
	}

	idx, ok, err := m.oracle.SelectRecord(ctx, query, m.catalog.Records())
	if err != nil {
		m.logger.Warn("oracle search failed, falling back to keyword matching",
			interfaces.F("query", query), interfaces.F("error", err))
		return m.fallback.Search(ctx, query)
	}
	if !ok {
		return entities.TestCaseRecord{}, false
	}

	rec, exists := m.catalog.Record(idx)
	if !exists {
		m.logger.Warn("oracle selected unknown record", interfaces.F("index", idx))
		return entities.TestCaseRecord{}, false
	}
	return rec, true
}
