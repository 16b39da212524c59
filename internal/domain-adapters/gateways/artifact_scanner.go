package gateways

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
)

const (
	// DefaultArtifactPattern matches the test scripts the CI runner executes
	DefaultArtifactPattern = "*.py"

	scanConcurrency = 8
)

// ArtifactScanner locates executable test scripts below a search root
type ArtifactScanner struct {
	root    string
	pattern string
	logger  interfaces.Logger
}

// NewArtifactScanner creates a scanner. pattern is a filepath.Match glob applied to base names.
func NewArtifactScanner(root, pattern string, logger interfaces.Logger) *ArtifactScanner {
	if pattern == "" {
		pattern = DefaultArtifactPattern
	}
	return &ArtifactScanner{
		root:    root,
		pattern: pattern,
		logger:  interfaces.OrNoOp(logger),
	}
}

// Scan walks the root recursively and reads every matching file.
// Unreadable entries are logged and skipped; a missing root yields an empty index.
func (s *ArtifactScanner) Scan(ctx context.Context) (*entities.ArtifactIndex, error) {
	if _, err := filepath.Match(s.pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", s.pattern, err)
	}

	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		s.logger.Warn("artifact search root does not exist", interfaces.F("root", s.root))
		return entities.NewArtifactIndex(s.root, nil), nil
	}

	candidates, err := s.findCandidates()
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		files = make(map[string]string, len(candidates))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			//nolint:gosec // G304: path comes from walking the configured search root
			data, err := os.ReadFile(c.fsPath)
			if err != nil {
				s.logger.Warn("skipping unreadable artifact",
					interfaces.F("path", c.fsPath), interfaces.F("error", err))
				return nil
			}
			mu.Lock()
			files[c.key] = string(data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("artifact scan interrupted: %w", err)
	}

	s.logger.Debug("artifact scan finished",
		interfaces.F("root", s.root),
		interfaces.F("pattern", s.pattern),
		interfaces.F("artifacts", len(files)),
	)
	return entities.NewArtifactIndex(s.root, files), nil
}

type scanCandidate struct {
	fsPath string
	key    string
}

// findCandidates walks the root and returns files whose base name matches the pattern
func (s *ArtifactScanner) findCandidates() ([]scanCandidate, error) {
	var candidates []scanCandidate
	rootKey := filepath.ToSlash(filepath.Clean(s.root))

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.root {
				return err
			}
			s.logger.Warn("skipping unreadable path", interfaces.F("path", p), interfaces.F("error", err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		matched, _ := filepath.Match(s.pattern, d.Name())
		if !matched {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		candidates = append(candidates, scanCandidate{
			fsPath: p,
			key:    path.Join(rootKey, filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return candidates, nil
}
