package scopeloader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

// Service orchestrates a Registry with per-path caching and a minimum
// confidence threshold below which suggestions are never auto-created.
type Service struct {
	registry      *Registry
	ttl           time.Duration
	minConfidence float64

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewService constructs a Service. ttl bounds how long the three-stage
// cache entry for a path remains valid; minConfidence gates auto-create.
func NewService(registry *Registry, ttl time.Duration, minConfidence float64) *Service {
	return &Service{
		registry:      registry,
		ttl:           ttl,
		minConfidence: minConfidence,
		cache:         make(map[string]cacheEntry),
	}
}

// Suggest runs (or returns the cached result of) the boundary-detection and
// suggestion stages for path.
func (s *Service) Suggest(path string) ([]ScopeSuggestion, error) {
	s.mu.Lock()
	if entry, ok := s.cache[path]; ok && time.Now().Before(entry.expiresAt) && entry.suggestions != nil {
		s.mu.Unlock()
		return entry.suggestions, nil
	}
	s.mu.Unlock()

	boundaries, err := s.registry.DetectBoundaries(path)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.registry.SuggestScopes(path, boundaries)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[path] = cacheEntry{
		boundaries:  boundaries,
		suggestions: suggestions,
		expiresAt:   time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return suggestions, nil
}

// AutoCreate materializes every suggestion at or above the service's
// minConfidence threshold into a scope descriptor, skipping any path that
// already owns one — existing descriptors are never overwritten (§4.F).
func (s *Service) AutoCreate(repoRoot, path string) ([]CreatedScope, error) {
	suggestions, err := s.Suggest(path)
	if err != nil {
		return nil, err
	}

	var created []CreatedScope
	for _, sug := range suggestions {
		if sug.Confidence < s.minConfidence {
			continue
		}
		scopeDir := filepath.Join(repoRoot, sug.Path)
		if store.HasDescriptor(scopeDir) {
			continue
		}
		desc := &types.Scope{
			Name:          sug.Name,
			ScopeType:     string(sug.ScopeType),
			SchemaVersion: "2",
			Description:   sug.Reasoning,
			Custom:        metadataToCustom(sug),
		}
		for _, dep := range sug.Dependencies {
			desc.Dependencies = append(desc.Dependencies, types.ScopeDependency{
				Path: dep, DependencyType: "runtime",
			})
		}
		if err := store.WriteScopeDescriptor(scopeDir, desc); err != nil {
			return nil, err
		}
		created = append(created, CreatedScope{Name: sug.Name, Path: sug.Path})
	}

	s.mu.Lock()
	if entry, ok := s.cache[path]; ok {
		entry.created = created
		s.cache[path] = entry
	}
	s.mu.Unlock()

	return created, nil
}

func metadataToCustom(s ScopeSuggestion) map[string]any {
	if len(s.Metadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(s.Metadata)+1)
	for k, v := range s.Metadata {
		out[k] = v
	}
	out["confidence"] = s.Confidence
	return out
}
