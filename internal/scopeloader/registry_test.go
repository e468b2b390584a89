package scopeloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPlugin struct {
	name       string
	priority   uint32
	handles    bool
	suggestion ScopeSuggestion
}

func (s stubPlugin) Info() Metadata {
	return Metadata{Name: s.name, Priority: s.priority}
}
func (s stubPlugin) CanHandle(path string) bool { return s.handles }
func (s stubPlugin) DetectBoundaries(path string) ([]PackageBoundary, error) {
	return []PackageBoundary{{Path: path}}, nil
}
func (s stubPlugin) SuggestScopes(boundaries []PackageBoundary) ([]ScopeSuggestion, error) {
	return []ScopeSuggestion{s.suggestion}, nil
}
func (s stubPlugin) CreateScopes(suggestions []ScopeSuggestion) ([]CreatedScope, error) {
	return nil, nil
}
func (s stubPlugin) LoadContext(scopePath string) (ScopeContext, error) {
	return ScopeContext{}, nil
}

func TestApplicableOrdersByPriorityThenName(t *testing.T) {
	r := NewRegistry()
	r.Register(stubPlugin{name: "low", priority: 10, handles: true})
	r.Register(stubPlugin{name: "high", priority: 100, handles: true})
	r.Register(stubPlugin{name: "skipped", priority: 200, handles: false})

	applicable := r.Applicable("/repo")
	require := assert.New(t)
	require.Len(applicable, 2)
	require.Equal("high", applicable[0].Info().Name)
	require.Equal("low", applicable[1].Info().Name)
}

func TestSuggestScopesSortsByConfidenceThenPriorityThenName(t *testing.T) {
	r := NewRegistry()
	r.Register(stubPlugin{name: "a", priority: 10, handles: true,
		suggestion: ScopeSuggestion{Name: "b-scope", Confidence: 0.9}})
	r.Register(stubPlugin{name: "b", priority: 200, handles: true,
		suggestion: ScopeSuggestion{Name: "a-scope", Confidence: 0.9}})

	suggestions, err := r.SuggestScopes("/repo", nil)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, "a-scope", suggestions[0].Name)
}
