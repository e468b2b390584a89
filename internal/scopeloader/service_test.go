package scopeloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/store"
)

func TestAutoCreateSkipsExistingDescriptorAndBelowThreshold(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, store.WriteScopeDescriptor(root+"/existing", nil))

	r := NewRegistry()
	r.Register(stubPlugin{name: "p", priority: 1, handles: true, suggestion: ScopeSuggestion{
		Name: "existing", Path: "existing", Confidence: 0.9,
	}})
	r.Register(stubPlugin{name: "q", priority: 1, handles: true, suggestion: ScopeSuggestion{
		Name: "too-low", Path: "too-low", Confidence: 0.1,
	}})

	svc := NewService(r, time.Minute, 0.5)
	created, err := svc.AutoCreate(root, root)
	require.NoError(t, err)
	assert.Empty(t, created, "existing descriptor and below-threshold suggestion must both be skipped")
}

func TestAutoCreateWritesAboveThreshold(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry()
	r.Register(stubPlugin{name: "p", priority: 1, handles: true, suggestion: ScopeSuggestion{
		Name: "new-scope", Path: "new-scope", Confidence: 0.9, ScopeType: ScopeLibrary,
	}})

	svc := NewService(r, time.Minute, 0.5)
	created, err := svc.AutoCreate(root, root)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "new-scope", created[0].Name)
	assert.True(t, store.HasDescriptor(root+"/new-scope"))
}
