package rhema_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema"
)

func TestPublicAPIRoundTrip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, rhema.WriteScopeDescriptor(root, &rhema.Scope{
		Name:          "widget",
		ScopeType:     "service",
		Version:       "1.0.0",
		SchemaVersion: "1",
	}))

	scopes, err := rhema.DiscoverScopes(root)
	require.NoError(t, err)
	require.Len(t, scopes, 1)
	assert.Empty(t, rhema.ValidateScope(scopes[0]))

	g, err := rhema.BuildGraph(scopes)
	require.NoError(t, err)

	l, err := rhema.GenerateLock(root, scopes, g)
	require.NoError(t, err)
	require.NoError(t, rhema.WriteLock(root, l))

	readBack, err := rhema.ReadLock(root)
	require.NoError(t, err)
	issues, err := rhema.ValidateLock(root, readBack, scopes)
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = rhema.AddTodo(root, "wire retries", "", rhema.PriorityHigh)
	require.NoError(t, err)

	todos, err := rhema.ListTodos(root, rhema.Filter{})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, rhema.PriorityHigh, todos[0].Priority)

	node, err := rhema.Query(root, root, "todos[priority=high]")
	require.NoError(t, err)
	assert.Len(t, node.Content, 1)

	nearest := rhema.NearestScope(filepath.Join(root, "sub"), scopes)
	require.NotNil(t, nearest)
	assert.Equal(t, "widget", nearest.Name)
}
