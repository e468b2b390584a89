package query

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeScope(t, root, "a", nil)
	writeScope(t, root, "b", nil)

	_, err := store.AddTodo(filepath.Join(root, "a"), "wire retries", "", types.PriorityHigh)
	require.NoError(t, err)
	_, err = store.AddTodo(filepath.Join(root, "a"), "write docs", "", types.PriorityLow)
	require.NoError(t, err)
	id, err := store.AddTodo(filepath.Join(root, "b"), "ship release", "", types.PriorityMedium)
	require.NoError(t, err)
	require.NoError(t, store.CompleteTodo(filepath.Join(root, "b"), id, "done"))

	return root
}

func writeScope(t *testing.T, root, name string, deps []types.ScopeDependency) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, store.WriteScopeDescriptor(dir, &types.Scope{
		Name:          name,
		ScopeType:     "service",
		Version:       "1.0.0",
		SchemaVersion: "1",
		Dependencies:  deps,
	}))
}

func TestParseScopeAndFilter(t *testing.T) {
	q, err := Parse("b.todos[status=completed]")
	require.NoError(t, err)
	assert.Equal(t, "b", q.Scope)
	assert.Equal(t, KindTodos, q.Kind)
	require.Len(t, q.Predicates, 1)
	assert.Equal(t, Predicate{Field: "status", Value: "completed"}, q.Predicates[0])
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse("widgets[status=pending]")
	assert.Error(t, err)
}

func TestParseRejectsUnterminatedFilter(t *testing.T) {
	_, err := Parse("todos[status=pending")
	assert.Error(t, err)
}

func TestExecuteAcrossAllScopes(t *testing.T) {
	root := setupRepo(t)
	node, err := Execute(root, root, "todos[priority=high]")
	require.NoError(t, err)
	assert.Len(t, node.Content, 1)
}

func TestExecuteScopedToOneScope(t *testing.T) {
	root := setupRepo(t)
	node, err := Execute(root, root, "b.todos[status=completed]")
	require.NoError(t, err)
	require.Len(t, node.Content, 1)

	var got types.Todo
	require.NoError(t, node.Content[0].Decode(&got))
	assert.Equal(t, "ship release", got.Title)
}

func TestExecuteUnknownScopeIsInvalidQuery(t *testing.T) {
	root := setupRepo(t)
	_, err := Execute(root, root, "nope.todos")
	assert.Error(t, err)
}
