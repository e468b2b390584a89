package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func TestTodoLifecycle(t *testing.T) {
	dir := t.TempDir()

	id, err := AddTodo(dir, "wire retries", "", types.PriorityHigh)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	pending, err := ListTodos(dir, Filter{Status: string(types.TodoPending)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)

	require.NoError(t, CompleteTodo(dir, id, "done"))

	got, err := GetTodo(dir, id)
	require.NoError(t, err)
	assert.Equal(t, types.TodoCompleted, got.Status)
	assert.Equal(t, "done", got.Outcome)
	require.NotNil(t, got.CompletedAt)

	require.NoError(t, DeleteTodo(dir, id))

	err = CompleteTodo(dir, id, "done again")
	var nf *rhemaerr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateTodoRetainsAbsentFields(t *testing.T) {
	dir := t.TempDir()
	id, err := AddTodo(dir, "title", "original description", types.PriorityLow)
	require.NoError(t, err)

	require.NoError(t, UpdateTodo(dir, id, func(t *types.Todo) {
		t.Status = types.TodoInProgress
	}))

	got, err := GetTodo(dir, id)
	require.NoError(t, err)
	assert.Equal(t, types.TodoInProgress, got.Status)
	assert.Equal(t, "original description", got.Description, "fields absent from the update must be retained")
}

func TestDeleteMissingTodoIsNotFound(t *testing.T) {
	dir := t.TempDir()
	err := DeleteTodo(dir, "does-not-exist")
	var nf *rhemaerr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestScopeDescriptorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := &types.Scope{
		Name:          "service-a",
		ScopeType:     "service",
		Version:       "1.0.0",
		SchemaVersion: "2",
		Dependencies: []types.ScopeDependency{
			{Path: "../lib-b", DependencyType: "runtime"},
		},
	}
	require.NoError(t, WriteScopeDescriptor(dir, s))
	assert.True(t, HasDescriptor(dir))

	got, err := ReadScopeDescriptor(dir)
	require.NoError(t, err)
	assert.Equal(t, s.Name, got.Name)
	assert.Equal(t, s.Dependencies, got.Dependencies)
	assert.Equal(t, dir, got.Path)
}

func TestKnowledgeListFiltersByConfidence(t *testing.T) {
	dir := t.TempDir()
	_, err := AddKnowledge(dir, "low", "content", "general", 2)
	require.NoError(t, err)
	_, err = AddKnowledge(dir, "high", "content", "general", 9)
	require.NoError(t, err)

	entries, err := ListKnowledge(dir, Filter{MinConfidence: 5})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "high", entries[0].Title)
}
