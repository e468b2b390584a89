package store

import (
	"sort"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func todosPath(scopeDir string) string { return DocumentPath(scopeDir, types.FileTodos) }

func readTodoFile(scopeDir string) (*types.TodoFile, error) {
	f := &types.TodoFile{}
	if err := readYAML(todosPath(scopeDir), f); err != nil {
		if _, ok := err.(*rhemaerr.FileNotFoundError); ok {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// AddTodo appends a new todo to scopeDir/todos.yaml and returns its id.
func AddTodo(scopeDir, title, description string, priority types.Priority) (string, error) {
	var id string
	err := withFileLock(todosPath(scopeDir), func() error {
		f, err := readTodoFile(scopeDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		id = newID()
		f.Todos = append(f.Todos, types.Todo{
			ID:          id,
			Title:       title,
			Description: description,
			Status:      types.TodoPending,
			Priority:    priority,
			Timestamps:  types.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		return atomicWriteYAML(todosPath(scopeDir), f)
	})
	return id, err
}

// ListTodos returns all todos matching filter, sorted by id for determinism.
func ListTodos(scopeDir string, filter Filter) ([]types.Todo, error) {
	f, err := readTodoFile(scopeDir)
	if err != nil {
		return nil, err
	}
	var out []types.Todo
	for _, t := range f.Todos {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(t.Priority) != filter.Priority {
			continue
		}
		if filter.Assignee != "" && t.Assignee != filter.Assignee {
			continue
		}
		if !matchesTags(t.Tags, filter.Tag) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateTodo locates a todo by id and overwrites present fields in updates,
// retaining absent ones. Sets UpdatedAt. Returns NotFoundError if id is
// missing.
func UpdateTodo(scopeDir, id string, updates func(*types.Todo)) error {
	return withFileLock(todosPath(scopeDir), func() error {
		f, err := readTodoFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Todos {
			if f.Todos[i].ID == id {
				updates(&f.Todos[i])
				f.Todos[i].UpdatedAt = time.Now().UTC()
				return atomicWriteYAML(todosPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "todo", ID: id}
	})
}

// CompleteTodo marks a todo completed with the given outcome, setting
// CompletedAt.
func CompleteTodo(scopeDir, id, outcome string) error {
	return UpdateTodo(scopeDir, id, func(t *types.Todo) {
		t.Status = types.TodoCompleted
		t.Outcome = outcome
		now := time.Now().UTC()
		t.CompletedAt = &now
	})
}

// DeleteTodo removes a todo by id. Returns NotFoundError if missing.
func DeleteTodo(scopeDir, id string) error {
	return withFileLock(todosPath(scopeDir), func() error {
		f, err := readTodoFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Todos {
			if f.Todos[i].ID == id {
				f.Todos = append(f.Todos[:i], f.Todos[i+1:]...)
				return atomicWriteYAML(todosPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "todo", ID: id}
	})
}

// GetTodo looks up a single todo by id.
func GetTodo(scopeDir, id string) (*types.Todo, error) {
	f, err := readTodoFile(scopeDir)
	if err != nil {
		return nil, err
	}
	for i := range f.Todos {
		if f.Todos[i].ID == id {
			return &f.Todos[i], nil
		}
	}
	return nil, &rhemaerr.NotFoundError{Kind: "todo", ID: id}
}
