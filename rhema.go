// Package rhema provides a minimal public API for embedding the
// repository-anchored context protocol in Go-based tooling.
//
// Most callers should use the rhema CLI (cmd/rhema). This package exports
// only the essential types and functions needed for programs that want to
// discover scopes, read or write documents, and run queries without shelling
// out to the CLI.
package rhema

import (
	"github.com/untoldecay/rhema/internal/graph"
	"github.com/untoldecay/rhema/internal/lock"
	"github.com/untoldecay/rhema/internal/query"
	"github.com/untoldecay/rhema/internal/schema"
	"github.com/untoldecay/rhema/internal/scope"
	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"

	"gopkg.in/yaml.v3"
)

// Core document and scope types from internal/types.
type (
	Scope           = types.Scope
	ScopeDependency = types.ScopeDependency
	ImpactClass     = types.ImpactClass
	Todo            = types.Todo
	TodoStatus      = types.TodoStatus
	Priority        = types.Priority
	Decision        = types.Decision
	DecisionStatus  = types.DecisionStatus
	Alternative     = types.Alternative
	Knowledge       = types.Knowledge
	Pattern         = types.Pattern
	Usage           = types.Usage
	Convention      = types.Convention
)

// Priority constants.
const (
	PriorityLow      = types.PriorityLow
	PriorityMedium   = types.PriorityMedium
	PriorityHigh     = types.PriorityHigh
	PriorityCritical = types.PriorityCritical
)

// TodoStatus constants.
const (
	TodoPending    = types.TodoPending
	TodoInProgress = types.TodoInProgress
	TodoBlocked    = types.TodoBlocked
	TodoCompleted  = types.TodoCompleted
	TodoCancelled  = types.TodoCancelled
)

// ImpactClass constants.
const (
	ImpactLow      = types.ImpactLow
	ImpactMedium   = types.ImpactMedium
	ImpactHigh     = types.ImpactHigh
	ImpactCritical = types.ImpactCritical
)

// Graph is the dependency graph built from a repository's scope tree.
type Graph = graph.Graph

// Lock mirrors rhema.lock's YAML structure.
type Lock = lock.Lock

// Issue is a single rhema.lock validation finding.
type Issue = lock.Issue

// DiscoverScopes walks repoRoot collecting every scope it finds.
func DiscoverScopes(repoRoot string) ([]*Scope, error) {
	return scope.Discover(repoRoot)
}

// NearestScope selects the scope owning filePath, or nil if none does.
func NearestScope(filePath string, scopes []*Scope) *Scope {
	return scope.FindNearestScope(filePath, scopes)
}

// BuildGraph constructs the dependency graph for scopes, detecting cycles.
func BuildGraph(scopes []*Scope) (*Graph, error) {
	return graph.Build(scopes)
}

// ValidateScope checks a scope descriptor against component A's rules.
func ValidateScope(s *Scope) []error {
	return schema.ValidateScope(s)
}

// GenerateLock computes a fresh lock from the current on-disk state of
// scopes.
func GenerateLock(repoRoot string, scopes []*Scope, g *Graph) (*Lock, error) {
	return lock.Generate(repoRoot, scopes, g)
}

// WriteLock serializes l to {repoRoot}/rhema.lock.
func WriteLock(repoRoot string, l *Lock) error {
	return lock.Write(repoRoot, l)
}

// ReadLock reads {repoRoot}/rhema.lock.
func ReadLock(repoRoot string) (*Lock, error) {
	return lock.Read(repoRoot)
}

// ValidateLock compares l against the current state of scopes.
func ValidateLock(repoRoot string, l *Lock, scopes []*Scope) ([]Issue, error) {
	return lock.Validate(repoRoot, l, scopes)
}

// Filter narrows a document listing by status and tag.
type Filter = store.Filter

// WriteScopeDescriptor writes s as scopeDir's scope descriptor.
func WriteScopeDescriptor(scopeDir string, s *Scope) error {
	return store.WriteScopeDescriptor(scopeDir, s)
}

// AddTodo appends a todo to scopeDir's todo file.
func AddTodo(scopeDir, title, description string, priority Priority) (string, error) {
	return store.AddTodo(scopeDir, title, description, priority)
}

// ListTodos returns scopeDir's todos matching filter.
func ListTodos(scopeDir string, filter store.Filter) ([]Todo, error) {
	return store.ListTodos(scopeDir, filter)
}

// Query runs a CQL string (e.g. "todos[priority=high]") across repoRoot's
// scope tree, returning matches as a YAML sequence node.
func Query(repoRoot, cwd, cql string) (*yaml.Node, error) {
	return query.Execute(repoRoot, cwd, cql)
}
