package query

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/scope"
	"github.com/untoldecay/rhema/internal/store"
	"github.com/untoldecay/rhema/internal/types"
)

// Execute parses and runs cql against every scope discovered under
// repoRoot, or a single scope when the query names one (or selects the
// scope nearest cwd via "."), returning the matches as a YAML sequence
// node. Its callers are the `rhema query` command and rhema.Query; no other
// CLI command goes through it, and the CLI has no interactive shell.
func Execute(repoRoot, cwd, cql string) (*yaml.Node, error) {
	q, err := Parse(cql)
	if err != nil {
		return nil, err
	}

	scopes, err := scope.Discover(repoRoot)
	if err != nil {
		return nil, err
	}

	// Scope paths are repo-relative, so cwd is compared in the same form.
	if rel, err := filepath.Rel(repoRoot, cwd); err == nil {
		cwd = rel
	}
	targets, err := selectScopes(q, scopes, cwd)
	if err != nil {
		return nil, err
	}

	result := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, s := range targets {
		docs, err := loadDocs(filepath.Join(repoRoot, s.Path), q.Kind)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			ok, err := matchesAll(doc, q.Predicates)
			if err != nil {
				return nil, &rhemaerr.InvalidQueryError{Query: q.Raw, Message: err.Error()}
			}
			if !ok {
				continue
			}
			var node yaml.Node
			if err := node.Encode(doc); err != nil {
				return nil, err
			}
			result.Content = append(result.Content, &node)
		}
	}
	return result, nil
}

func selectScopes(q *Query, scopes []*types.Scope, cwd string) ([]*types.Scope, error) {
	switch q.Scope {
	case "":
		return scopes, nil
	case scopeNearest:
		nearest := scope.FindNearestScope(cwd, scopes)
		if nearest == nil {
			return nil, &rhemaerr.InvalidQueryError{Query: q.Raw, Message: "no scope found nearest " + cwd}
		}
		return []*types.Scope{nearest}, nil
	default:
		for _, s := range scopes {
			if s.Name == q.Scope {
				return []*types.Scope{s}, nil
			}
		}
		return nil, &rhemaerr.InvalidQueryError{Query: q.Raw, Message: "unknown scope " + q.Scope}
	}
}

// loadDocs returns every document of kind owned by scopeDir as an opaque
// slice of `any`, so a single generic predicate matcher can serve all five
// document kinds.
func loadDocs(scopeDir string, kind Kind) ([]any, error) {
	switch kind {
	case KindTodos:
		items, err := store.ListTodos(scopeDir, store.Filter{})
		return toAny(items, err)
	case KindDecisions:
		items, err := store.ListDecisions(scopeDir, store.Filter{})
		return toAny(items, err)
	case KindKnowledge:
		items, err := store.ListKnowledge(scopeDir, store.Filter{})
		return toAny(items, err)
	case KindPatterns:
		items, err := store.ListPatterns(scopeDir, store.Filter{})
		return toAny(items, err)
	case KindConventions:
		items, err := store.ListConventions(scopeDir, store.Filter{})
		return toAny(items, err)
	default:
		return nil, fmt.Errorf("unhandled document kind %q", kind)
	}
}

func toAny[T any](items []T, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}

// matchesAll reports whether doc satisfies every predicate. Fields are
// matched by their YAML tag name via a round trip through yaml.v3, so the
// same matcher serves every document struct without per-kind field
// switches. A "tags" predicate matches if the value appears anywhere in
// the list rather than requiring an exact whole-list match.
func matchesAll(doc any, preds []Predicate) (bool, error) {
	if len(preds) == 0 {
		return true, nil
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return false, err
	}
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return false, err
	}
	for _, p := range preds {
		v, ok := fields[p.Field]
		if !ok {
			return false, nil
		}
		if list, isList := v.([]any); isList {
			if !containsString(list, p.Value) {
				return false, nil
			}
			continue
		}
		if fmt.Sprint(v) != p.Value {
			return false, nil
		}
	}
	return true, nil
}

func containsString(list []any, want string) bool {
	for _, item := range list {
		if fmt.Sprint(item) == want {
			return true
		}
	}
	return false
}
