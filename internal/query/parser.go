// Package query implements component J: a uniform query facade over the
// in-memory union of every scope's parsed documents. It is new domain
// logic with no teacher precedent (no example repo in the retrieved pack
// parses a query language), built from a small recursive-descent parser
// over the CQL subset spec.md describes, producing gopkg.in/yaml.v3
// *yaml.Node results — the one dependency already pervasive throughout
// the rest of the pack.
package query

import (
	"strings"

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// Kind names one of the five document collections a scope may own.
type Kind string

const (
	KindTodos       Kind = "todos"
	KindDecisions   Kind = "decisions"
	KindKnowledge   Kind = "knowledge"
	KindPatterns    Kind = "patterns"
	KindConventions Kind = "conventions"
)

func (k Kind) valid() bool {
	switch k {
	case KindTodos, KindDecisions, KindKnowledge, KindPatterns, KindConventions:
		return true
	default:
		return false
	}
}

// scopeNearest is the special scope-selector token "." meaning "the scope
// nearest the caller's working directory", per the nearest-scope rule
// component C already implements.
const scopeNearest = "."

// Predicate is one `field=value` equality test inside a bracket filter.
type Predicate struct {
	Field string
	Value string
}

// Query is a parsed CQL expression: `[scope.]kind[field=value,...]`.
type Query struct {
	Raw        string
	Scope      string // "" means every scope; "." means nearest-scope
	Kind       Kind
	Predicates []Predicate
}

// Parse parses a CQL string such as "todos[status=pending]" or
// "billing.decisions[status=approved,tags=payments]" into a Query. An empty
// scope segment, as in ".todos", selects the nearest scope.
// Unrecognized shapes return *rhemaerr.InvalidQueryError.
func Parse(cql string) (*Query, error) {
	raw := cql
	cql = strings.TrimSpace(cql)
	if cql == "" {
		return nil, &rhemaerr.InvalidQueryError{Query: raw, Message: "empty query"}
	}

	path := cql
	var filterBody string
	if i := strings.IndexByte(cql, '['); i >= 0 {
		if !strings.HasSuffix(cql, "]") {
			return nil, &rhemaerr.InvalidQueryError{Query: raw, Message: "unterminated '[' filter"}
		}
		path = cql[:i]
		filterBody = cql[i+1 : len(cql)-1]
	}

	segments := strings.Split(path, ".")
	var q Query
	q.Raw = raw
	switch len(segments) {
	case 1:
		q.Kind = Kind(segments[0])
	case 2:
		q.Scope = segments[0]
		if q.Scope == "" {
			q.Scope = scopeNearest
		}
		q.Kind = Kind(segments[1])
	default:
		return nil, &rhemaerr.InvalidQueryError{Query: raw, Message: "path must be 'kind' or 'scope.kind'"}
	}
	if !q.Kind.valid() {
		return nil, &rhemaerr.InvalidQueryError{Query: raw, Message: "unknown document kind " + string(q.Kind)}
	}

	if filterBody != "" {
		preds, err := parsePredicates(filterBody)
		if err != nil {
			return nil, &rhemaerr.InvalidQueryError{Query: raw, Message: err.Error()}
		}
		q.Predicates = preds
	}
	return &q, nil
}

func parsePredicates(body string) ([]Predicate, error) {
	var preds []Predicate
	for _, clause := range strings.Split(body, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		eq := strings.IndexByte(clause, '=')
		if eq < 0 {
			return nil, &parseError{"filter clause missing '=': " + clause}
		}
		field := strings.TrimSpace(clause[:eq])
		value := strings.TrimSpace(clause[eq+1:])
		if field == "" {
			return nil, &parseError{"filter clause missing field name: " + clause}
		}
		preds = append(preds, Predicate{Field: field, Value: value})
	}
	return preds, nil
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
