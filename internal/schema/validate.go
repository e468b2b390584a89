// Package schema implements component A: typed validation and schema
// migration for every Rhema document kind. The validator composes small
// rule functions with Chain, generalizing the teacher's
// internal/validation.Chain(...IssueValidator) pattern from a single
// document kind (Issue) to Rhema's five document kinds plus the scope
// descriptor itself.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

// Bounds from §4.A.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxContentLen     = 10000
	MinScore          = 1
	MaxScore          = 10
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Rule validates one aspect of a document and appends any failures it finds
// to errs. Rules never stop the chain — callers accumulate every failure so
// batch validation always completes (§7 propagation policy).
type Rule func(errs *[]error)

// Chain runs every rule and returns the accumulated validation errors, or
// nil if none fired.
func Chain(rules ...Rule) []error {
	var errs []error
	for _, r := range rules {
		r(&errs)
	}
	return errs
}

func requireNonEmpty(field, rule, value string) Rule {
	return func(errs *[]error) {
		if strings.TrimSpace(value) == "" {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: rule, Field: field})
		}
	}
}

func maxLen(field, rule, value string, limit int) Rule {
	return func(errs *[]error) {
		if len(value) > limit {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: rule, Field: field})
		}
	}
}

func validID(field, id string) Rule {
	return func(errs *[]error) {
		if !idPattern.MatchString(id) {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "id_format", Field: field})
		}
	}
}

func boundedScore(field string, value int, hasValue bool) Rule {
	return func(errs *[]error) {
		if !hasValue {
			return
		}
		if value < MinScore || value > MaxScore {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "score_bounds", Field: field})
		}
	}
}

func temporalOrder(field string, ts types.Timestamps) Rule {
	return func(errs *[]error) {
		if ts.CreatedAt.After(ts.UpdatedAt) {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "temporal_order", Field: field + ".created_at"})
		}
		if ts.CompletedAt != nil && ts.UpdatedAt.After(*ts.CompletedAt) {
			*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "temporal_order", Field: field + ".updated_at"})
		}
	}
}

// ValidateScope validates a scope descriptor.
func ValidateScope(s *types.Scope) []error {
	return Chain(
		requireNonEmpty("name", "required_string", s.Name),
		requireNonEmpty("scope_type", "required_string", s.ScopeType),
		requireNonEmpty("version", "required_string", s.Version),
		func(errs *[]error) {
			if v := strings.TrimSpace(s.Version); v != "" && !semver.IsValid("v"+strings.TrimPrefix(v, "v")) {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "semver", Field: "version"})
			}
		},
		func(errs *[]error) {
			for _, dep := range s.Dependencies {
				if strings.TrimSpace(dep.Path) == "" {
					*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "required_string", Field: "dependencies[].path"})
				}
				if strings.TrimSpace(dep.DependencyType) == "" {
					*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "required_string", Field: "dependencies[].dependency_type"})
				}
			}
		},
	)
}

// ValidateTodo validates a single Todo entry.
func ValidateTodo(t *types.Todo) []error {
	return Chain(
		validID("id", t.ID),
		requireNonEmpty("title", "required_string", t.Title),
		maxLen("title", "max_length", t.Title, MaxTitleLen),
		maxLen("description", "max_length", t.Description, MaxDescriptionLen),
		func(errs *[]error) {
			if !t.Status.IsValid() {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "enum", Field: "status"})
			}
			if t.Priority != "" && !t.Priority.IsValid() {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "enum", Field: "priority"})
			}
		},
		temporalOrder("todo", t.Timestamps),
	)
}

// ValidateDecision validates a single Decision entry.
func ValidateDecision(d *types.Decision) []error {
	return Chain(
		validID("id", d.ID),
		requireNonEmpty("title", "required_string", d.Title),
		maxLen("title", "max_length", d.Title, MaxTitleLen),
		maxLen("description", "max_length", d.Description, MaxDescriptionLen),
		func(errs *[]error) {
			if !d.Status.IsValid() {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "enum", Field: "status"})
			}
		},
		temporalOrder("decision", d.Timestamps),
	)
}

// ValidateKnowledge validates a single Knowledge entry.
func ValidateKnowledge(k *types.Knowledge) []error {
	return Chain(
		validID("id", k.ID),
		requireNonEmpty("title", "required_string", k.Title),
		maxLen("title", "max_length", k.Title, MaxTitleLen),
		requireNonEmpty("content", "required_string", k.Content),
		maxLen("content", "max_length", k.Content, MaxContentLen),
		boundedScore("confidence", k.Confidence, k.Confidence != 0),
		temporalOrder("knowledge", k.Timestamps),
	)
}

// ValidatePattern validates a single Pattern entry.
func ValidatePattern(p *types.Pattern) []error {
	return Chain(
		validID("id", p.ID),
		requireNonEmpty("title", "required_string", p.Title),
		maxLen("title", "max_length", p.Title, MaxTitleLen),
		maxLen("description", "max_length", p.Description, MaxDescriptionLen),
		func(errs *[]error) {
			if !p.Usage.IsValid() {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "enum", Field: "usage"})
			}
		},
		boundedScore("effectiveness", p.Effectiveness, p.Effectiveness != 0),
		temporalOrder("pattern", p.Timestamps),
	)
}

// ValidateConvention validates a single Convention entry.
func ValidateConvention(c *types.Convention) []error {
	return Chain(
		validID("id", c.ID),
		requireNonEmpty("title", "required_string", c.Title),
		maxLen("title", "max_length", c.Title, MaxTitleLen),
		maxLen("description", "max_length", c.Description, MaxDescriptionLen),
		func(errs *[]error) {
			if !c.Usage.IsValid() {
				*errs = append(*errs, &rhemaerr.ValidationFailedError{Rule: "enum", Field: "usage"})
			}
		},
		temporalOrder("convention", c.Timestamps),
	)
}

// ValidateUniqueIDs checks that every id in a collection is unique,
// returning one ValidationFailedError per duplicate beyond the first.
func ValidateUniqueIDs(field string, ids []string) []error {
	seen := make(map[string]bool, len(ids))
	var errs []error
	for _, id := range ids {
		if seen[id] {
			errs = append(errs, &rhemaerr.ValidationFailedError{Rule: "unique_id", Field: fmt.Sprintf("%s[%s]", field, id)})
			continue
		}
		seen[id] = true
	}
	return errs
}
