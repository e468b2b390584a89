// Package scopeloader implements component F: a plugin system that turns
// package-manager artifacts (Cargo.toml, package.json, nx.json) into scope
// suggestions. The plugin/registry/priority-ordering split is grounded on
// the teacher's formula search-path layering (cmd/bd/formula.go: project,
// user, and orchestrator search paths merged with earlier paths shadowing
// later ones) generalized here to plugins merged by descending priority
// instead of by path precedence.
package scopeloader

import "time"

// PackageManager identifies the ecosystem a plugin understands.
type PackageManager string

// ScopeKind classifies a suggested scope's architectural role.
type ScopeKind string

const (
	ScopeLibrary     ScopeKind = "library"
	ScopeApplication ScopeKind = "application"
	ScopePackage     ScopeKind = "package"
	ScopeWorkspace   ScopeKind = "workspace"
	ScopeMonorepo    ScopeKind = "monorepo"
)

// PackageBoundary is a single package-manager-recognized unit detected
// under a path.
type PackageBoundary struct {
	Path           string
	PackageManager PackageManager
	PackageInfo    PackageInfo
	Dependencies   []string
	Scripts        map[string]string
	Metadata       map[string]string
}

// PackageInfo is the subset of manifest fields every plugin can populate.
type PackageInfo struct {
	Name    string
	Version string
}

// ScopeSuggestion is a candidate scope a plugin proposes from one or more
// boundaries.
type ScopeSuggestion struct {
	Name         string
	Path         string
	ScopeType    ScopeKind
	Confidence   float64
	Reasoning    string
	Files        []string
	Dependencies []string
	Metadata     map[string]string
}

// Metadata describes a plugin's identity and priority.
type Metadata struct {
	Name                     string
	Version                  string
	Description              string
	SupportedPackageManagers []PackageManager
	Priority                 uint32
}

// Plugin is the core interface every scope-loader plugin implements.
// Secondary capabilities (configurable, toggleable, cacheable, lifecycle)
// are deliberately not modeled as separate optional interfaces here: Go
// favors small, fully-implemented interfaces over the source's facet
// system, and none of the example repos model capability facets this way.
type Plugin interface {
	Info() Metadata
	CanHandle(path string) bool
	DetectBoundaries(path string) ([]PackageBoundary, error)
	SuggestScopes(boundaries []PackageBoundary) ([]ScopeSuggestion, error)
	CreateScopes(suggestions []ScopeSuggestion) ([]CreatedScope, error)
	LoadContext(scopePath string) (ScopeContext, error)
}

// CreatedScope is the result of materializing a suggestion onto disk.
type CreatedScope struct {
	Name string
	Path string
}

// ScopeContext is whatever a plugin can recover about a scope's package
// metadata after creation, used to enrich a scope's descriptor.
type ScopeContext struct {
	PackageManager PackageManager
	Dependencies   []string
	Metadata       map[string]string
}

// cacheEntry is the unit the orchestrating Service memoizes per path, per
// §4.F's three-stage cache (boundaries, suggestions, scopes).
type cacheEntry struct {
	boundaries  []PackageBoundary
	suggestions []ScopeSuggestion
	created     []CreatedScope
	expiresAt   time.Time
}
