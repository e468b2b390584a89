package scopeloader

import "sort"

// Registry holds every registered plugin and selects the applicable ones
// for a path.
type Registry struct {
	plugins []Plugin
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a plugin, keeping the registry's internal order stable;
// applicability ordering is computed fresh on each call to Applicable.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
}

// Applicable returns every registered plugin for which CanHandle(path) is
// true, sorted by descending priority then ascending name for determinism.
func (r *Registry) Applicable(path string) []Plugin {
	var matched []Plugin
	for _, p := range r.plugins {
		if p.CanHandle(path) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		mi, mj := matched[i].Info(), matched[j].Info()
		if mi.Priority != mj.Priority {
			return mi.Priority > mj.Priority
		}
		return mi.Name < mj.Name
	})
	return matched
}

// DetectBoundaries runs every applicable plugin's DetectBoundaries over
// path in priority order and merges the results.
func (r *Registry) DetectBoundaries(path string) ([]PackageBoundary, error) {
	var all []PackageBoundary
	for _, p := range r.Applicable(path) {
		boundaries, err := p.DetectBoundaries(path)
		if err != nil {
			return nil, err
		}
		all = append(all, boundaries...)
	}
	return all, nil
}

// SuggestScopes invokes SuggestScopes on every applicable plugin against
// the merged boundaries, then sorts the combined suggestions by confidence
// desc, then originating-plugin priority desc, then suggestion name asc —
// the exact tie-break order named in §4.F.
func (r *Registry) SuggestScopes(path string, boundaries []PackageBoundary) ([]ScopeSuggestion, error) {
	type ranked struct {
		suggestion ScopeSuggestion
		priority   uint32
	}
	var all []ranked
	for _, p := range r.Applicable(path) {
		suggestions, err := p.SuggestScopes(boundaries)
		if err != nil {
			return nil, err
		}
		priority := p.Info().Priority
		for _, s := range suggestions {
			all = append(all, ranked{suggestion: s, priority: priority})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].suggestion.Confidence != all[j].suggestion.Confidence {
			return all[i].suggestion.Confidence > all[j].suggestion.Confidence
		}
		if all[i].priority != all[j].priority {
			return all[i].priority > all[j].priority
		}
		return all[i].suggestion.Name < all[j].suggestion.Name
	})
	out := make([]ScopeSuggestion, len(all))
	for i, r := range all {
		out[i] = r.suggestion
	}
	return out, nil
}
