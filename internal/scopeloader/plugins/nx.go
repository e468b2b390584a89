package plugins

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/untoldecay/rhema/internal/scopeloader"
)

// NxPlugin recognizes Nx monorepos (nx.json at the root, project.json per
// project) and runs with higher priority than NodePlugin so a repo's Nx
// project boundaries are detected before the generic npm-workspace reading
// of the same package.json files.
type NxPlugin struct{}

type nxJSON struct {
	NpmScope string `json:"npmScope"`
}

type nxProjectJSON struct {
	Name        string            `json:"name"`
	ProjectType string            `json:"projectType"`
	Targets     map[string]any    `json:"targets"`
	Tags        []string          `json:"tags"`
	Metadata    map[string]string `json:"metadata"`
}

func (NxPlugin) Info() scopeloader.Metadata {
	return scopeloader.Metadata{
		Name:                     "nx",
		Version:                  "1.0.0",
		Description:              "Detects Nx monorepos and their project boundaries",
		SupportedPackageManagers: []scopeloader.PackageManager{"nx"},
		Priority:                 200,
	}
}

func (NxPlugin) CanHandle(path string) bool {
	_, err := os.Stat(filepath.Join(path, "nx.json"))
	return err == nil
}

func (p NxPlugin) DetectBoundaries(path string) ([]scopeloader.PackageBoundary, error) {
	rootData, err := os.ReadFile(filepath.Join(path, "nx.json")) // #nosec G304 -- manifest path is under the scanned repo tree
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var root nxJSON
	if err := json.Unmarshal(rootData, &root); err != nil {
		return nil, err
	}

	boundaries := []scopeloader.PackageBoundary{{
		Path:           path,
		PackageManager: "nx",
		Metadata:       map[string]string{"npm_scope": root.NpmScope},
	}}

	matches, _ := filepath.Glob(filepath.Join(path, "*", "*", "project.json"))
	moreMatches, _ := filepath.Glob(filepath.Join(path, "*", "project.json"))
	matches = append(matches, moreMatches...)
	for _, projectPath := range matches {
		data, err := os.ReadFile(projectPath) // #nosec G304 -- path from a glob rooted at the scanned repo tree
		if err != nil {
			continue
		}
		var project nxProjectJSON
		if err := json.Unmarshal(data, &project); err != nil {
			continue
		}
		dir := filepath.Dir(projectPath)
		name := project.Name
		if name == "" {
			name = filepath.Base(dir)
		}
		boundaries = append(boundaries, scopeloader.PackageBoundary{
			Path:           dir,
			PackageManager: "nx",
			PackageInfo:    scopeloader.PackageInfo{Name: name},
			Metadata: map[string]string{
				"project_type": project.ProjectType,
				"monorepo":     path,
			},
		})
	}
	return boundaries, nil
}

func (p NxPlugin) SuggestScopes(boundaries []scopeloader.PackageBoundary) ([]scopeloader.ScopeSuggestion, error) {
	var out []scopeloader.ScopeSuggestion
	for _, b := range boundaries {
		if b.PackageManager != "nx" {
			continue
		}
		if _, isRoot := b.Metadata["npm_scope"]; isRoot {
			out = append(out, scopeloader.ScopeSuggestion{
				Name:       filepath.Base(b.Path),
				Path:       b.Path,
				ScopeType:  scopeloader.ScopeMonorepo,
				Confidence: 0.9,
				Reasoning:  "nx.json present at repository root",
				Files:      []string{"nx.json"},
			})
			continue
		}
		kind := scopeloader.ScopeApplication
		if b.Metadata["project_type"] == "library" {
			kind = scopeloader.ScopeLibrary
		}
		out = append(out, scopeloader.ScopeSuggestion{
			Name:       b.PackageInfo.Name,
			Path:       b.Path,
			ScopeType:  kind,
			Confidence: 0.85,
			Reasoning:  "Nx project.json declares projectType " + b.Metadata["project_type"],
			Files:      []string{"project.json"},
			Metadata:   b.Metadata,
		})
	}
	return out, nil
}

func (p NxPlugin) CreateScopes(suggestions []scopeloader.ScopeSuggestion) ([]scopeloader.CreatedScope, error) {
	out := make([]scopeloader.CreatedScope, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, scopeloader.CreatedScope{Name: s.Name, Path: s.Path})
	}
	return out, nil
}

func (p NxPlugin) LoadContext(scopePath string) (scopeloader.ScopeContext, error) {
	return scopeloader.ScopeContext{PackageManager: "nx"}, nil
}
