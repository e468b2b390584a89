package plugins

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/untoldecay/rhema/internal/scopeloader"
)

// NodePlugin recognizes package.json manifests and npm/yarn/pnpm
// workspaces.
type NodePlugin struct{}

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Workspaces      json.RawMessage   `json:"workspaces"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

func (NodePlugin) Info() scopeloader.Metadata {
	return scopeloader.Metadata{
		Name:                     "node",
		Version:                  "1.0.0",
		Description:              "Detects Node packages and npm/yarn/pnpm workspaces",
		SupportedPackageManagers: []scopeloader.PackageManager{"npm", "yarn", "pnpm"},
		Priority:                 100,
	}
}

func (NodePlugin) CanHandle(path string) bool {
	_, err := os.Stat(filepath.Join(path, "package.json"))
	return err == nil
}

func (p NodePlugin) DetectBoundaries(path string) ([]scopeloader.PackageBoundary, error) {
	manifestPath := filepath.Join(path, "package.json")
	data, err := os.ReadFile(manifestPath) // #nosec G304 -- manifest path is under the scanned repo tree
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		deps = append(deps, name)
	}

	meta := map[string]string{"package_manager": "npm"}
	if manifest.Private {
		meta["workspace_root"] = "true"
	}

	boundaries := []scopeloader.PackageBoundary{{
		Path:           path,
		PackageManager: "npm",
		PackageInfo: scopeloader.PackageInfo{
			Name:    manifest.Name,
			Version: manifest.Version,
		},
		Dependencies: deps,
		Scripts:      manifest.Scripts,
		Metadata:     meta,
	}}

	if len(manifest.Workspaces) > 0 {
		var patterns []string
		if err := json.Unmarshal(manifest.Workspaces, &patterns); err != nil {
			var wrapped struct {
				Packages []string `json:"packages"`
			}
			if err := json.Unmarshal(manifest.Workspaces, &wrapped); err == nil {
				patterns = wrapped.Packages
			}
		}
		for _, pattern := range patterns {
			members, _ := filepath.Glob(filepath.Join(path, pattern))
			for _, member := range members {
				if _, err := os.Stat(filepath.Join(member, "package.json")); err != nil {
					continue
				}
				boundaries = append(boundaries, scopeloader.PackageBoundary{
					Path:           member,
					PackageManager: "npm",
					Metadata:       map[string]string{"workspace_member_of": path},
				})
			}
		}
	}
	return boundaries, nil
}

func (p NodePlugin) SuggestScopes(boundaries []scopeloader.PackageBoundary) ([]scopeloader.ScopeSuggestion, error) {
	var out []scopeloader.ScopeSuggestion
	for _, b := range boundaries {
		if b.PackageManager != "npm" {
			continue
		}
		kind := scopeloader.ScopeLibrary
		confidence := 0.65
		reasoning := "package.json present"
		if _, ok := b.Metadata["workspace_root"]; ok {
			kind = scopeloader.ScopeWorkspace
			confidence = 0.8
			reasoning = "package.json declares a private workspace root"
		}
		if member, ok := b.Metadata["workspace_member_of"]; ok {
			kind = scopeloader.ScopePackage
			confidence = 0.85
			reasoning = "workspace member of " + member
		}
		name := b.PackageInfo.Name
		if name == "" {
			name = filepath.Base(b.Path)
		}
		out = append(out, scopeloader.ScopeSuggestion{
			Name:         name,
			Path:         b.Path,
			ScopeType:    kind,
			Confidence:   confidence,
			Reasoning:    reasoning,
			Files:        []string{"package.json"},
			Dependencies: b.Dependencies,
			Metadata:     b.Metadata,
		})
	}
	return out, nil
}

func (p NodePlugin) CreateScopes(suggestions []scopeloader.ScopeSuggestion) ([]scopeloader.CreatedScope, error) {
	out := make([]scopeloader.CreatedScope, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, scopeloader.CreatedScope{Name: s.Name, Path: s.Path})
	}
	return out, nil
}

func (p NodePlugin) LoadContext(scopePath string) (scopeloader.ScopeContext, error) {
	boundaries, err := p.DetectBoundaries(scopePath)
	if err != nil || len(boundaries) == 0 {
		return scopeloader.ScopeContext{}, err
	}
	b := boundaries[0]
	return scopeloader.ScopeContext{PackageManager: "npm", Dependencies: b.Dependencies}, nil
}
