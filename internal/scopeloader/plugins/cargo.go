// Package plugins holds the built-in scope-loader plugins: Cargo (Rust),
// Node (npm/yarn/pnpm), and Nx. Each is a thin, single-ecosystem adapter
// over internal/scopeloader.Plugin.
package plugins

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/untoldecay/rhema/internal/scopeloader"
)

// CargoPlugin recognizes Cargo.toml manifests, the same BurntSushi/toml
// decode style the teacher uses for its formula TOML conversion
// (cmd/bd/formula.go).
type CargoPlugin struct{}

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies map[string]toml.Primitive `toml:"dependencies"`
	Workspace    *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

func (CargoPlugin) Info() scopeloader.Metadata {
	return scopeloader.Metadata{
		Name:                     "cargo",
		Version:                  "1.0.0",
		Description:              "Detects Rust crates and Cargo workspaces",
		SupportedPackageManagers: []scopeloader.PackageManager{"cargo"},
		Priority:                 100,
	}
}

func (CargoPlugin) CanHandle(path string) bool {
	_, err := os.Stat(filepath.Join(path, "Cargo.toml"))
	return err == nil
}

func (p CargoPlugin) DetectBoundaries(path string) ([]scopeloader.PackageBoundary, error) {
	manifestPath := filepath.Join(path, "Cargo.toml")
	data, err := os.ReadFile(manifestPath) // #nosec G304 -- manifest path is under the scanned repo tree
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var manifest cargoManifest
	if _, err := toml.Decode(string(data), &manifest); err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		deps = append(deps, name)
	}

	boundary := scopeloader.PackageBoundary{
		Path:           path,
		PackageManager: "cargo",
		PackageInfo: scopeloader.PackageInfo{
			Name:    manifest.Package.Name,
			Version: manifest.Package.Version,
		},
		Dependencies: deps,
	}
	boundaries := []scopeloader.PackageBoundary{boundary}

	if manifest.Workspace != nil {
		for _, member := range manifest.Workspace.Members {
			boundaries = append(boundaries, scopeloader.PackageBoundary{
				Path:           filepath.Join(path, member),
				PackageManager: "cargo",
				Metadata:       map[string]string{"workspace_member_of": path},
			})
		}
	}
	return boundaries, nil
}

func (p CargoPlugin) SuggestScopes(boundaries []scopeloader.PackageBoundary) ([]scopeloader.ScopeSuggestion, error) {
	var out []scopeloader.ScopeSuggestion
	for _, b := range boundaries {
		if b.PackageManager != "cargo" {
			continue
		}
		kind := scopeloader.ScopeLibrary
		confidence := 0.7
		reasoning := "Cargo.toml present"
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
			Files:        []string{"Cargo.toml"},
			Dependencies: b.Dependencies,
		})
	}
	return out, nil
}

func (p CargoPlugin) CreateScopes(suggestions []scopeloader.ScopeSuggestion) ([]scopeloader.CreatedScope, error) {
	out := make([]scopeloader.CreatedScope, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, scopeloader.CreatedScope{Name: s.Name, Path: s.Path})
	}
	return out, nil
}

func (p CargoPlugin) LoadContext(scopePath string) (scopeloader.ScopeContext, error) {
	boundaries, err := p.DetectBoundaries(scopePath)
	if err != nil || len(boundaries) == 0 {
		return scopeloader.ScopeContext{}, err
	}
	b := boundaries[0]
	return scopeloader.ScopeContext{
		PackageManager: "cargo",
		Dependencies:   b.Dependencies,
	}, nil
}
