package store

import (
	"os"
	"path/filepath"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

// DescriptorCandidates returns the paths, in read-precedence order, that a
// scope descriptor may live at for scopeDir: {scopeDir}/.rhema/rhema.yaml,
// {scopeDir}/.rhema/scope.yaml, then the legacy {scopeDir}/rhema.yaml
// (read-only per §3/§9).
func DescriptorCandidates(scopeDir string) []string {
	return []string{
		filepath.Join(scopeDir, types.RhemaDir, types.DescriptorPrimary),
		filepath.Join(scopeDir, types.RhemaDir, types.DescriptorLegacy),
		filepath.Join(scopeDir, types.LegacyRootManifest),
	}
}

// ReadScopeDescriptor loads and parses whichever descriptor candidate exists
// first for scopeDir.
func ReadScopeDescriptor(scopeDir string) (*types.Scope, error) {
	for _, path := range DescriptorCandidates(scopeDir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s := &types.Scope{}
		if err := readYAML(path, s); err != nil {
			return nil, err
		}
		s.Path = scopeDir
		s.DescriptorPath = path
		return s, nil
	}
	return nil, &rhemaerr.FileNotFoundError{Path: scopeDir}
}

// WriteScopeDescriptor writes s to the canonical location,
// {scopeDir}/.rhema/rhema.yaml, creating the .rhema directory if needed.
// Existing descriptors are never silently overwritten by callers outside
// this package — see internal/scopeloader for the "never overwrite" rule.
func WriteScopeDescriptor(scopeDir string, s *types.Scope) error {
	path := filepath.Join(scopeDir, types.RhemaDir, types.DescriptorPrimary)
	return withFileLock(path, func() error {
		return atomicWriteYAML(path, s)
	})
}

// HasDescriptor reports whether scopeDir already owns a scope descriptor at
// any recognized location.
func HasDescriptor(scopeDir string) bool {
	for _, path := range DescriptorCandidates(scopeDir) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
