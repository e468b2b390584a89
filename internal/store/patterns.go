package store

import (
	"sort"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func patternsPath(scopeDir string) string { return DocumentPath(scopeDir, types.FilePatterns) }

func readPatternFile(scopeDir string) (*types.PatternFile, error) {
	f := &types.PatternFile{}
	if err := readYAML(patternsPath(scopeDir), f); err != nil {
		if _, ok := err.(*rhemaerr.FileNotFoundError); ok {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// AddPattern appends a new pattern and returns its id.
func AddPattern(scopeDir, title, description string, usage types.Usage, effectiveness int) (string, error) {
	var id string
	err := withFileLock(patternsPath(scopeDir), func() error {
		f, err := readPatternFile(scopeDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		id = newID()
		f.Patterns = append(f.Patterns, types.Pattern{
			ID:            id,
			Title:         title,
			Description:   description,
			Usage:         usage,
			Effectiveness: effectiveness,
			Timestamps:    types.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		return atomicWriteYAML(patternsPath(scopeDir), f)
	})
	return id, err
}

// ListPatterns returns patterns matching filter, sorted by id.
func ListPatterns(scopeDir string, filter Filter) ([]types.Pattern, error) {
	f, err := readPatternFile(scopeDir)
	if err != nil {
		return nil, err
	}
	var out []types.Pattern
	for _, p := range f.Patterns {
		if filter.Status != "" && string(p.Usage) != filter.Status {
			continue
		}
		if !matchesTags(p.Tags, filter.Tag) {
			continue
		}
		if p.Effectiveness < filter.MinEffectiveness {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdatePattern applies updates to the pattern with the given id.
func UpdatePattern(scopeDir, id string, updates func(*types.Pattern)) error {
	return withFileLock(patternsPath(scopeDir), func() error {
		f, err := readPatternFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Patterns {
			if f.Patterns[i].ID == id {
				updates(&f.Patterns[i])
				f.Patterns[i].UpdatedAt = time.Now().UTC()
				return atomicWriteYAML(patternsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "pattern", ID: id}
	})
}

// DeletePattern removes a pattern by id.
func DeletePattern(scopeDir, id string) error {
	return withFileLock(patternsPath(scopeDir), func() error {
		f, err := readPatternFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Patterns {
			if f.Patterns[i].ID == id {
				f.Patterns = append(f.Patterns[:i], f.Patterns[i+1:]...)
				return atomicWriteYAML(patternsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "pattern", ID: id}
	})
}

// GetPattern looks up a single pattern by id.
func GetPattern(scopeDir, id string) (*types.Pattern, error) {
	f, err := readPatternFile(scopeDir)
	if err != nil {
		return nil, err
	}
	for i := range f.Patterns {
		if f.Patterns[i].ID == id {
			return &f.Patterns[i], nil
		}
	}
	return nil, &rhemaerr.NotFoundError{Kind: "pattern", ID: id}
}
