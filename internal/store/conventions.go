package store

import (
	"sort"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func conventionsPath(scopeDir string) string { return DocumentPath(scopeDir, types.FileConventions) }

func readConventionFile(scopeDir string) (*types.ConventionFile, error) {
	f := &types.ConventionFile{}
	if err := readYAML(conventionsPath(scopeDir), f); err != nil {
		if _, ok := err.(*rhemaerr.FileNotFoundError); ok {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// AddConvention appends a new convention and returns its id.
func AddConvention(scopeDir, title, description string, usage types.Usage) (string, error) {
	var id string
	err := withFileLock(conventionsPath(scopeDir), func() error {
		f, err := readConventionFile(scopeDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		id = newID()
		f.Conventions = append(f.Conventions, types.Convention{
			ID:          id,
			Title:       title,
			Description: description,
			Usage:       usage,
			Timestamps:  types.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		return atomicWriteYAML(conventionsPath(scopeDir), f)
	})
	return id, err
}

// ListConventions returns conventions matching filter, sorted by id.
func ListConventions(scopeDir string, filter Filter) ([]types.Convention, error) {
	f, err := readConventionFile(scopeDir)
	if err != nil {
		return nil, err
	}
	var out []types.Convention
	for _, c := range f.Conventions {
		if filter.Status != "" && string(c.Usage) != filter.Status {
			continue
		}
		if !matchesTags(c.Tags, filter.Tag) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateConvention applies updates to the convention with the given id.
func UpdateConvention(scopeDir, id string, updates func(*types.Convention)) error {
	return withFileLock(conventionsPath(scopeDir), func() error {
		f, err := readConventionFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Conventions {
			if f.Conventions[i].ID == id {
				updates(&f.Conventions[i])
				f.Conventions[i].UpdatedAt = time.Now().UTC()
				return atomicWriteYAML(conventionsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "convention", ID: id}
	})
}

// DeleteConvention removes a convention by id.
func DeleteConvention(scopeDir, id string) error {
	return withFileLock(conventionsPath(scopeDir), func() error {
		f, err := readConventionFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Conventions {
			if f.Conventions[i].ID == id {
				f.Conventions = append(f.Conventions[:i], f.Conventions[i+1:]...)
				return atomicWriteYAML(conventionsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "convention", ID: id}
	})
}

// GetConvention looks up a single convention by id.
func GetConvention(scopeDir, id string) (*types.Convention, error) {
	f, err := readConventionFile(scopeDir)
	if err != nil {
		return nil, err
	}
	for i := range f.Conventions {
		if f.Conventions[i].ID == id {
			return &f.Conventions[i], nil
		}
	}
	return nil, &rhemaerr.NotFoundError{Kind: "convention", ID: id}
}
