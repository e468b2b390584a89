package store

import (
	"sort"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func decisionsPath(scopeDir string) string { return DocumentPath(scopeDir, types.FileDecisions) }

func readDecisionFile(scopeDir string) (*types.DecisionFile, error) {
	f := &types.DecisionFile{}
	if err := readYAML(decisionsPath(scopeDir), f); err != nil {
		if _, ok := err.(*rhemaerr.FileNotFoundError); ok {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// AddDecision appends a new decision and returns its id.
func AddDecision(scopeDir, title, description string) (string, error) {
	var id string
	err := withFileLock(decisionsPath(scopeDir), func() error {
		f, err := readDecisionFile(scopeDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		id = newID()
		f.Decisions = append(f.Decisions, types.Decision{
			ID:          id,
			Title:       title,
			Description: description,
			Status:      types.DecisionProposed,
			Timestamps:  types.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		return atomicWriteYAML(decisionsPath(scopeDir), f)
	})
	return id, err
}

// ListDecisions returns decisions matching filter, sorted by id.
func ListDecisions(scopeDir string, filter Filter) ([]types.Decision, error) {
	f, err := readDecisionFile(scopeDir)
	if err != nil {
		return nil, err
	}
	var out []types.Decision
	for _, d := range f.Decisions {
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		if !matchesTags(d.Tags, filter.Tag) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateDecision applies updates to the decision with the given id.
func UpdateDecision(scopeDir, id string, updates func(*types.Decision)) error {
	return withFileLock(decisionsPath(scopeDir), func() error {
		f, err := readDecisionFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Decisions {
			if f.Decisions[i].ID == id {
				updates(&f.Decisions[i])
				f.Decisions[i].UpdatedAt = time.Now().UTC()
				return atomicWriteYAML(decisionsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "decision", ID: id}
	})
}

// DeleteDecision removes a decision by id.
func DeleteDecision(scopeDir, id string) error {
	return withFileLock(decisionsPath(scopeDir), func() error {
		f, err := readDecisionFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Decisions {
			if f.Decisions[i].ID == id {
				f.Decisions = append(f.Decisions[:i], f.Decisions[i+1:]...)
				return atomicWriteYAML(decisionsPath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "decision", ID: id}
	})
}

// GetDecision looks up a single decision by id.
func GetDecision(scopeDir, id string) (*types.Decision, error) {
	f, err := readDecisionFile(scopeDir)
	if err != nil {
		return nil, err
	}
	for i := range f.Decisions {
		if f.Decisions[i].ID == id {
			return &f.Decisions[i], nil
		}
	}
	return nil, &rhemaerr.NotFoundError{Kind: "decision", ID: id}
}
