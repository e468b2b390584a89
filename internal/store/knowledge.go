package store

import (
	"sort"
	"time"

	"github.com/untoldecay/rhema/internal/rhemaerr"
	"github.com/untoldecay/rhema/internal/types"
)

func knowledgePath(scopeDir string) string { return DocumentPath(scopeDir, types.FileKnowledge) }

func readKnowledgeFile(scopeDir string) (*types.KnowledgeFile, error) {
	f := &types.KnowledgeFile{}
	if err := readYAML(knowledgePath(scopeDir), f); err != nil {
		if _, ok := err.(*rhemaerr.FileNotFoundError); ok {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// AddKnowledge appends a new knowledge entry and returns its id.
func AddKnowledge(scopeDir, title, content, category string, confidence int) (string, error) {
	var id string
	err := withFileLock(knowledgePath(scopeDir), func() error {
		f, err := readKnowledgeFile(scopeDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		id = newID()
		f.Entries = append(f.Entries, types.Knowledge{
			ID:         id,
			Title:      title,
			Content:    content,
			Category:   category,
			Confidence: confidence,
			Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		return atomicWriteYAML(knowledgePath(scopeDir), f)
	})
	return id, err
}

// ListKnowledge returns knowledge entries matching filter, sorted by id.
func ListKnowledge(scopeDir string, filter Filter) ([]types.Knowledge, error) {
	f, err := readKnowledgeFile(scopeDir)
	if err != nil {
		return nil, err
	}
	var out []types.Knowledge
	for _, k := range f.Entries {
		if filter.Category != "" && k.Category != filter.Category {
			continue
		}
		if !matchesTags(k.Tags, filter.Tag) {
			continue
		}
		if k.Confidence < filter.MinConfidence {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateKnowledge applies updates to the entry with the given id.
func UpdateKnowledge(scopeDir, id string, updates func(*types.Knowledge)) error {
	return withFileLock(knowledgePath(scopeDir), func() error {
		f, err := readKnowledgeFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Entries {
			if f.Entries[i].ID == id {
				updates(&f.Entries[i])
				f.Entries[i].UpdatedAt = time.Now().UTC()
				return atomicWriteYAML(knowledgePath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "knowledge", ID: id}
	})
}

// DeleteKnowledge removes an entry by id.
func DeleteKnowledge(scopeDir, id string) error {
	return withFileLock(knowledgePath(scopeDir), func() error {
		f, err := readKnowledgeFile(scopeDir)
		if err != nil {
			return err
		}
		for i := range f.Entries {
			if f.Entries[i].ID == id {
				f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
				return atomicWriteYAML(knowledgePath(scopeDir), f)
			}
		}
		return &rhemaerr.NotFoundError{Kind: "knowledge", ID: id}
	})
}

// GetKnowledge looks up a single entry by id.
func GetKnowledge(scopeDir, id string) (*types.Knowledge, error) {
	f, err := readKnowledgeFile(scopeDir)
	if err != nil {
		return nil, err
	}
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			return &f.Entries[i], nil
		}
	}
	return nil, &rhemaerr.NotFoundError{Kind: "knowledge", ID: id}
}
