package cachemonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/untoldecay/rhema/internal/cache"
)

func TestCheckSemanticFlagsUntaggedLargeEntry(t *testing.T) {
	c := newTestCache(t)
	big := make([]byte, 200)
	require.NoError(t, c.Set("big", big, nil))

	v := NewValidator(c, ValidatorConfig{})
	issues := v.CheckSemantic()

	require.Len(t, issues, 1)
	assert.Equal(t, CheckSemantic, issues[0].Check)
	assert.False(t, issues[0].Repaired)
}

func TestCheckSemanticAutoRepairTruncatesTags(t *testing.T) {
	c := newTestCache(t)
	tags := make([]string, 60)
	for i := range tags {
		tags[i] = "t"
	}
	require.NoError(t, c.Memory().Set(cache.Entry{Key: "k1", Value: []byte("v"), Tags: tags}))

	v := NewValidator(c, ValidatorConfig{AutoRepair: true})
	issues := v.CheckSemantic()

	require.Len(t, issues, 1)
	assert.True(t, issues[0].Repaired)
	assert.Equal(t, RepairRegenerate, issues[0].Repair)

	e, ok := c.Memory().Get("k1")
	require.True(t, ok)
	assert.Len(t, e.Tags, maxTags)
}

func TestCheckConsistencyDetectsMismatchAndSynchronizes(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("v"), []string{"a"}))

	mem, ok := c.Memory().Get("k1")
	require.True(t, ok)
	mem.AccessCount = 99
	require.NoError(t, c.Memory().Set(mem))

	v := NewValidator(c, ValidatorConfig{AutoRepair: true})
	issues, err := v.CheckConsistency()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, RepairSynchronize, issues[0].Repair)

	// CheckConsistency's synchronize repair rewrites the disk entry with the
	// memory access_count of 99, and this assertion's own disk.Get bumps it
	// by one, so it reads back as 100.
	de, ok, err := c.Disk().Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 100, de.AccessCount)
}

func TestCheckChecksumIntactEntryHasNoIssues(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k1", []byte("hello"), nil))

	v := NewValidator(c, ValidatorConfig{})
	issues, err := v.CheckChecksum()
	require.NoError(t, err)
	assert.Empty(t, issues)
}
