package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarmap/scholarmap/pkg/identity"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "janesmith", "janesmith", 1.0},
		{"empty both", "", "", 1.0},
		{"empty one", "janesmith", "", 0.0},
		{"one edit in ten", "janeasmith", "janebsmith", 0.9},
		{"disjoint", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, identity.Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestIndexMatchFuzzy(t *testing.T) {
	idx := identity.NewIndex()
	require.True(t, idx.Add("janeasmith", 1))

	// One substitution in ten runes is 0.90 similarity, above the cutoff.
	id, ok := idx.Match("janebsmith")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	// Two substitutions is 0.80, below the cutoff.
	_, ok = idx.Match("janebsmitx")
	assert.False(t, ok)
}

func TestIndexMatchExactBeatsFuzzy(t *testing.T) {
	idx := identity.NewIndex()
	require.True(t, idx.Add("janeasmith", 1))
	require.True(t, idx.Add("janebsmith", 2))

	// An exact hit wins even though entry 1 is a close fuzzy candidate.
	id, ok := idx.Match("janebsmith")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestIndexMatchTieKeepsFirstEncountered(t *testing.T) {
	idx := identity.NewIndex()
	require.True(t, idx.Add("janeasmith", 1))
	require.True(t, idx.Add("janecsmith", 2))

	// Equidistant candidates: the earlier insertion wins.
	id, ok := idx.Match("janebsmith")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestIndexAddRejections(t *testing.T) {
	idx := identity.NewIndex()

	assert.False(t, idx.Add("", 1))
	assert.False(t, idx.Add("maindirectory", 2))
	assert.True(t, idx.Add("janesmith", 3))
	assert.True(t, idx.Add("janesmith", 4), "re-adding updates the id in place")
	assert.Equal(t, 1, idx.Len())

	id, ok := idx.Match("janesmith")
	require.True(t, ok)
	assert.Equal(t, int64(4), id)
}
