package identity

import (
	"github.com/agnivade/levenshtein"
)

// MatchThreshold is the minimum similarity ratio for a fuzzy match to be
// accepted. Two names below this ratio are treated as distinct identities.
const MatchThreshold = 0.85

// Index maps normalized names to canonical record identifiers while
// preserving first-encountered order, so fuzzy ties resolve
// deterministically.
type Index struct {
	order []string
	ids   map[string]int64
}

// NewIndex creates an empty identity index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]int64)}
}

// Add registers a normalized name with its canonical record ID. Navigation
// titles and empty keys are rejected. Re-adding an existing key keeps the
// original insertion position and updates the ID.
func (idx *Index) Add(normalized string, id int64) bool {
	if normalized == "" || IsNavigationTitle(normalized) {
		return false
	}
	if _, exists := idx.ids[normalized]; !exists {
		idx.order = append(idx.order, normalized)
	}
	idx.ids[normalized] = id
	return true
}

// Len returns the number of indexed identities.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Match resolves a normalized name against the index. Exact key lookup
// always wins; otherwise the nearest neighbour by similarity ratio is
// accepted only at or above MatchThreshold. Ties between equally-similar
// candidates go to the first-encountered key. The boolean reports whether a
// match was found; a miss means the caller holds a new identity.
func (idx *Index) Match(normalized string) (int64, bool) {
	if normalized == "" || IsNavigationTitle(normalized) {
		return 0, false
	}

	if id, ok := idx.ids[normalized]; ok {
		return id, true
	}

	bestKey := ""
	bestRatio := 0.0
	for _, key := range idx.order {
		ratio := Similarity(normalized, key)
		if ratio > bestRatio {
			bestRatio = ratio
			bestKey = key
		}
	}

	if bestKey == "" || bestRatio < MatchThreshold {
		return 0, false
	}
	return idx.ids[bestKey], true
}

// Similarity computes the normalized Levenshtein ratio between two strings:
// 1 - distance/maxLen, in [0.0, 1.0]. Two empty strings are identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
