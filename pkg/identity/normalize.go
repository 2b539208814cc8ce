// Package identity canonicalizes faculty display names and resolves noisy
// name variants against a pool of known canonical identities. It is the
// deduplication front door: every candidate record passes through Normalize
// and an Index lookup before it may reach the store.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// titlePrefixes are honorific tokens stripped from the front of a display
// name before normalization.
var titlePrefixes = []string{"dr.", "dr", "professor", "prof.", "prof"}

// foldDiacritics strips combining marks so "José" and "Jose" normalize to
// the same key.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a display name for identity comparison: the
// leading title token is stripped, diacritics are folded, all non-alphabetic
// characters are removed, whitespace is collapsed, and the lowercased words
// are concatenated into a single token.
//
//	Normalize("Dr. Jane A. Smith") == "janeasmith"
//
// Empty or whitespace-only input yields the empty string, which callers must
// treat as unmatchable.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// Strip one leading title token.
	lower := strings.ToLower(name)
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) && r < 128:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			// Dropped: words are concatenated into one token.
		default:
			// Punctuation and non-ASCII leftovers are dropped.
		}
	}
	return b.String()
}
