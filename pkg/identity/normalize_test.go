package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarmap/scholarmap/pkg/identity"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jane Smith", "janesmith"},
		{"title and initial", "Dr. Jane A. Smith", "janeasmith"},
		{"professor title", "Professor Jane Smith", "janesmith"},
		{"prof abbreviation", "Prof. Jane Smith", "janesmith"},
		{"hyphenated", "Mary-Jane O'Brien", "maryjaneobrien"},
		{"diacritics", "José García", "josegarcia"},
		{"extra whitespace", "  Jane   Smith  ", "janesmith"},
		{"digits stripped", "Jane Smith 2024", "janesmith"},
		{"empty", "", ""},
		{"only punctuation", "...", ""},
		{"title without name keeps letters", "Dr.", "dr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.Normalize(tt.in))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// Variants of the same person collapse to one key.
	variants := []string{
		"Jane A. Smith",
		"Dr. Jane A. Smith",
		"Professor Jane A. Smith",
		"jane a smith",
		"JANE A SMITH",
	}

	want := identity.Normalize(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, identity.Normalize(v), "variant %q", v)
	}
}

func TestNormalizeKeepsDistinctPeopleApart(t *testing.T) {
	assert.NotEqual(t, identity.Normalize("Jane Smith"), identity.Normalize("John Smith"))
}

func TestIsNavigationTitle(t *testing.T) {
	for _, title := range []string{"Faculty Directory", "Main Directory", "Home", "Faculty", "Graduate Handbook", "Visitor Parking Information"} {
		assert.True(t, identity.IsNavigationTitle(identity.Normalize(title)), "%q should be denied", title)
	}

	assert.False(t, identity.IsNavigationTitle(identity.Normalize("Jane Smith")))
}

func TestPerson(t *testing.T) {
	assert.True(t, identity.Person("Dr. Jane Smith"))
	assert.False(t, identity.Person("Main Directory"))
	assert.False(t, identity.Person(""))
}
