package faculty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarmap/scholarmap/pkg/faculty"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		rec  faculty.Record
		want float64
	}{
		{"empty record", faculty.Record{Name: "Jane Smith"}, 0.0},
		{"email only", faculty.Record{Email: "jane@gatech.edu"}, 0.2},
		{"sentinel email ignored", faculty.Record{Email: "N/A"}, 0.0},
		{
			"three fields",
			faculty.Record{
				Email:           "jane@gatech.edu",
				PersonalWebsite: "https://jane.example.edu",
				ProfileURL:      "https://ece.gatech.edu/jane",
			},
			0.6,
		},
		{
			"all fields",
			faculty.Record{
				Email:             "jane@gatech.edu",
				PersonalWebsite:   "https://jane.example.edu",
				ProfileURL:        "https://ece.gatech.edu/jane",
				ResearchInterests: "signal processing",
				Publications:      []faculty.Publication{{Title: "A Paper"}},
			},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, faculty.Score(&tt.rec), 1e-9)
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	rec := faculty.Record{Name: "Jane Smith"}
	prev := faculty.Score(&rec)

	rec.Email = "jane@gatech.edu"
	cur := faculty.Score(&rec)
	assert.Greater(t, cur, prev)
	prev = cur

	rec.Publications = append(rec.Publications, faculty.Publication{Title: "A Paper"})
	cur = faculty.Score(&rec)
	assert.Greater(t, cur, prev)
}

func TestKnown(t *testing.T) {
	assert.True(t, faculty.Known("jane@gatech.edu"))
	assert.False(t, faculty.Known(""))
	assert.False(t, faculty.Known("N/A"))
	assert.False(t, faculty.Known("  "))
}

func TestAddPublication(t *testing.T) {
	rec := faculty.Record{}

	assert.True(t, rec.AddPublication("A Paper", "dblp"))
	assert.False(t, rec.AddPublication("A Paper", "openalex"), "duplicate title rejected")
	assert.True(t, rec.AddPublication("Another Paper", "dblp"))

	assert.Equal(t, []string{"A Paper", "Another Paper"}, rec.PublicationTitles())
	assert.Equal(t, "dblp", rec.Publications[0].Source, "first source kept")
}
