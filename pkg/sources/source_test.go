package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarmap/scholarmap/pkg/sources"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Jane Smith", "Jane Smith", 1.0},
		{"case insensitive", "jane smith", "JANE SMITH", 1.0},
		{"token order ignored", "Smith Jane", "Jane Smith", 1.0},
		{"partial overlap", "Jane A Smith", "Jane Smith", 2.0 / 3.0},
		{"disjoint", "Jane Smith", "Alice Jones", 0.0},
		{"both empty", "", "", 0.0},
		{"one empty", "Jane Smith", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sources.Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, sources.ClampConfidence(-0.2))
	assert.Equal(t, 0.5, sources.ClampConfidence(0.5))
	assert.Equal(t, 1.0, sources.ClampConfidence(1.3))
}
