package reconciler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/scholarmap/scholarmap/pkg/reconciler"
	"github.com/scholarmap/scholarmap/pkg/sources"
)

func TestMergeFindingsEmpty(t *testing.T) {
	merged := reconciler.MergeFindings(nil)
	assert.Zero(t, merged.Confidence)
	assert.Empty(t, merged.Publications)
}

func TestMergeFindingsHighestConfidenceWinsPerField(t *testing.T) {
	findings := []sources.Finding{
		{
			Source:     sources.DBLPID,
			Confidence: 0.4,
			Fields: sources.Fields{
				Email:           "b@x.edu",
				PersonalWebsite: "https://b.example.edu",
			},
		},
		{
			Source:     sources.OpenAlexID,
			Confidence: 0.9,
			Fields:     sources.Fields{Email: "a@x.edu"},
		},
	}

	merged := reconciler.MergeFindings(findings)

	want := sources.Fields{
		Email:           "a@x.edu",
		PersonalWebsite: "https://b.example.edu",
	}
	if diff := cmp.Diff(want, merged.Fields); diff != "" {
		t.Errorf("merged fields mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.65, merged.Confidence, 1e-9, "mean of 0.9 and 0.4")
}

func TestMergeFindingsFailuresCountAgainstMean(t *testing.T) {
	findings := []sources.Finding{
		{Source: sources.DBLPID, Confidence: 0.9, Fields: sources.Fields{Email: "a@x.edu"}},
		{Source: sources.OpenAlexID, Confidence: 0},
		{Source: sources.WebsiteID, Confidence: 0},
	}

	merged := reconciler.MergeFindings(findings)
	assert.InDelta(t, 0.3, merged.Confidence, 1e-9)
	assert.Equal(t, "a@x.edu", merged.Fields.Email)
}

func TestMergeFindingsZeroConfidenceContributesNoFields(t *testing.T) {
	findings := []sources.Finding{
		{Source: sources.DBLPID, Confidence: 0, Fields: sources.Fields{Email: "stale@x.edu"}},
		{Source: sources.OpenAlexID, Confidence: 0.5},
	}

	merged := reconciler.MergeFindings(findings)
	assert.Empty(t, merged.Fields.Email)
}

func TestMergeFindingsPublicationsUnion(t *testing.T) {
	findings := []sources.Finding{
		{Source: sources.DBLPID, Confidence: 0.3, Publications: []string{"Paper A", "Paper B"}},
		{Source: sources.OpenAlexID, Confidence: 0.8, Publications: []string{"Paper B", "Paper C"}},
	}

	merged := reconciler.MergeFindings(findings)

	// Higher-confidence finding is visited first; duplicates collapse.
	assert.Equal(t, []string{"Paper B", "Paper C", "Paper A"}, merged.Publications)
}

func TestMergeFindingsStableOnEqualConfidence(t *testing.T) {
	findings := []sources.Finding{
		{Source: sources.DBLPID, Confidence: 0.5, Fields: sources.Fields{Email: "first@x.edu"}},
		{Source: sources.OpenAlexID, Confidence: 0.5, Fields: sources.Fields{Email: "second@x.edu"}},
	}

	merged := reconciler.MergeFindings(findings)
	assert.Equal(t, "first@x.edu", merged.Fields.Email, "equal confidence keeps input order")
}
