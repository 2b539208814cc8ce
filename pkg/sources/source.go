// Package sources defines the interface between the reconciliation engine
// and external verification sources. A source inspects one faculty record
// against an external service (publication index, institutional site) and
// returns a finding: field values it can vouch for plus its own confidence
// in the match. Sources never write to the store.
package sources

import (
	"context"
	"strings"

	"github.com/scholarmap/scholarmap/pkg/faculty"
)

// ID identifies a verification source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Well-known source IDs.
const (
	DBLPID     ID = "dblp"
	OpenAlexID ID = "openalex"
	WebsiteID  ID = "website"
)

// Fields is the set of record fields a source can contribute. Empty values
// mean the source has nothing to say about that field.
type Fields struct {
	Email             string
	PersonalWebsite   string
	ProfileURL        string
	ResearchInterests string
	LabAffiliation    string
}

// Finding is the immutable result of one source's verification pass.
// Confidence is source-internal, computed by the source's own heuristic and
// bounded to [0, 1].
type Finding struct {
	Source       ID
	Confidence   float64
	Fields       Fields
	Publications []string
}

// Source verifies a faculty record against one external service.
type Source interface {
	// ID returns the identifier of this source.
	ID() ID

	// Verify inspects the record and returns a finding. Implementations
	// must honor ctx cancellation and bound their own network waits; a
	// returned error is treated as a zero-confidence finding by the caller.
	Verify(ctx context.Context, rec *faculty.Record) (Finding, error)
}

// Jaccard computes token-set Jaccard similarity between two names, the
// standard heuristic for scoring how well an external profile's display
// name matches a record.
func Jaccard(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(strings.TrimSpace(s))) {
		tokens[token] = struct{}{}
	}
	return tokens
}

// ClampConfidence bounds a confidence value to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
