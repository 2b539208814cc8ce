package reconciler

import (
	"sort"

	"github.com/scholarmap/scholarmap/pkg/sources"
)

// Merged is the single update produced from one record's verification pass
// across all sources.
type Merged struct {
	Fields       sources.Fields
	Publications []string
	// Confidence is the arithmetic mean of every source's confidence,
	// failures included as zero. A record only one source could verify is
	// penalized by design.
	Confidence float64
}

// MergeFindings reduces a set of source findings into one update. Findings
// are ordered by descending confidence (stable, so equal confidences keep
// their input order) and each field takes the value from the
// highest-confidence source that supplies one; lower-confidence sources
// never override a field already filled in the same pass. Publications are
// unioned from all findings. Zero-confidence findings contribute to the
// mean but are excluded from field selection.
func MergeFindings(findings []sources.Finding) Merged {
	var merged Merged
	if len(findings) == 0 {
		return merged
	}

	ordered := make([]sources.Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	total := 0.0
	seenPubs := make(map[string]struct{})
	for _, finding := range ordered {
		total += sources.ClampConfidence(finding.Confidence)

		for _, title := range finding.Publications {
			if title == "" {
				continue
			}
			if _, ok := seenPubs[title]; ok {
				continue
			}
			seenPubs[title] = struct{}{}
			merged.Publications = append(merged.Publications, title)
		}

		if finding.Confidence <= 0 {
			continue
		}
		fillField(&merged.Fields.Email, finding.Fields.Email)
		fillField(&merged.Fields.PersonalWebsite, finding.Fields.PersonalWebsite)
		fillField(&merged.Fields.ProfileURL, finding.Fields.ProfileURL)
		fillField(&merged.Fields.ResearchInterests, finding.Fields.ResearchInterests)
		fillField(&merged.Fields.LabAffiliation, finding.Fields.LabAffiliation)
	}

	merged.Confidence = total / float64(len(ordered))
	return merged
}

// fillField sets dst from src only when dst is still empty.
func fillField(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
