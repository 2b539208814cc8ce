// Package faculty defines the canonical faculty record types and the pure
// confidence scorer over them. The types are deliberately independent of
// storage: a Record is a materialized snapshot, not a live database row.
package faculty

import (
	"strings"
	"time"
)

// Unknown is the sentinel marking a field as known-absent, as opposed to
// never checked. URL fields rewritten away from navigation pages carry it.
const Unknown = "N/A"

// Record is the single deduplicated representation of one faculty member.
// Identity is the (Name, Department) pair; two department strings for the
// same person yield two records, a documented limitation of the upstream
// data which has no canonical external ID.
type Record struct {
	ID                int64         `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string        `json:"name" yaml:"name"`
	Email             string        `json:"email,omitempty" yaml:"email,omitempty"`
	Department        string        `json:"department,omitempty" yaml:"department,omitempty"`
	School            string        `json:"school,omitempty" yaml:"school,omitempty"`
	ResearchInterests string        `json:"research_interests,omitempty" yaml:"research_interests,omitempty"`
	LabAffiliation    string        `json:"lab_affiliation,omitempty" yaml:"lab_affiliation,omitempty"`
	PersonalWebsite   string        `json:"personal_website,omitempty" yaml:"personal_website,omitempty"`
	ProfileURL        string        `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
	Confidence        float64       `json:"confidence_score,omitempty" yaml:"confidence_score,omitempty"`
	LastUpdated       time.Time     `json:"-" yaml:"-"`
	Publications      []Publication `json:"publications,omitempty" yaml:"publications,omitempty"`
}

// Publication is one publication title attributed to a record. Titles are
// unique per record; the same title reported by two sources is coalesced.
type Publication struct {
	Title  string `json:"title" yaml:"title"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Provenance is one append-only audit entry recording which external source
// contributed data and when. Entries are never deleted and never consulted
// for merge decisions.
type Provenance struct {
	Source      string    `json:"source_name" yaml:"source_name"`
	URL         string    `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
}

// Known reports whether a field value carries real information, i.e. it is
// neither empty nor the Unknown sentinel.
func Known(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != Unknown
}

// HasPublication reports whether the record already carries a publication
// with the given title.
func (r *Record) HasPublication(title string) bool {
	for _, pub := range r.Publications {
		if pub.Title == title {
			return true
		}
	}
	return false
}

// AddPublication appends a publication unless an identical title is already
// present. Insertion order is preserved.
func (r *Record) AddPublication(title, source string) bool {
	title = strings.TrimSpace(title)
	if title == "" || r.HasPublication(title) {
		return false
	}
	r.Publications = append(r.Publications, Publication{Title: title, Source: source})
	return true
}

// PublicationTitles returns the publication titles in insertion order,
// without source tags. Used by the export bridge.
func (r *Record) PublicationTitles() []string {
	titles := make([]string, 0, len(r.Publications))
	for _, pub := range r.Publications {
		titles = append(titles, pub.Title)
	}
	return titles
}
