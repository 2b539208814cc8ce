package bridge

import (
	"encoding/json"
	"strings"

	"github.com/goccy/go-yaml"
)

// Document is one entry of the interchange list. Publications are plain
// title strings; the per-publication source tag is internal and never
// exported. Store-assigned IDs and last_updated never cross the bridge.
type Document struct {
	Name              string   `json:"name" yaml:"name"`
	Email             string   `json:"email,omitempty" yaml:"email,omitempty"`
	Department        string   `json:"department,omitempty" yaml:"department,omitempty"`
	School            string   `json:"school,omitempty" yaml:"school,omitempty"`
	ResearchInterests FlexText `json:"research_interests,omitempty" yaml:"research_interests,omitempty"`
	LabAffiliation    string   `json:"lab_affiliation,omitempty" yaml:"lab_affiliation,omitempty"`
	PersonalWebsite   string   `json:"personal_website,omitempty" yaml:"personal_website,omitempty"`
	ProfileURL        string   `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
	Publications      []string `json:"publications,omitempty" yaml:"publications,omitempty"`
	Confidence        *float64 `json:"confidence_score,omitempty" yaml:"confidence_score,omitempty"`
}

// FlexText accepts either a plain string or a list of strings in source
// documents; scraped research-interest fields arrive in both shapes. Lists
// are joined with "; ".
type FlexText string

// String returns the text value.
func (t FlexText) String() string {
	return string(t)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = FlexText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = FlexText(strings.Join(list, "; "))
	return nil
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (t *FlexText) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err == nil {
		*t = FlexText(s)
		return nil
	}
	var list []string
	if err := yaml.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = FlexText(strings.Join(list, "; "))
	return nil
}
