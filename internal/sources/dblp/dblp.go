// Package dblp verifies faculty records against the DBLP author search API.
// DBLP is strong on computer-science publication lists and sometimes carries
// an affiliation note and homepage link; it contributes publications, a
// personal website, and a name-match confidence.
package dblp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/sources"
	"github.com/scholarmap/scholarmap/pkg/urlcheck"
)

// DefaultBaseURL is the public DBLP API endpoint.
const DefaultBaseURL = "https://dblp.org"

// maxPublications caps how many titles one pass contributes.
const maxPublications = 5

// Source queries DBLP.
type Source struct {
	client  *http.Client
	baseURL string
}

// New creates a DBLP source. A nil client gets a default with a timeout.
func New(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{client: client, baseURL: DefaultBaseURL}
}

// NewWithBaseURL creates a DBLP source against a custom endpoint, used by
// tests to point at a local fake.
func NewWithBaseURL(client *http.Client, baseURL string) *Source {
	s := New(client)
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.DBLPID
}

// authorResponse is the subset of the DBLP author search payload we read.
type authorResponse struct {
	Result struct {
		Hits struct {
			Hit []struct {
				Info struct {
					Author string `json:"author"`
					URL    string `json:"url"`
					Notes  struct {
						Note []struct {
							Type string `json:"@type"`
							Text string `json:"text"`
						} `json:"note"`
					} `json:"notes"`
				} `json:"info"`
			} `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// publResponse is the subset of the DBLP publication search payload we read.
type publResponse struct {
	Result struct {
		Hits struct {
			Hit []struct {
				Info struct {
					Title string `json:"title"`
				} `json:"info"`
			} `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// Verify implements sources.Source.
func (s *Source) Verify(ctx context.Context, rec *faculty.Record) (sources.Finding, error) {
	finding := sources.Finding{Source: s.ID()}

	var resp authorResponse
	query := url.Values{"q": {rec.Name}, "format": {"json"}, "h": {"10"}}
	if err := s.getJSON(ctx, s.baseURL+"/search/author/api?"+query.Encode(), &resp); err != nil {
		return finding, err
	}

	bestSim := 0.0
	bestIdx := -1
	for i, hit := range resp.Result.Hits.Hit {
		if sim := sources.Jaccard(rec.Name, hit.Info.Author); sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestSim < 0.5 {
		return finding, nil
	}
	hit := resp.Result.Hits.Hit[bestIdx]

	if bestSim > 0.8 {
		finding.Confidence += 0.3
	}

	affiliation := affiliationKeyword(rec)
	for _, note := range hit.Info.Notes.Note {
		text := strings.ToLower(note.Text)
		if note.Type == "affiliation" && affiliation != "" && strings.Contains(text, affiliation) {
			finding.Confidence += 0.3
		}
		if note.Type == "url" && urlcheck.Valid(note.Text) {
			finding.Fields.PersonalWebsite = note.Text
			finding.Confidence += 0.2
		}
	}

	var pubs publResponse
	query = url.Values{"q": {"author:" + rec.Name}, "format": {"json"}, "h": {fmt.Sprint(maxPublications)}}
	if err := s.getJSON(ctx, s.baseURL+"/search/publ/api?"+query.Encode(), &pubs); err == nil {
		for _, pub := range pubs.Result.Hits.Hit {
			if title := strings.TrimSpace(pub.Info.Title); title != "" {
				finding.Publications = append(finding.Publications, title)
			}
			if len(finding.Publications) >= maxPublications {
				break
			}
		}
		if len(finding.Publications) > 0 {
			finding.Confidence += 0.3
		}
	}

	finding.Confidence = sources.ClampConfidence(finding.Confidence)
	return finding, nil
}

func (s *Source) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return scherrors.NewSourceError(s.ID().String(), 0, "build request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return scherrors.NewSourceError(s.ID().String(), 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return scherrors.NewSourceError(s.ID().String(), resp.StatusCode, "unexpected status", nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return scherrors.NewSourceError(s.ID().String(), 0, "read body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return scherrors.WrapParse("json", s.ID().String(), err)
	}
	return nil
}

// affiliationKeyword picks the token used to confirm institutional
// affiliation, preferring the school name over the department.
func affiliationKeyword(rec *faculty.Record) string {
	if faculty.Known(rec.School) {
		return strings.ToLower(strings.TrimSpace(rec.School))
	}
	if faculty.Known(rec.Department) {
		return strings.ToLower(strings.TrimSpace(rec.Department))
	}
	return ""
}
