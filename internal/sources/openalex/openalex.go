// Package openalex verifies faculty records against the OpenAlex authors
// API. OpenAlex spans disciplines and carries institution affiliations and
// topic labels, so it contributes a profile URL, research interests, and
// recent work titles.
package openalex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/sources"
)

// DefaultBaseURL is the public OpenAlex API endpoint.
const DefaultBaseURL = "https://api.openalex.org"

const (
	maxWorks     = 5
	maxInterests = 5
)

// Source queries OpenAlex.
type Source struct {
	client  *http.Client
	baseURL string
}

// New creates an OpenAlex source. A nil client gets a default with a timeout.
func New(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{client: client, baseURL: DefaultBaseURL}
}

// NewWithBaseURL creates an OpenAlex source against a custom endpoint.
func NewWithBaseURL(client *http.Client, baseURL string) *Source {
	s := New(client)
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.OpenAlexID
}

type authorsResponse struct {
	Results []struct {
		DisplayName string `json:"display_name"`
		IDs         struct {
			OpenAlex string `json:"openalex"`
		} `json:"ids"`
		LastKnownInstitutions []struct {
			DisplayName string `json:"display_name"`
		} `json:"last_known_institutions"`
		Topics []struct {
			DisplayName string `json:"display_name"`
		} `json:"topics"`
		WorksAPIURL string `json:"works_api_url"`
	} `json:"results"`
}

type worksResponse struct {
	Results []struct {
		Title string `json:"title"`
	} `json:"results"`
}

// Verify implements sources.Source.
func (s *Source) Verify(ctx context.Context, rec *faculty.Record) (sources.Finding, error) {
	finding := sources.Finding{Source: s.ID()}

	var resp authorsResponse
	query := url.Values{"search": {rec.Name}, "per-page": {"10"}}
	if err := s.getJSON(ctx, s.baseURL+"/authors?"+query.Encode(), &resp); err != nil {
		return finding, err
	}

	bestSim := 0.0
	bestIdx := -1
	for i, author := range resp.Results {
		if sim := sources.Jaccard(rec.Name, author.DisplayName); sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestSim < 0.5 {
		return finding, nil
	}
	author := resp.Results[bestIdx]

	if bestSim > 0.8 {
		finding.Confidence += 0.3
	}

	if keyword := institutionKeyword(rec); keyword != "" {
		for _, inst := range author.LastKnownInstitutions {
			if strings.Contains(strings.ToLower(inst.DisplayName), keyword) {
				finding.Confidence += 0.3
				break
			}
		}
	}

	if author.IDs.OpenAlex != "" {
		finding.Fields.ProfileURL = author.IDs.OpenAlex
	}

	if len(author.Topics) > 0 {
		topics := make([]string, 0, maxInterests)
		for _, topic := range author.Topics {
			if topic.DisplayName == "" {
				continue
			}
			topics = append(topics, topic.DisplayName)
			if len(topics) >= maxInterests {
				break
			}
		}
		if len(topics) > 0 {
			finding.Fields.ResearchInterests = strings.Join(topics, "; ")
			finding.Confidence += 0.2
		}
	}

	if author.WorksAPIURL != "" {
		var works worksResponse
		worksURL := author.WorksAPIURL
		if !strings.Contains(worksURL, "per-page=") {
			sep := "?"
			if strings.Contains(worksURL, "?") {
				sep = "&"
			}
			worksURL += sep + "per-page=5"
		}
		if err := s.getJSON(ctx, worksURL, &works); err == nil {
			for _, work := range works.Results {
				if title := strings.TrimSpace(work.Title); title != "" {
					finding.Publications = append(finding.Publications, title)
				}
				if len(finding.Publications) >= maxWorks {
					break
				}
			}
			if len(finding.Publications) > 0 {
				finding.Confidence += 0.2
			}
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

func institutionKeyword(rec *faculty.Record) string {
	if faculty.Known(rec.School) {
		return strings.ToLower(strings.TrimSpace(rec.School))
	}
	if faculty.Known(rec.Department) {
		return strings.ToLower(strings.TrimSpace(rec.Department))
	}
	return ""
}
