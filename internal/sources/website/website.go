// Package website verifies a faculty record against the web pages the
// record itself points at: the institutional profile URL and the personal
// website. Finding the person's name and affiliation on their own pages is
// weak evidence individually but cheap and local to the record, and the
// pages frequently expose an email address and research-interest blurb that
// no publication index carries.
package website

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/sources"
	"github.com/scholarmap/scholarmap/pkg/urlcheck"
)

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// interestHeadings are the section labels scanned for a research blurb.
var interestHeadings = []string{"research areas", "research interests", "research focus"}

// Source fetches the record's own pages.
type Source struct {
	client *http.Client
}

// New creates a website source. A nil client gets a default with a timeout.
func New(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{client: client}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.WebsiteID
}

// Verify implements sources.Source. A record with no usable URLs yields a
// zero-confidence finding without error.
func (s *Source) Verify(ctx context.Context, rec *faculty.Record) (sources.Finding, error) {
	finding := sources.Finding{Source: s.ID()}

	pages := 0
	if urlcheck.Valid(rec.ProfileURL) {
		text, err := s.fetch(ctx, rec.ProfileURL)
		if err != nil {
			return finding, err
		}
		s.inspect(rec, text, &finding)
		pages++
	}
	if urlcheck.Valid(rec.PersonalWebsite) && rec.PersonalWebsite != rec.ProfileURL {
		text, err := s.fetch(ctx, rec.PersonalWebsite)
		if err != nil && pages == 0 {
			return finding, err
		}
		if err == nil {
			s.inspect(rec, text, &finding)
			pages++
		}
	}

	finding.Confidence = sources.ClampConfidence(finding.Confidence)
	return finding, nil
}

// inspect scores one page's text and harvests fields from it.
func (s *Source) inspect(rec *faculty.Record, text string, finding *sources.Finding) {
	lower := strings.ToLower(text)

	if name := strings.ToLower(strings.TrimSpace(rec.Name)); name != "" && strings.Contains(lower, name) {
		finding.Confidence += 0.3
	}

	if keyword := affiliationKeyword(rec); keyword != "" && strings.Contains(lower, keyword) {
		finding.Confidence += 0.2
	}

	if finding.Fields.Email == "" {
		if email := s.findEmail(rec, text); email != "" {
			finding.Fields.Email = email
			finding.Confidence += 0.2
		}
	}

	if finding.Fields.ResearchInterests == "" {
		if interests := extractInterests(lower); interests != "" {
			finding.Fields.ResearchInterests = interests
			finding.Confidence += 0.2
		}
	}
}

// findEmail returns the first address matching the record's institution
// domain. The domain is derived from an already-known email when present,
// otherwise any .edu address is accepted.
func (s *Source) findEmail(rec *faculty.Record, text string) string {
	wantDomain := ""
	if faculty.Known(rec.Email) {
		if at := strings.LastIndex(rec.Email, "@"); at >= 0 {
			wantDomain = strings.ToLower(rec.Email[at+1:])
		}
	}

	for _, match := range emailPattern.FindAllString(text, -1) {
		lower := strings.ToLower(strings.Trim(match, "."))
		switch {
		case wantDomain != "" && strings.HasSuffix(lower, "@"+wantDomain):
			return lower
		case wantDomain == "" && strings.HasSuffix(lower, ".edu"):
			return lower
		}
	}
	return ""
}

// extractInterests pulls the text following a research-interests heading,
// cut at the first sentence or line break.
func extractInterests(lowerText string) string {
	for _, heading := range interestHeadings {
		idx := strings.Index(lowerText, heading)
		if idx < 0 {
			continue
		}
		rest := lowerText[idx+len(heading):]
		rest = strings.TrimLeft(rest, ":- \t\r\n")
		for _, marker := range []string{"\n\n", "\r\n", "\n", "."} {
			if cut := strings.Index(rest, marker); cut >= 0 {
				rest = rest[:cut]
			}
		}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest
		}
	}
	return ""
}

// fetch retrieves a page and strips markup, returning plain text.
func (s *Source) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", scherrors.NewSourceError(s.ID().String(), 0, "build request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", scherrors.NewSourceError(s.ID().String(), 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", scherrors.NewSourceError(s.ID().String(), resp.StatusCode, "unexpected status", nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", scherrors.NewSourceError(s.ID().String(), 0, "read body", err)
	}

	return tagPattern.ReplaceAllString(string(body), " "), nil
}

func affiliationKeyword(rec *faculty.Record) string {
	if faculty.Known(rec.School) {
		return strings.ToLower(strings.TrimSpace(rec.School))
	}
	if faculty.Known(rec.Department) {
		return strings.ToLower(strings.TrimSpace(rec.Department))
	}
	return ""
}
