// Package urlcheck validates profile and personal-website URLs. A URL passes
// only if it is a well-formed absolute http(s) URL and does not point at a
// known institutional navigation page or non-profile external domain.
package urlcheck

import (
	"net/url"
	"strings"

	"github.com/scholarmap/scholarmap/pkg/faculty"
)

// deniedPathFragments are URL path fragments that mark institutional
// navigation and directory pages rather than individual profiles.
var deniedPathFragments = []string{
	"/directory", "/main", "/home", "/visitor", "/about", "/faq",
	"/resources", "/forms", "/news", "/events", "/advising", "/student",
	"/staff", "/alumni", "/office", "/overview", "/information",
	"/handbook", "/contact", "/graduate", "/undergraduate",
	"/professional-education", "/financial-aid", "/calendar",
	"/specialevents", "/study-abroad", "/lifetimelearning", "/tickets",
	"/tech-lingo", "/directory1",
}

// deniedDomains are external hosts that never serve faculty profiles:
// alumni mailers, parking portals, scheduling systems.
var deniedDomains = []string{
	"signup.e2ma.net",
	"parkmobile",
	"gtalumni",
	"ramblinwreck",
	"oie.gatech.edu",
	"pe.gatech.edu",
	"gnpec.georgia.gov",
	"calendar.gatech.edu",
	"specialevents.gatech.edu",
	"lifetimelearning.gatech.edu",
}

// Valid reports whether raw is an absolute http(s) URL that does not match
// the navigation denylist. The sentinel and empty strings are invalid.
func Valid(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == faculty.Unknown {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Host)
	for _, domain := range deniedDomains {
		if strings.Contains(host, domain) {
			return false
		}
	}

	path := strings.ToLower(u.Path)
	for _, fragment := range deniedPathFragments {
		if strings.Contains(path, fragment) {
			return false
		}
	}

	return true
}

// Scrub returns raw unchanged when it is a valid profile URL, and the
// Unknown sentinel otherwise. Export paths run every URL field through it.
func Scrub(raw string) string {
	if Valid(raw) {
		return strings.TrimSpace(raw)
	}
	return faculty.Unknown
}
