package identity

// navigationTitles are page titles scraped from institutional sites that are
// not people: directory pages, handbooks, event listings. Entries are stored
// in normalized form so the check runs after Normalize.
var navigationTitles = map[string]struct{}{}

// rawNavigationTitles is the fixed denylist of generic institutional-page
// titles, in display form.
var rawNavigationTitles = []string{
	"home", "directory", "visitor parking information", "main directory",
	"faculty directory", "day", "welcome", "undergraduate handbook",
	"professional education", "financial aid", "faculty", "staff", "office",
	"about", "contact", "events", "graduate handbook", "student", "advising",
	"administration", "resources", "faq", "news", "alumni", "forms",
	"information", "handbook", "overview",
}

func init() {
	for _, title := range rawNavigationTitles {
		navigationTitles[Normalize(title)] = struct{}{}
	}
}

// IsNavigationTitle reports whether a normalized name matches the
// navigation-text denylist and therefore can never identify a person.
func IsNavigationTitle(normalized string) bool {
	if normalized == "" {
		return false
	}
	_, denied := navigationTitles[normalized]
	return denied
}

// Person reports whether a raw display name plausibly identifies a person:
// it normalizes to a non-empty key that is not a navigation title.
func Person(name string) bool {
	norm := Normalize(name)
	return norm != "" && !IsNavigationTitle(norm)
}
