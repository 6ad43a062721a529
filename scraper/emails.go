package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"siteintel/htmldoc"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Sanitizer rules
var (
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	junkDomains     = []string{"sentry", "wixpress.com", "example.com", "yourdomain.com", "email.com"}
)

const maxLocalPartLength = 35

// harvestEmails collects addresses from the body text followed by valid mailto targets
func harvestEmails(doc htmldoc.Document) []string {
	emails := uniqueStrings(emailPattern.FindAllString(doc.BodyText(), -1))

	for _, a := range doc.SelectAll("a[href]") {
		href, _ := a.Attr("href")
		if email, ok := mailtoAddress(href); ok {
			emails = append(emails, email)
		}
	}

	return emails
}

// mailtoAddress returns the address of a mailto: href, without its query string
func mailtoAddress(href string) (string, bool) {
	const scheme = "mailto:"
	if len(href) < len(scheme) || !strings.EqualFold(href[:len(scheme)], scheme) {
		return "", false
	}
	email, _, _ := strings.Cut(href[len(scheme):], "?")
	email = strings.TrimSpace(email)
	if email == "" || !emailPattern.MatchString(email) {
		return "", false
	}
	return email, true
}

// SanitizeEmails dedupes, drops image names, junk domains and hash-like local parts,
// then lowercases. First-occurrence order is kept. Addresses that only differ by case
// collapse into the first one.
func SanitizeEmails(emails []string) []string {
	clean := make([]string, 0, len(emails))
	emitted := make(map[string]bool, len(emails))
	for _, email := range uniqueStrings(emails) {
		lower := strings.ToLower(email)
		if hasAnySuffix(lower, imageExtensions) || containsAny(lower, junkDomains) {
			continue
		}
		local, _, _ := strings.Cut(lower, "@")
		if utf8.RuneCountInString(local) > maxLocalPartLength {
			continue
		}
		if emitted[lower] {
			continue
		}
		emitted[lower] = true
		clean = append(clean, lower)
	}
	return clean
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
