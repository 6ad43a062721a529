package scraper

import (
	"strings"

	"siteintel/htmldoc"
)

const socialContextPrefix = "\n\nSocial context from website: "

type hintRule struct {
	needles []string
	hint    string
}

var iframeRules = []hintRule{
	{[]string{"facebook.com/plugins"}, "Has embedded Facebook widget"},
	{[]string{"instagram.com/embed"}, "Has embedded Instagram feed"},
	{[]string{"youtube.com/embed"}, "Has embedded YouTube videos"},
}

// keywords are matched against lowercased body text
var keywordRules = []hintRule{
	{[]string{"suivez-nous", "follow us"}, `Has "Follow us" section`},
	{[]string{"nos réalisations", "our work", "portfolio"}, "Has portfolio/work section"},
	{[]string{"témoignage", "testimonial", "avis"}, "Has testimonials"},
	{[]string{"blog", "actualités", "news"}, "Has blog/news section"},
}

// socialContext scans embedded iframes and body keywords for qualitative hints about
// the site's social presence. Each hint appears at most once.
func socialContext(doc htmldoc.Document, bodyText string) string {
	var hints []string
	seen := make(map[string]bool)
	add := func(hint string) {
		if !seen[hint] {
			seen[hint] = true
			hints = append(hints, hint)
		}
	}

	for _, iframe := range doc.SelectAll("iframe[src]") {
		src, _ := iframe.Attr("src")
		for _, rule := range iframeRules {
			if containsAny(src, rule.needles) {
				add(rule.hint)
			}
		}
	}

	lowerText := strings.ToLower(bodyText)
	for _, rule := range keywordRules {
		if containsAny(lowerText, rule.needles) {
			add(rule.hint)
		}
	}

	return strings.Join(hints, ". ")
}

func withSocialContext(description, hints string) string {
	if hints == "" {
		return description
	}
	return description + socialContextPrefix + hints
}
