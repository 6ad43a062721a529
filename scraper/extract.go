package scraper

import (
	"strings"

	"siteintel/htmldoc"
	"siteintel/utils"
)

const maxContactPages = 3

var contactKeywords = []string{"contact", "about", "a-propos", "nous-joindre"}

// pageHarvest is everything the primary page yields before fallbacks
type pageHarvest struct {
	Title        string
	Description  string
	Emails       []string
	SocialLinks  []string
	ContactPages []string
}

// harvestPage extracts title, description, emails, social links and same-origin
// contact page candidates from the primary page
func harvestPage(doc htmldoc.Document, origin string) pageHarvest {
	var socialLinks, contactPages []string

	for _, a := range doc.SelectAll("a[href]") {
		href, _ := a.Attr("href")
		if href == "" {
			continue
		}

		if isSocialLink(href) {
			socialLinks = append(socialLinks, href)
		}

		if containsAny(strings.ToLower(href), contactKeywords) {
			if full, ok := utils.ResolveSameOrigin(origin, href); ok {
				contactPages = append(contactPages, full)
			}
		}
	}

	contactPages = uniqueStrings(contactPages)
	if len(contactPages) > maxContactPages {
		contactPages = contactPages[:maxContactPages]
	}

	description, _ := doc.Select(`meta[name="description"]`).Attr("content")

	return pageHarvest{
		Title:        strings.TrimSpace(doc.Text("title")),
		Description:  description,
		Emails:       harvestEmails(doc),
		SocialLinks:  uniqueStrings(socialLinks),
		ContactPages: contactPages,
	}
}
