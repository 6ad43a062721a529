package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"siteintel/config"
	"siteintel/htmldoc"

	"golang.org/x/sync/errgroup"
)

const recencySnippetChars = 5000

var postDatePattern = regexp.MustCompile(`(?i)(\d{1,2}\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre))`)

// buildSocialProfiles enriches every recognised link concurrently and waits for all of
// them. Results follow input order; links on unknown platforms are dropped. A failed
// profile keeps Scraped=false and never affects its siblings.
func (s *Service) buildSocialProfiles(ctx context.Context, links []string) []SocialProfile {
	slots := make([]*SocialProfile, len(links))

	// Tasks always return nil, so Wait never short-circuits.
	var g errgroup.Group
	if s.socialLimit > 0 {
		g.SetLimit(s.socialLimit)
	}

	for i, link := range links {
		platform := DetectPlatform(link)
		if platform == Other {
			continue
		}

		profile := &SocialProfile{
			Platform: platform,
			URL:      link,
			Username: ExtractUsername(link, platform),
		}
		slots[i] = profile

		g.Go(func() error {
			if err := s.enrichProfile(ctx, profile); err != nil {
				s.logger.Debug("social profile not enriched", "platform", profile.Platform, "url", profile.URL, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	profiles := make([]SocialProfile, 0, len(links))
	for _, p := range slots {
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	return profiles
}

// enrichProfile fetches the profile page and fills metadata in place. Scraped is set
// only once everything has succeeded.
func (s *Service) enrichProfile(ctx context.Context, profile *SocialProfile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			profile.Scraped = false
			err = fmt.Errorf("panic while enriching %s: %v", profile.URL, r)
		}
	}()

	resp, err := s.fetcher.Fetch(ctx, profile.URL, s.tiers[config.TierSocial])
	if err != nil {
		return err
	}

	doc, err := htmldoc.ParseString(resp.Body)
	if err != nil {
		return err
	}

	profile.Name = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		strings.TrimSpace(doc.Text("title")),
	)
	profile.Bio = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[name="twitter:description"]`),
	)

	s.registry.Parse(profile)

	if profile.Recency == "" {
		if m := postDatePattern.FindStringSubmatch(leadingChars(resp.Body, recencySnippetChars)); m != nil {
			profile.Recency = "Around " + m[1]
		}
	}

	profile.Scraped = true
	return nil
}

func metaContent(doc htmldoc.Document, selector string) string {
	content, _ := doc.Select(selector).Attr("content")
	return content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func leadingChars(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
