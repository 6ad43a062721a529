package scraper

import (
	"regexp"
	"strings"
)

var instagramPostsPattern = regexp.MustCompile(`(?i)([\d,.]+)\s*(Posts|Publications)`)

// InstagramParser reads post counts and content hints from Instagram's meta description
type InstagramParser struct{}

func (p *InstagramParser) CanHandle(platform Platform) bool {
	return platform == Instagram
}

func (p *InstagramParser) Parse(profile *SocialProfile) {
	desc := profile.Bio

	if m := instagramPostsPattern.FindStringSubmatch(desc); m != nil {
		profile.PostsCount = m[1]
	}

	if strings.Contains(desc, "See Instagram photos and videos") {
		profile.RecentPostSnippet = "Account is public, images and captions available."
	}

	if strings.Contains(desc, "Reels") || strings.Contains(desc, "videos") {
		if strings.Contains(desc, "Photos") {
			profile.ContentMix = "Mix of Photos & Reels"
		} else {
			profile.ContentMix = "Mostly Reels/Video"
		}
	}
}

func init() {
	DefaultRegistry.Register(&InstagramParser{})
}
