package scraper

import (
	"regexp"
	"strings"
)

var facebookLikesPattern = regexp.MustCompile(`(?i)([\d,.]+[KkMm]?)\s*(likes|mentions j'aime)`)

// FacebookParser reads like counts and video hints from a Facebook page description
type FacebookParser struct{}

func (p *FacebookParser) CanHandle(platform Platform) bool {
	return platform == Facebook
}

func (p *FacebookParser) Parse(profile *SocialProfile) {
	desc := profile.Bio

	if m := facebookLikesPattern.FindStringSubmatch(desc); m != nil {
		profile.Followers = m[1] + " likes"
	}

	if strings.Contains(desc, "vidéos") || strings.Contains(desc, "videos") {
		profile.ContentMix = "Video content detected"
	}
}

func init() {
	DefaultRegistry.Register(&FacebookParser{})
}
