package scraper

import "regexp"

var (
	followersPattern = regexp.MustCompile(`(?i)([\d,.]+[KkMm]?)\s*(followers|abonnés)`)
	postsPattern     = regexp.MustCompile(`(?i)([\d,.]+)\s*(posts|publications)`)
	agoPattern       = regexp.MustCompile(`(?i)(\d+)\s*(days|weeks|months|jours|semaines|mois)\s*ago`)
)

// GenericParser fills follower, post and recency hints that a platform parser left unset.
// It runs for every platform.
type GenericParser struct {
	// KeepRecencyUnit emits "<N> <unit> ago". When false the historical
	// "<N> <N> ago" shape is produced, which existing consumers may match on.
	KeepRecencyUnit bool
}

func (p *GenericParser) CanHandle(platform Platform) bool {
	return true
}

func (p *GenericParser) Parse(profile *SocialProfile) {
	bio := profile.Bio
	if bio == "" {
		return
	}

	if m := followersPattern.FindStringSubmatch(bio); m != nil && profile.Followers == "" {
		profile.Followers = m[1]
	}

	if m := postsPattern.FindStringSubmatch(bio); m != nil && profile.PostsCount == "" {
		profile.PostsCount = m[1]
	}

	if m := agoPattern.FindStringSubmatch(bio); m != nil && profile.Recency == "" {
		unit := m[1]
		if p.KeepRecencyUnit {
			unit = m[2]
		}
		profile.Recency = m[1] + " " + unit + " ago"
	}
}

func init() {
	DefaultRegistry.SetFallback(&GenericParser{})
}
