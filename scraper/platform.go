package scraper

import "strings"

// Platform names a social network
type Platform string

const (
	Facebook  Platform = "Facebook"
	Instagram Platform = "Instagram"
	LinkedIn  Platform = "LinkedIn"
	XTwitter  Platform = "X/Twitter"
	TikTok    Platform = "TikTok"
	YouTube   Platform = "YouTube"
	Other     Platform = "Other"
)

// socialDomains are the substrings that mark an anchor as a social link
var socialDomains = []string{
	"facebook.com",
	"instagram.com",
	"linkedin.com",
	"twitter.com",
	"x.com",
	"tiktok.com",
	"youtube.com",
}

func isSocialLink(href string) bool {
	for _, domain := range socialDomains {
		if strings.Contains(href, domain) {
			return true
		}
	}
	return false
}

// DetectPlatform matches the URL against known platform domains, in a fixed order
func DetectPlatform(url string) Platform {
	switch {
	case strings.Contains(url, "facebook.com"):
		return Facebook
	case strings.Contains(url, "instagram.com"):
		return Instagram
	case strings.Contains(url, "linkedin.com"):
		return LinkedIn
	case strings.Contains(url, "twitter.com"), strings.Contains(url, "x.com"):
		return XTwitter
	case strings.Contains(url, "tiktok.com"):
		return TikTok
	case strings.Contains(url, "youtube.com"):
		return YouTube
	}
	return Other
}

var genericSegments = map[string]bool{
	"":            true,
	"profile.php": true,
	"pages":       true,
	"channel":     true,
	"user":        true,
}

// ExtractUsername guesses the account handle from a profile URL.
// It returns "" when no handle can be derived.
func ExtractUsername(url string, platform Platform) string {
	cleaned := strings.TrimSuffix(url, "/")
	if i := strings.Index(cleaned, "?"); i >= 0 {
		cleaned = cleaned[:i]
	}
	parts := strings.Split(cleaned, "/")
	last := parts[len(parts)-1]

	if genericSegments[last] {
		if len(parts) > 1 {
			return parts[len(parts)-2]
		}
		return ""
	}

	// facebook.com/pages/<Name>/<ID>
	if platform == Facebook {
		for i, part := range parts {
			if part == "pages" {
				if i+1 < len(parts) {
					return parts[i+1]
				}
				break
			}
		}
	}

	return last
}
