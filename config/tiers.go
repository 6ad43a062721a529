package config

import "time"

// TierConfig holds the request parameters for one kind of fetch
type TierConfig struct {
	Timeout      time.Duration
	Headers      map[string]string
	MaxRedirects int  // 0 keeps the client's default redirect policy
	LooseStatus  bool // accept any status below 400 instead of only 2xx
}

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	botUserAgent     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

// Tier names
const (
	TierPrimary = "primary"
	TierContact = "contact"
	TierSocial  = "social"
)

// FetchTiers maps tier names to their default configurations
var FetchTiers = map[string]TierConfig{
	TierPrimary: {
		Timeout: 10 * time.Second,
		Headers: map[string]string{"User-Agent": browserUserAgent},
	},
	TierContact: {
		Timeout: 5 * time.Second,
		Headers: map[string]string{"User-Agent": browserUserAgent},
	},
	TierSocial: {
		Timeout: 6 * time.Second,
		Headers: map[string]string{
			"User-Agent":      botUserAgent,
			"Accept":          "text/html",
			"Accept-Language": "fr-FR,fr;q=0.9,en;q=0.8",
		},
		MaxRedirects: 3,
		LooseStatus:  true,
	},
}

// Tiers returns a copy of FetchTiers with the configured timeouts applied
func (c *Config) Tiers() map[string]TierConfig {
	tiers := make(map[string]TierConfig, len(FetchTiers))
	for name, tier := range FetchTiers {
		headers := make(map[string]string, len(tier.Headers))
		for k, v := range tier.Headers {
			headers[k] = v
		}
		tier.Headers = headers
		tiers[name] = tier
	}

	override := func(name string, d time.Duration) {
		if d <= 0 {
			return
		}
		tier := tiers[name]
		tier.Timeout = d
		tiers[name] = tier
	}
	override(TierPrimary, c.Fetch.PrimaryTimeout)
	override(TierContact, c.Fetch.ContactTimeout)
	override(TierSocial, c.Fetch.SocialTimeout)

	return tiers
}
