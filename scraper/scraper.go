// Package scraper extracts contact emails and social presence from a business website
package scraper

import (
	"context"
	"encoding/json"
	"sync"

	"siteintel/fetcher"
)

// ScrapedData is the result of scraping one website
type ScrapedData struct {
	Emails         []string
	Title          string
	Description    string
	SocialLinks    []string
	SocialProfiles []SocialProfile // nil only for a degraded result
}

type scrapedDataJSON struct {
	Emails         []string         `json:"emails"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	SocialLinks    []string         `json:"socialLinks"`
	SocialProfiles *[]SocialProfile `json:"socialProfiles,omitempty"`
}

// MarshalJSON omits socialProfiles for degraded results but keeps an empty list otherwise
func (d ScrapedData) MarshalJSON() ([]byte, error) {
	out := scrapedDataJSON{
		Emails:      d.Emails,
		Title:       d.Title,
		Description: d.Description,
		SocialLinks: d.SocialLinks,
	}
	if out.Emails == nil {
		out.Emails = []string{}
	}
	if out.SocialLinks == nil {
		out.SocialLinks = []string{}
	}
	if d.SocialProfiles != nil {
		out.SocialProfiles = &d.SocialProfiles
	}
	return json.Marshal(out)
}

func (d *ScrapedData) UnmarshalJSON(b []byte) error {
	var in scrapedDataJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*d = ScrapedData{
		Emails:      in.Emails,
		Title:       in.Title,
		Description: in.Description,
		SocialLinks: in.SocialLinks,
	}
	if in.SocialProfiles != nil {
		d.SocialProfiles = *in.SocialProfiles
	}
	return nil
}

// Degraded reports whether d is the empty result returned when the primary page could not be scraped
func (d ScrapedData) Degraded() bool {
	return d.SocialProfiles == nil
}

func degradedResult() ScrapedData {
	return ScrapedData{
		Emails:      []string{},
		Title:       "",
		Description: "",
		SocialLinks: []string{},
	}
}

// SocialProfile is a social account discovered on the website, enriched best-effort
type SocialProfile struct {
	Platform          Platform `json:"platform"`
	URL               string   `json:"url"`
	Username          string   `json:"username,omitempty"`
	Name              string   `json:"name,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Followers         string   `json:"followers,omitempty"`
	PostsCount        string   `json:"postsCount,omitempty"`
	RecentPostSnippet string   `json:"recentPostSnippet,omitempty"`
	ContentMix        string   `json:"contentMix,omitempty"`
	Recency           string   `json:"recency,omitempty"`
	Scraped           bool     `json:"scraped"`
}

// Fetcher issues a single GET for the given tier
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, tier fetcher.Tier) (*fetcher.Response, error)
}

// ProfileParser fills profile fields from an already extracted bio
type ProfileParser interface {
	// CanHandle determines if this parser applies to the platform
	CanHandle(platform Platform) bool

	// Parse sets fields derived from profile.Bio
	Parse(profile *SocialProfile)
}

// Registry manages the available profile parsers
type Registry struct {
	parsers  []ProfileParser
	fallback ProfileParser
	mu       sync.RWMutex
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers: make([]ProfileParser, 0),
	}
}

// Register adds a platform parser to the registry
func (r *Registry) Register(parser ProfileParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parser)
}

// SetFallback sets the parser that runs after the platform parser for every profile
func (r *Registry) SetFallback(parser ProfileParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = parser
}

// WithFallback returns a copy of the registry using a different fallback parser
func (r *Registry) WithFallback(parser ProfileParser) *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{
		parsers:  append([]ProfileParser(nil), r.parsers...),
		fallback: parser,
	}
}

// FindParser returns the platform parser for the given platform, or nil
func (r *Registry) FindParser(platform Platform) ProfileParser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, parser := range r.parsers {
		if parser.CanHandle(platform) {
			return parser
		}
	}

	return nil
}

// Parse runs the matching platform parser and then the fallback
func (r *Registry) Parse(profile *SocialProfile) {
	if parser := r.FindParser(profile.Platform); parser != nil {
		parser.Parse(profile)
	}

	r.mu.RLock()
	fallback := r.fallback
	r.mu.RUnlock()
	if fallback != nil {
		fallback.Parse(profile)
	}
}

// DefaultRegistry is the global parser registry
var DefaultRegistry = NewRegistry()
