package scraper

import (
	"context"
	"fmt"
	"io"

	"siteintel/config"
	"siteintel/fetcher"
	"siteintel/htmldoc"
	"siteintel/utils"

	"github.com/charmbracelet/log"
)

// Service runs the website scraping pipeline
type Service struct {
	fetcher     Fetcher
	tiers       map[string]fetcher.Tier
	registry    *Registry
	socialLimit int
	logger      *log.Logger

	// applied to the final registry once every option has run
	recencyUnit *bool
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for swallowed failures
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTiers replaces the fetch tiers
func WithTiers(tiers map[string]config.TierConfig) Option {
	return func(s *Service) { s.tiers = buildTiers(tiers) }
}

// WithSocialLimit caps concurrent profile fetches. 0 means no cap.
func WithSocialLimit(n int) Option {
	return func(s *Service) { s.socialLimit = n }
}

// WithRecencyUnit controls whether generic recency hints keep their time unit.
// It applies to the registry in effect after all options, whatever their order.
func WithRecencyUnit(keep bool) Option {
	return func(s *Service) { s.recencyUnit = &keep }
}

// WithRegistry replaces the profile parser registry
func WithRegistry(r *Registry) Option {
	return func(s *Service) { s.registry = r }
}

// NewService creates a new scraper service
func NewService(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:  f,
		tiers:    buildTiers(config.FetchTiers),
		registry: DefaultRegistry,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recencyUnit != nil {
		s.registry = s.registry.WithFallback(&GenericParser{KeepRecencyUnit: *s.recencyUnit})
	}
	return s
}

func buildTiers(tiers map[string]config.TierConfig) map[string]fetcher.Tier {
	out := make(map[string]fetcher.Tier, len(tiers))
	for name, tc := range tiers {
		out[name] = fetcher.TierFromConfig(name, tc)
	}
	return out
}

// ScrapeWebsite extracts emails, title, description and social presence from the site at rawURL.
// It never fails: if the primary page cannot be fetched, or rawURL is malformed, the
// degraded result with empty fields and no social profiles is returned.
func (s *Service) ScrapeWebsite(ctx context.Context, rawURL string) (data ScrapedData) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scrape panicked", "url", rawURL, "panic", r)
			data = degradedResult()
		}
	}()

	result, err := s.scrape(ctx, rawURL)
	if err != nil {
		s.logger.Warn("scrape failed", "url", rawURL, "err", err)
		return degradedResult()
	}
	return *result
}

func (s *Service) scrape(ctx context.Context, rawURL string) (*ScrapedData, error) {
	origin, err := utils.Origin(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.fetcher.Fetch(ctx, rawURL, s.tiers[config.TierPrimary])
	if err != nil {
		return nil, fmt.Errorf("failed to fetch primary page: %w", err)
	}

	doc, err := htmldoc.ParseString(resp.Body)
	if err != nil {
		return nil, err
	}

	page := harvestPage(doc, origin)

	emails := page.Emails
	if len(emails) == 0 && len(page.ContactPages) > 0 {
		emails = append(emails, s.crawlContactPages(ctx, page.ContactPages)...)
	}

	hints := socialContext(doc, doc.BodyText())
	profiles := s.buildSocialProfiles(ctx, page.SocialLinks)

	s.logger.Debug("scraped website", "url", rawURL, "emails", len(emails), "social_links", len(page.SocialLinks))

	return &ScrapedData{
		Emails:         SanitizeEmails(emails),
		Title:          page.Title,
		Description:    withSocialContext(page.Description, hints),
		SocialLinks:    page.SocialLinks,
		SocialProfiles: profiles,
	}, nil
}
