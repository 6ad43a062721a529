package scraper

import (
	"context"

	"siteintel/config"
	"siteintel/htmldoc"
)

// crawlContactPages visits candidates one at a time, in order, and stops at the
// first page that yields an email. Failed candidates are skipped.
func (s *Service) crawlContactPages(ctx context.Context, candidates []string) []string {
	for _, pageURL := range candidates {
		emails, err := s.contactPageEmails(ctx, pageURL)
		if err != nil {
			s.logger.Debug("contact page skipped", "url", pageURL, "err", err)
			continue
		}
		if len(emails) > 0 {
			s.logger.Debug("contact page yielded emails", "url", pageURL, "count", len(emails))
			return emails
		}
	}
	return nil
}

func (s *Service) contactPageEmails(ctx context.Context, pageURL string) ([]string, error) {
	resp, err := s.fetcher.Fetch(ctx, pageURL, s.tiers[config.TierContact])
	if err != nil {
		return nil, err
	}
	doc, err := htmldoc.ParseString(resp.Body)
	if err != nil {
		return nil, err
	}
	return harvestEmails(doc), nil
}
