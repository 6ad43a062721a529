package scraper

import (
	"context"
	"errors"
	"io"
	"sync"

	"siteintel/fetcher"

	"github.com/charmbracelet/log"
)

var errUnreachable = errors.New("connection refused")

// stubFetcher serves canned bodies by URL and records every call
type stubFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	calls  []string
	tiers  []string
	before func(rawURL string)
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		pages: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string, tier fetcher.Tier) (*fetcher.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.tiers = append(f.tiers, tier.Name)
	body, ok := f.pages[rawURL]
	err := f.errs[rawURL]
	before := f.before
	f.mu.Unlock()

	if before != nil {
		before(rawURL)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fetcher.StatusError{URL: rawURL, StatusCode: 404}
	}
	return &fetcher.Response{URL: rawURL, StatusCode: 200, Body: body}, nil
}

func (f *stubFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
