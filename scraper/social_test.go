package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"siteintel/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instagramPage = `<html><head>
<title>Brand X (@brandx) • Instagram</title>
<meta property="og:title" content="Brand X (@brandx)">
<meta property="og:description" content="12,3K Followers, 80 Following, 456 Posts - See Instagram photos and videos from Brand X (@brandx)">
</head><body></body></html>`

func TestBuildSocialProfilesDropsOtherPlatforms(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://instagram.com/brandx"] = instagramPage
	svc := NewService(f, WithLogger(quietLogger()))

	profiles := svc.buildSocialProfiles(context.Background(), []string{
		"https://instagram.com/brandx",
		"https://example.org/foo",
	})

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, Instagram, p.Platform)
	assert.Equal(t, "brandx", p.Username)
	assert.Equal(t, "Brand X (@brandx)", p.Name)
	assert.Equal(t, "456", p.PostsCount)
	assert.Equal(t, "12,3K", p.Followers)
	assert.Equal(t, "Account is public, images and captions available.", p.RecentPostSnippet)
	assert.Equal(t, "Mostly Reels/Video", p.ContentMix)
	assert.True(t, p.Scraped)

	assert.Equal(t, []string{"https://instagram.com/brandx"}, f.Calls())
}

func TestBuildSocialProfilesIsolatesFailures(t *testing.T) {
	links := []string{
		"https://facebook.com/brand",
		"https://instagram.com/brand",
		"https://linkedin.com/company/brand",
		"https://x.com/brand",
		"https://tiktok.com/@brand",
	}

	f := newStubFetcher()
	for _, link := range links {
		f.pages[link] = fmt.Sprintf(`<html><head><title>%s</title></head></html>`, link)
	}
	f.errs["https://linkedin.com/company/brand"] = errUnreachable

	svc := NewService(f, WithLogger(quietLogger()))
	profiles := svc.buildSocialProfiles(context.Background(), links)

	require.Len(t, profiles, 5)
	for i, p := range profiles {
		assert.Equal(t, links[i], p.URL, "output follows input order")
		if p.URL == "https://linkedin.com/company/brand" {
			assert.False(t, p.Scraped)
			assert.Equal(t, LinkedIn, p.Platform)
			assert.Equal(t, "brand", p.Username)
			assert.Empty(t, p.Name)
			continue
		}
		assert.True(t, p.Scraped, p.URL)
		assert.Equal(t, p.URL, p.Name)
	}
}

func TestBuildSocialProfilesRunsConcurrently(t *testing.T) {
	const n = 5
	var arrived sync.WaitGroup
	arrived.Add(n)
	allArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allArrived)
	}()

	f := newStubFetcher()
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("https://instagram.com/account%d", i)
		f.pages[links[i]] = "<html></html>"
	}
	// every fetch blocks until all of them are in flight
	f.before = func(string) {
		arrived.Done()
		select {
		case <-allArrived:
		case <-time.After(5 * time.Second):
		}
	}

	svc := NewService(f, WithLogger(quietLogger()))
	start := time.Now()
	profiles := svc.buildSocialProfiles(context.Background(), links)

	assert.Less(t, time.Since(start), 4*time.Second)
	require.Len(t, profiles, n)
	for _, p := range profiles {
		assert.True(t, p.Scraped)
	}
}

func TestBuildSocialProfilesWithLimit(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	f := newStubFetcher()
	links := make([]string, 6)
	for i := range links {
		links[i] = fmt.Sprintf("https://youtube.com/@channel%d", i)
		f.pages[links[i]] = "<html></html>"
	}
	f.before = func(string) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
	}

	svc := NewService(f, WithLogger(quietLogger()), WithSocialLimit(2))
	profiles := svc.buildSocialProfiles(context.Background(), links)

	assert.Len(t, profiles, 6)
	assert.LessOrEqual(t, peak, 2)
}

func TestEnrichProfileUsesBotTier(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://tiktok.com/@brand"] = "<html></html>"
	svc := NewService(f, WithLogger(quietLogger()))

	profiles := svc.buildSocialProfiles(context.Background(), []string{"https://tiktok.com/@brand"})

	require.Len(t, profiles, 1)
	assert.Equal(t, []string{config.TierSocial}, f.tiers)
}

func TestEnrichProfileMetadataPriority(t *testing.T) {
	tests := []struct {
		name     string
		head     string
		wantName string
		wantBio  string
	}{
		{
			name:     "open graph first",
			head:     `<title>T</title><meta name="twitter:title" content="TW"><meta property="og:title" content="OG"><meta name="description" content="D"><meta property="og:description" content="OGD">`,
			wantName: "OG",
			wantBio:  "OGD",
		},
		{
			name:     "twitter then meta description",
			head:     `<title>T</title><meta name="twitter:title" content="TW"><meta name="twitter:description" content="TWD"><meta name="description" content="D">`,
			wantName: "TW",
			wantBio:  "D",
		},
		{
			name:     "title and twitter description",
			head:     `<title>  Page title </title><meta property="og:title" content=""><meta name="twitter:description" content="TWD">`,
			wantName: "Page title",
			wantBio:  "TWD",
		},
		{
			name: "nothing",
			head: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStubFetcher()
			f.pages["https://linkedin.com/in/brand"] = "<html><head>" + tt.head + "</head><body></body></html>"
			svc := NewService(f, WithLogger(quietLogger()))

			profile := &SocialProfile{Platform: LinkedIn, URL: "https://linkedin.com/in/brand"}
			require.NoError(t, svc.enrichProfile(context.Background(), profile))

			assert.Equal(t, tt.wantName, profile.Name)
			assert.Equal(t, tt.wantBio, profile.Bio)
			assert.True(t, profile.Scraped)
		})
	}
}

func TestEnrichProfileRecencyFromBody(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://facebook.com/brand"] = `<html><body><span>Publié le 14 févr.</span><span>12 mars</span></body></html>`
	f.pages["https://facebook.com/late"] = "<html><body>" + strings.Repeat("x", 6000) + " 12 mars</body></html>"
	f.pages["https://facebook.com/bio"] = `<html><head><meta property="og:description" content="2 weeks ago"></head><body>3 jan</body></html>`
	svc := NewService(f, WithLogger(quietLogger()))

	profile := &SocialProfile{Platform: Facebook, URL: "https://facebook.com/brand"}
	require.NoError(t, svc.enrichProfile(context.Background(), profile))
	assert.Equal(t, "Around 12 mar", profile.Recency)

	late := &SocialProfile{Platform: Facebook, URL: "https://facebook.com/late"}
	require.NoError(t, svc.enrichProfile(context.Background(), late))
	assert.Empty(t, late.Recency)

	bio := &SocialProfile{Platform: Facebook, URL: "https://facebook.com/bio"}
	require.NoError(t, svc.enrichProfile(context.Background(), bio))
	assert.Equal(t, "2 2 ago", bio.Recency)
}

func TestEnrichProfileRecencyUnitOption(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://facebook.com/bio"] = `<html><head><meta property="og:description" content="2 weeks ago"></head></html>`
	svc := NewService(f, WithLogger(quietLogger()), WithRecencyUnit(true))

	profile := &SocialProfile{Platform: Facebook, URL: "https://facebook.com/bio"}
	require.NoError(t, svc.enrichProfile(context.Background(), profile))
	assert.Equal(t, "2 weeks ago", profile.Recency)
}

func TestRecencyUnitOptionIgnoresOrder(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://facebook.com/bio"] = `<html><head><meta property="og:description" content="2 weeks ago"></head></html>`

	for name, opts := range map[string][]Option{
		"registry first": {WithRegistry(NewRegistry()), WithRecencyUnit(true)},
		"registry last":  {WithRecencyUnit(true), WithRegistry(NewRegistry())},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(f, append(opts, WithLogger(quietLogger()))...)

			profile := &SocialProfile{Platform: Facebook, URL: "https://facebook.com/bio"}
			require.NoError(t, svc.enrichProfile(context.Background(), profile))
			assert.Equal(t, "2 weeks ago", profile.Recency)
		})
	}
}

type panickingParser struct{}

func (panickingParser) CanHandle(platform Platform) bool { return platform == YouTube }
func (panickingParser) Parse(*SocialProfile)            { panic("boom") }

func TestEnrichProfileRecoversPanics(t *testing.T) {
	f := newStubFetcher()
	f.pages["https://youtube.com/@brand"] = "<html><head><title>Brand</title></head></html>"
	f.pages["https://instagram.com/brand"] = instagramPage

	registry := NewRegistry()
	registry.Register(panickingParser{})
	svc := NewService(f, WithLogger(quietLogger()), WithRegistry(registry))

	profiles := svc.buildSocialProfiles(context.Background(), []string{
		"https://youtube.com/@brand",
		"https://instagram.com/brand",
	})

	require.Len(t, profiles, 2)
	assert.False(t, profiles[0].Scraped)
	assert.Equal(t, "Brand", profiles[0].Name)
	assert.True(t, profiles[1].Scraped)
}

func TestLeadingChars(t *testing.T) {
	assert.Equal(t, "ab", leadingChars("abc", 2))
	assert.Equal(t, "éé", leadingChars("ééé", 2))
	assert.Equal(t, "abc", leadingChars("abc", 10))
}
