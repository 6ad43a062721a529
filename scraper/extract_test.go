package scraper

import (
	"testing"

	"siteintel/htmldoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarvestPage(t *testing.T) {
	doc, err := htmldoc.ParseString(`<html><head>
		<title>
			Boulangerie Martin
		</title>
		<meta name="description" content="Pain au levain">
	</head><body>
		<p>Écrivez-nous : bonjour@martin.fr</p>
		<a href="https://www.instagram.com/martin">IG</a>
		<a href="https://www.instagram.com/martin">IG again</a>
		<a href="https://facebook.com/martin">FB</a>
		<a href="https://www.dropbox.com/s/menu.pdf">Menu</a>
		<a href="/contact">Contact</a>
		<a href="/Contact">Contact (caps)</a>
		<a href="/a-propos">À propos</a>
		<a href="/fr/nous-joindre">Nous joindre</a>
		<a href="/about-us">About</a>
		<a href="https://partner.fr/contact">Partner</a>
		<a href="">empty</a>
	</body></html>`)
	require.NoError(t, err)

	page := harvestPage(doc, "https://martin.fr")

	assert.Equal(t, "Boulangerie Martin", page.Title)
	assert.Equal(t, "Pain au levain", page.Description)
	assert.Equal(t, []string{"bonjour@martin.fr"}, page.Emails)
	assert.Equal(t, []string{
		"https://www.instagram.com/martin",
		"https://facebook.com/martin",
		"https://www.dropbox.com/s/menu.pdf", // contains "x.com"
	}, page.SocialLinks)
	assert.Equal(t, []string{
		"https://martin.fr/contact",
		"https://martin.fr/Contact",
		"https://martin.fr/a-propos",
	}, page.ContactPages)
}

func TestHarvestPageMissingMeta(t *testing.T) {
	doc, err := htmldoc.ParseString(`<html><body>nothing here</body></html>`)
	require.NoError(t, err)

	page := harvestPage(doc, "https://martin.fr")

	assert.Empty(t, page.Title)
	assert.Empty(t, page.Description)
	assert.Empty(t, page.Emails)
	assert.NotNil(t, page.SocialLinks)
	assert.Empty(t, page.SocialLinks)
	assert.Empty(t, page.ContactPages)
}

func TestHarvestPageDedupesBeforeTruncating(t *testing.T) {
	doc, err := htmldoc.ParseString(`<body>
		<a href="/contact">1</a><a href="/contact">2</a><a href="/contact">3</a>
		<a href="/about">4</a>
	</body>`)
	require.NoError(t, err)

	page := harvestPage(doc, "https://martin.fr")

	assert.Equal(t, []string{"https://martin.fr/contact", "https://martin.fr/about"}, page.ContactPages)
}
