package parser

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const siteBase = "https://www.chambredesrepresentants.ma"

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	base, err := url.Parse(siteBase)
	require.NoError(t, err)
	return New(base, nil)
}

func TestParseListing(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<nav><a href="/fr/node/12/projet-de-loi">nav</a><a href="/fr/user/login">login</a></nav>
<div class="view-content">
  <a href="/fr/legislation/projet-de-loi-n-0325">
     N°03.25 Loi organique   Lecture 1</a>
  <a href="https://www.chambredesrepresentants.ma/fr/legislation/projet-de-loi-n-1224">N°12.24 Lecture 2</a>
  <a href="/fr/admin/projet-de-loi-edit">edit</a>
  <a href="/fr/legislation/projet-de-loi-vide"> </a>
  <a href="/fr/actualites">news</a>
</div></body></html>`

	listing, err := newTestParser(t).ParseListing([]byte(page))
	require.NoError(t, err)
	assert.False(t, listing.NoContent)
	assert.False(t, listing.Done())
	require.Len(t, listing.Items, 2)
	assert.Equal(t, siteBase+"/fr/legislation/projet-de-loi-n-0325", listing.Items[0].Href)
	assert.Contains(t, listing.Items[0].RawLabel, "Lecture 1")
	assert.Equal(t, siteBase+"/fr/legislation/projet-de-loi-n-1224", listing.Items[1].Href)
}

func TestParseListingNoContentMarker(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	for _, page := range []string{
		`<div class="view-empty">Il n' y a pas de contenu</div>`,
		`<div class="view-empty">Il n’y a pas de contenu</div>`,
	} {
		listing, err := p.ParseListing([]byte(page))
		require.NoError(t, err)
		assert.True(t, listing.NoContent)
		assert.True(t, listing.Done())
	}
}

func TestListingDoneOnEmptyPage(t *testing.T) {
	t.Parallel()

	listing, err := newTestParser(t).ParseListing([]byte(`<html><body><p>rien</p></body></html>`))
	require.NoError(t, err)
	assert.False(t, listing.NoContent)
	assert.True(t, listing.Done())
}

func TestParseListingCollectsAllLinks(t *testing.T) {
	t.Parallel()

	listing, err := newTestParser(t).ParseListing([]byte(`<a href="/fr/a">a</a><a href="">empty</a><a href="https://other.example/b">b</a>`))
	require.NoError(t, err)
	assert.Equal(t, []string{siteBase + "/fr/a", "https://other.example/b"}, listing.Links)
	assert.Empty(t, listing.Items)
}

func TestParseYear(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	t.Run("first non sentinel option", func(t *testing.T) {
		t.Parallel()
		page := `<select name="field_annee_legislative_target_id">
  <option value="All">- Tout -</option>
  <option value="118">2024-2025</option>
  <option value="117">2023-2024</option>
</select>`
		year, ok, err := p.ParseYear([]byte(page))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, legislation.Year{Label: "2024-2025", ID: "118"}, year)
		assert.Equal(t, "2025", year.FileKey())
	})

	t.Run("only sentinels", func(t *testing.T) {
		t.Parallel()
		page := `<select name="field_annee_legislative_target_id"><option value="All">- Tout -</option></select>`
		_, ok, err := p.ParseYear([]byte(page))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing control", func(t *testing.T) {
		t.Parallel()
		_, _, err := p.ParseYear([]byte(`<select name="other"><option value="1">x</option></select>`))
		require.ErrorIs(t, err, ErrYearSelectorMissing)
	})
}
