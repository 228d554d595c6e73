package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const yearSelectName = "field_annee_legislative_target_id"

// ErrYearSelectorMissing is returned when the listing page has no usable
// legislative-year control.
var ErrYearSelectorMissing = errors.New("legislative year selector missing")

var (
	billHrefPattern = regexp.MustCompile(`/fr/.*projet-de-loi`)
	excludedPaths   = []string{"/node/", "/user/", "/admin/"}
	noContentMarks  = []string{"Il n' y a pas de contenu", "Il n'y a pas de contenu"}
)

// ListingItem is one candidate bill link on a listing page.
type ListingItem struct {
	Href     string
	RawLabel string
}

// Listing is the parsed result of one search-results page.
type Listing struct {
	Items     []ListingItem
	Links     []string // every anchor target, resolved
	NoContent bool
}

// Done reports whether the page ends the paging loop for its filter.
// An empty page counts as done even without the marker.
func (l Listing) Done() bool {
	return l.NoContent || len(l.Items) == 0
}

// ParseListing extracts bill links in document order, along with every
// other link on the page.
func (p *Parser) ParseListing(content []byte) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Listing{}, fmt.Errorf("parse listing: %w", err)
	}

	listing := Listing{NoContent: hasNoContentMarker(doc)}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) != "" {
			listing.Links = append(listing.Links, resolve(p.base, href))
		}
		if !isBillHref(href) {
			return
		}
		label := strings.TrimSpace(a.Text())
		if label == "" {
			return
		}
		listing.Items = append(listing.Items, ListingItem{
			Href:     resolve(p.base, href),
			RawLabel: label,
		})
	})
	return listing, nil
}

// ParseYear reads the legislative-year control and returns the first option
// that is not the "all years" sentinel. ok is false when the control only
// holds sentinels; the caller then falls back to a computed year.
func (p *Parser) ParseYear(content []byte) (year legislation.Year, ok bool, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return legislation.Year{}, false, fmt.Errorf("parse year selector: %w", err)
	}
	options := doc.Find(fmt.Sprintf("select[name=%q] option", yearSelectName))
	if options.Length() == 0 {
		return legislation.Year{}, false, ErrYearSelectorMissing
	}
	options.EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		value, _ := opt.Attr("value")
		label := cleanText(opt.Text())
		if value == legislation.AllFilterID || label == "- Tout -" {
			return true
		}
		year = legislation.Year{Label: label, ID: strings.TrimSpace(value)}
		ok = true
		return false
	})
	return year, ok, nil
}

func isBillHref(href string) bool {
	if !billHrefPattern.MatchString(href) {
		return false
	}
	for _, skip := range excludedPaths {
		if strings.Contains(href, skip) {
			return false
		}
	}
	return true
}

func hasNoContentMarker(doc *goquery.Document) bool {
	text := textReplacer.Replace(doc.Text())
	for _, mark := range noContentMarks {
		if strings.Contains(text, mark) {
			return true
		}
	}
	return false
}
