// Package fakesite serves a small in-memory copy of the parliament's
// legislation pages for tests.
package fakesite

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// ListingPath is where the fake site serves its search results.
const ListingPath = "/fr/legislation/projets-de-loi"

// NoContent is the site's empty-results marker.
const NoContent = "Il n' y a pas de contenu"

// Bill is one entry of a results page and its detail page.
type Bill struct {
	Path  string
	Label string
}

// Site is an http.Handler. Listing requests that were never registered
// answer with the no-content marker; unknown paths answer 404.
type Site struct {
	mu        sync.Mutex
	yearLabel string
	yearID    string
	listings  map[string]string
	pages     map[string]string
	failures  map[string]int
	hits      map[string]int
}

// New creates a site for one legislative year.
func New(yearLabel, yearID string) *Site {
	return &Site{
		yearLabel: yearLabel,
		yearID:    yearID,
		listings:  make(map[string]string),
		pages:     make(map[string]string),
		failures:  make(map[string]int),
		hits:      make(map[string]int),
	}
}

// Listing registers the results page for one facet combination.
func (s *Site) Listing(commissionID, ministryID string, page int, bills ...Bill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listingKey(commissionID, ministryID, s.yearID, strconv.Itoa(page))] = s.listingHTML(bills)
}

// Page registers a detail page.
func (s *Site) Page(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = body
}

// Fail makes the next n requests for path answer 500.
func (s *Site) Fail(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// Hits returns how many requests reached path, including listing requests
// and failures.
func (s *Site) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path
	s.hits[path]++
	if n := s.failures[path]; n > 0 {
		s.failures[path] = n - 1
		http.Error(w, "unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if path == ListingPath {
		q := r.URL.Query()
		body, ok := s.listings[listingKey(
			valueOr(q.Get("commissions_id"), "All"),
			valueOr(q.Get("field_ministeres_new_target_id"), "All"),
			valueOr(q.Get("field_annee_legislative_target_id"), s.yearID),
			valueOr(q.Get("page"), "0"),
		)]
		if !ok {
			body = s.listingHTML(nil)
		}
		_, _ = w.Write([]byte(body))
		return
	}

	body, ok := s.pages[path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (s *Site) listingHTML(bills []Bill) string {
	var b strings.Builder
	b.WriteString("<html><body>\n<form>\n")
	b.WriteString(`<select name="field_annee_legislative_target_id">`)
	b.WriteString(`<option value="All">- Tout -</option>`)
	fmt.Fprintf(&b, `<option value="%s">%s</option>`, html.EscapeString(s.yearID), html.EscapeString(s.yearLabel))
	b.WriteString("</select>\n</form>\n<div class=\"view-content\">\n")
	if len(bills) == 0 {
		fmt.Fprintf(&b, "<div class=\"view-empty\">%s</div>\n", NoContent)
	}
	for _, bill := range bills {
		fmt.Fprintf(&b, "<div class=\"views-row\"><a href=\"%s\">%s</a></div>\n", bill.Path, html.EscapeString(bill.Label))
	}
	b.WriteString("</div>\n</body></html>")
	return b.String()
}

func listingKey(commissionID, ministryID, yearID, page string) string {
	return strings.Join([]string{commissionID, ministryID, yearID, page}, "|")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
