package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

var (
	rapportHeadingPattern = regexp.MustCompile(`(?i)Rapport de.*`)
	fileSizePattern       = regexp.MustCompile(`\((\d+\.?\d*\s*[KM]B)\)`)
)

// rapportSection extracts the commission report files of a second-reading
// page. It returns nil when no heading matches or the container has no PDFs.
func (p *Parser) rapportSection(doc *goquery.Document, pageURL string) *legislation.RapportSection {
	heading := findRapportHeading(doc)
	if heading == nil {
		p.logger.Debug("no rapport heading", zap.String("url", pageURL))
		return nil
	}

	files := p.rapportFiles(rapportContainer(heading))
	if len(files) == 0 {
		p.logger.Debug("rapport heading without files", zap.String("url", pageURL))
		return nil
	}
	return &legislation.RapportSection{
		SectionTitle: cleanText(textReplacer.Replace(heading.Text())),
		Files:        files,
	}
}

// findRapportHeading tries, in order: flagged h3 section titles, h4
// headings, then any element whose own text mentions a report.
func findRapportHeading(doc *goquery.Document) *goquery.Selection {
	matchText := func(_ int, s *goquery.Selection) bool {
		return rapportHeadingPattern.MatchString(s.Text())
	}
	tiers := []*goquery.Selection{
		doc.Find("h3.section-title").FilterFunction(matchText),
		doc.Find("h4").FilterFunction(matchText),
		doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return rapportHeadingPattern.MatchString(ownText(s))
		}),
	}
	for _, tier := range tiers {
		if tier.Length() > 0 {
			return tier.First()
		}
	}
	return nil
}

// rapportContainer picks the element holding the report links: the next
// sibling div, the enclosing dp-related div, or the siblings up to the next
// heading.
func rapportContainer(heading *goquery.Selection) *goquery.Selection {
	if next := heading.NextAllFiltered("div").First(); next.Length() > 0 {
		return next
	}
	if parent := heading.ParentsFiltered("div.dp-related").First(); parent.Length() > 0 {
		return parent
	}
	return heading.NextUntil(headingSelector)
}

func (p *Parser) rapportFiles(container *goquery.Selection) []legislation.RapportFile {
	var (
		files []legislation.RapportFile
		seen  = make(map[string]struct{})
	)
	for _, a := range pdfAnchors(container) {
		href, _ := a.Attr("href")
		fileURL := resolve(p.base, href)
		if _, dup := seen[fileURL]; dup {
			continue
		}
		seen[fileURL] = struct{}{}
		files = append(files, legislation.RapportFile{
			Title:    cleanText(textReplacer.Replace(a.Text())),
			URL:      fileURL,
			Filename: lastSegment(href),
			Size:     fileSize(a),
		})
	}
	return files
}

// pdfAnchors lists PDF links in document order, including selection members
// that are anchors themselves.
func pdfAnchors(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	collect := func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && isPDF(href) {
			out = append(out, a)
		}
	}
	sel.Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "a" {
			collect(0, s)
			return
		}
		s.Find("a[href]").Each(collect)
	})
	return out
}

// fileSize looks for a "(1.2 MB)" annotation among the siblings following
// the link, stopping at the next link.
func fileSize(a *goquery.Selection) string {
	if a.Length() == 0 {
		return ""
	}
	for n := a.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		var text string
		switch n.Type {
		case html.TextNode:
			text = n.Data
		case html.ElementNode:
			if n.Data == "a" {
				return ""
			}
			text = goquery.NewDocumentFromNode(n).Text()
		}
		if m := fileSizePattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
