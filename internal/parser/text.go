package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// breakingElements end a line of block text when they open or close.
var breakingElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true, atom.Tr: true,
	atom.Ul: true,
}

var textReplacer = strings.NewReplacer("\u00a0", " ", "\u2019", "'", "\u02bc", "'")

// blockText renders the text of a selection with one line per block-level
// element, whitespace collapsed inside each line and empty lines dropped.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeNodeText(&b, n)
		b.WriteByte('\n')
	}
	lines := strings.Split(textReplacer.Replace(b.String()), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = cleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	breaks := n.Type == html.ElementNode && breakingElements[n.DataAtom]
	if breaks {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
	if breaks {
		b.WriteByte('\n')
	}
}

// ownText returns only the direct text children of the first node.
func ownText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return cleanText(textReplacer.Replace(b.String()))
}

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanTitle collapses whitespace in a listing label.
func CleanTitle(label string) string {
	return cleanText(label)
}

func isPDF(href string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(href)), ".pdf")
}

// lastSegment returns the part of href after its final slash.
func lastSegment(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}

// resolve makes href absolute against base. Unparsable hrefs are returned as is.
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	abs := base.ResolveReference(ref)
	return abs.String()
}
