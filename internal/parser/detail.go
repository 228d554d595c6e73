package parser

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

// stagePolicy decides which process data a reading stage may carry.
type stagePolicy struct {
	submissions   int  // commission tuples kept, in page order
	secondReading bool // deuxieme_lecture allowed
	rapport       bool // look for the commission report section
}

var stagePolicies = map[legislation.Stage]stagePolicy{
	legislation.StageLecture1: {submissions: 1},
	legislation.StageLecture2: {submissions: 2, secondReading: true, rapport: true},
	legislation.StageUnknown:  {secondReading: true},
}

// ParseDetail builds a record from a listing label and the bill's detail
// page. It never fails: when the page cannot be parsed the record carries
// only the label-derived fields.
func (p *Parser) ParseDetail(pageURL, rawLabel string, content []byte) legislation.Record {
	rec := legislation.Record{
		LawNumber: LawNumber(rawLabel),
		Title:     CleanTitle(rawLabel),
		FullTitle: rawLabel,
		URL:       pageURL,
		Stage:     legislation.DetectStage(rawLabel),
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		p.logger.Debug("detail page not parsable", zap.String("url", pageURL), zap.Error(err))
		return rec
	}

	rec.PageTitle = cleanText(textReplacer.Replace(doc.Find("h1").First().Text()))
	if href, ok := firstPDFHref(doc.Selection); ok {
		rec.PDFURL = resolve(p.base, href)
		rec.PDFFilename = lastSegment(href)
	}

	data := &processData{}
	doc.Find("div.dp-block").Each(func(_ int, block *goquery.Selection) {
		text := blockText(block)
		kind := classifyBlock(text)
		handler, ok := blockHandlers[kind]
		if !ok {
			return
		}
		handler(p, data, block, text)
	})

	p.applyStagePolicy(&rec, data, doc)
	return rec
}

func (p *Parser) applyStagePolicy(rec *legislation.Record, data *processData, doc *goquery.Document) {
	policy := stagePolicies[rec.Stage]

	premiere := legislation.PremiereLecture{Bureau: data.bureau, Seance: data.seance}
	if policy.submissions >= 1 && len(data.submissions) >= 1 {
		first := data.submissions[0]
		premiere.Commission = &first
	}
	if premiere.Bureau != nil || premiere.Commission != nil || premiere.Seance != nil {
		rec.Premiere = &premiere
	}

	if !policy.secondReading {
		return
	}
	deuxieme := legislation.DeuxiemeLecture{TransferDate: data.transferDate}
	if policy.submissions >= 2 && len(data.submissions) >= 2 {
		second := data.submissions[1]
		deuxieme.Commission = &second
	}
	if policy.rapport {
		deuxieme.Rapport = p.rapportSection(doc, rec.URL)
	}
	if !deuxieme.IsZero() {
		rec.Deuxieme = &deuxieme
	}
}
