package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

// BlockKind tags a legislative-process block on a detail page.
type BlockKind int

// Block kinds recognised by classifyBlock.
const (
	BlockUnknown BlockKind = iota
	BlockBureau
	BlockCommission
	BlockSeance
)

func (k BlockKind) String() string {
	switch k {
	case BlockBureau:
		return "bureau"
	case BlockCommission:
		return "commission"
	case BlockSeance:
		return "seance"
	default:
		return "unknown"
	}
}

const (
	bureauMarker       = "Bureau de la Chambre"
	transferMarker     = "Il a été transféré à la Chambre le"
	submissionMarker   = "Soumis à Commission"
	seanceMarker       = "Séance plénière"
	texteDeposeMarker  = "Le texte tel qu'il a été déposé"
	texteDeposeValue   = "Le texte tel qu'il a été déposé au Bureau de la Chambre"
	dateDepotLabel     = "Date de dépôt"
	adoptionDateMarker = "Date d'adoption en séance plénière"
)

var (
	transferPattern     = regexp.MustCompile(`Il a été transféré à la Chambre le\s+([^,\n]+)`)
	texteSourcePattern  = regexp.MustCompile(`Texte source\s*:\s*([^\n]*)`)
	dateDepotPattern    = regexp.MustCompile(`Date de dépôt\s*:\s*([^,\n]+)`)
	strictSubmission    = regexp.MustCompile(`Soumis à ([^le]+?) le ([^,\n]+)`)
	permissiveSubmit    = regexp.MustCompile(`Soumis à (.+?) le ([^,\n]+)`)
	adoptionDatePattern = regexp.MustCompile(`Date d'adoption en séance plénière\s*:\s*([^,\n]+)`)
	votePattern         = regexp.MustCompile(`Résultat du vote\s*:\s*([^,\n]+)`)
)

// classifyBlock maps block text to a kind. Bureau wins over commission,
// which wins over plenary session.
func classifyBlock(text string) BlockKind {
	switch {
	case strings.Contains(text, bureauMarker):
		return BlockBureau
	case strings.Contains(text, "Commission") && strings.Contains(text, submissionMarker):
		return BlockCommission
	case strings.Contains(text, seanceMarker):
		return BlockSeance
	default:
		return BlockUnknown
	}
}

// processData accumulates block data before the stage policy shapes it.
type processData struct {
	bureau       *legislation.BureauDeposit
	transferDate string
	submissions  []legislation.CommissionSubmission
	seance       *legislation.SeancePleniere
}

type blockHandler func(p *Parser, data *processData, block *goquery.Selection, text string)

var blockHandlers = map[BlockKind]blockHandler{
	BlockBureau:     (*Parser).handleBureau,
	BlockCommission: (*Parser).handleCommission,
	BlockSeance:     (*Parser).handleSeance,
}

func (p *Parser) handleBureau(data *processData, block *goquery.Selection, text string) {
	if strings.Contains(text, transferMarker) {
		if m := transferPattern.FindStringSubmatch(text); m != nil {
			data.transferDate = strings.TrimSpace(m[1])
		} else {
			p.logger.Debug("transfer date not found", zap.String("block", text))
		}
		return
	}

	deposit := legislation.BureauDeposit{}
	if m := texteSourcePattern.FindStringSubmatch(text); m != nil {
		source := m[1]
		if i := strings.Index(source, dateDepotLabel); i >= 0 {
			source = source[:i]
		}
		deposit.TexteSource = strings.TrimSpace(source)
	}
	if m := dateDepotPattern.FindStringSubmatch(text); m != nil {
		deposit.DateDepot = strings.TrimSpace(m[1])
	}
	if strings.Contains(text, texteDeposeMarker) {
		deposit.TexteDepose = texteDeposeValue
		if href, ok := firstPDFHref(block); ok {
			deposit.PDFLink = resolve(p.base, href)
		}
	}

	if data.bureau == nil {
		data.bureau = &legislation.BureauDeposit{}
	}
	mergeDeposit(data.bureau, deposit)
}

func (p *Parser) handleCommission(data *processData, _ *goquery.Selection, text string) {
	m := strictSubmission.FindStringSubmatch(text)
	if m == nil {
		m = permissiveSubmit.FindStringSubmatch(text)
	}
	if m == nil {
		p.logger.Debug("commission submission not recognised", zap.String("block", text))
		return
	}
	data.submissions = append(data.submissions, legislation.CommissionSubmission{
		CommissionName: strings.TrimSpace(m[1]),
		SubmissionDate: strings.TrimSpace(m[2]),
	})
}

func (p *Parser) handleSeance(data *processData, _ *goquery.Selection, text string) {
	if data.seance == nil {
		data.seance = &legislation.SeancePleniere{}
	}
	if strings.Contains(text, adoptionDateMarker) {
		if m := adoptionDatePattern.FindStringSubmatch(text); m != nil {
			data.seance.AdoptionDate = strings.TrimSpace(m[1])
		}
	}
	if m := votePattern.FindStringSubmatch(text); m != nil {
		data.seance.VoteResults = strings.TrimSpace(m[1])
	}
	if data.seance.IsZero() {
		p.logger.Debug("plenary session fields not found", zap.String("block", text))
	}
}

// mergeDeposit copies the non-empty fields of src over dst.
func mergeDeposit(dst *legislation.BureauDeposit, src legislation.BureauDeposit) {
	if src.TexteSource != "" {
		dst.TexteSource = src.TexteSource
	}
	if src.DateDepot != "" {
		dst.DateDepot = src.DateDepot
	}
	if src.TexteDepose != "" {
		dst.TexteDepose = src.TexteDepose
	}
	if src.PDFLink != "" {
		dst.PDFLink = src.PDFLink
	}
}

func firstPDFHref(sel *goquery.Selection) (string, bool) {
	var found string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if isPDF(href) {
			found = strings.TrimSpace(href)
			return false
		}
		return true
	})
	return found, found != ""
}
