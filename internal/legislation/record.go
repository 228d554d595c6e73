package legislation

import (
	"strconv"
	"strings"
	"time"
)

// Stage is the reading stage of a bill, derived from its listing label.
type Stage string

// Stage values written to the snapshot.
const (
	StageLecture1 Stage = "Lecture 1"
	StageLecture2 Stage = "Lecture 2"
	StageUnknown  Stage = "Unknown"
)

// DetectStage derives the reading stage from a raw listing label.
// "Lecture 2" is checked first so a label mentioning both resolves to the later stage.
func DetectStage(label string) Stage {
	switch {
	case strings.Contains(label, string(StageLecture2)):
		return StageLecture2
	case strings.Contains(label, string(StageLecture1)):
		return StageLecture1
	default:
		return StageUnknown
	}
}

// Record is one bill as extracted from the listing and its detail page.
type Record struct {
	LawNumber    string           `json:"law_number"`
	Title        string           `json:"title"`
	FullTitle    string           `json:"full_title"`
	PageTitle    string           `json:"page_title,omitempty"`
	URL          string           `json:"url"`
	Stage        Stage            `json:"stage"`
	Commission   string           `json:"commission"`
	CommissionID string           `json:"commission_id"`
	Ministry     string           `json:"ministry"`
	MinistryID   string           `json:"ministry_id"`
	PDFURL       string           `json:"pdf_url"`
	PDFFilename  string           `json:"pdf_filename"`
	Page         int              `json:"page,omitempty"`
	Premiere     *PremiereLecture `json:"premiere_lecture,omitempty"`
	Deuxieme     *DeuxiemeLecture `json:"deuxieme_lecture,omitempty"`
	ScrapedAt    time.Time        `json:"scraped_at"`
}

// PremiereLecture groups the first-reading process steps.
type PremiereLecture struct {
	Bureau     *BureauDeposit        `json:"bureau_de_la_chambre,omitempty"`
	Commission *CommissionSubmission `json:"commission,omitempty"`
	Seance     *SeancePleniere       `json:"seance_pleniere,omitempty"`
}

// BureauDeposit is the deposit of the text with the Bureau de la Chambre.
type BureauDeposit struct {
	TexteSource string `json:"texte_source"`
	DateDepot   string `json:"date_depot"`
	TexteDepose string `json:"texte_depose"`
	PDFLink     string `json:"pdf_link"`
}

// IsZero reports whether no deposit field was recovered.
func (b BureauDeposit) IsZero() bool {
	return b == BureauDeposit{}
}

// CommissionSubmission is one "Soumis à <commission> le <date>" event.
type CommissionSubmission struct {
	CommissionName string `json:"commission_name"`
	SubmissionDate string `json:"submission_date"`
}

// SeancePleniere holds the plenary adoption outcome.
type SeancePleniere struct {
	AdoptionDate string `json:"adoption_date"`
	VoteResults  string `json:"vote_results"`
}

// IsZero reports whether neither plenary field was recovered.
func (s SeancePleniere) IsZero() bool {
	return s == SeancePleniere{}
}

// DeuxiemeLecture groups the second-reading process steps.
type DeuxiemeLecture struct {
	TransferDate string                `json:"transfer_date,omitempty"`
	Commission   *CommissionSubmission `json:"commission,omitempty"`
	Rapport      *RapportSection       `json:"rapport_section,omitempty"`
}

// IsZero reports whether the second reading carries no data.
func (d DeuxiemeLecture) IsZero() bool {
	return d.TransferDate == "" && d.Commission == nil && d.Rapport == nil
}

// RapportSection is the commission report area of a second-reading bill.
type RapportSection struct {
	SectionTitle string        `json:"section_title"`
	Files        []RapportFile `json:"files"`
}

// RapportFile is one downloadable report document.
type RapportFile struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     string `json:"size,omitempty"`
}

// Year identifies a legislative year by display label and filter id.
type Year struct {
	Label string
	ID    string
}

// FileKey returns the suffix used in the snapshot filename: the last
// dash-separated part of the label ("2024-2025" -> "2025").
func (y Year) FileKey() string {
	parts := strings.Split(strings.TrimSpace(y.Label), "-")
	return strings.TrimSpace(parts[len(parts)-1])
}

// FallbackYear computes a year from the calendar when the listing exposes no
// usable year option.
func FallbackYear(now time.Time) Year {
	y := now.Year()
	return Year{
		Label: strconv.Itoa(y) + "-" + strconv.Itoa(y+1),
		ID:    strconv.Itoa(y),
	}
}

// Snapshot is the persisted document for one legislative year.
type Snapshot struct {
	CurrentYear   string    `json:"current_year"`
	CurrentYearID string    `json:"current_year_id"`
	TotalItems    int       `json:"total_items"`
	ScrapedAt     time.Time `json:"scraped_at"`
	Data          []Record  `json:"data"`
}

// NewSnapshot wraps records in snapshot metadata.
func NewSnapshot(year Year, records []Record, scrapedAt time.Time) Snapshot {
	if records == nil {
		records = []Record{}
	}
	return Snapshot{
		CurrentYear:   year.Label,
		CurrentYearID: year.ID,
		TotalItems:    len(records),
		ScrapedAt:     scrapedAt,
		Data:          records,
	}
}
