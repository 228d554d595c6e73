package parser

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const billPage = `<html><body>
<h1>Projet de loi N°12.24 relatif aux archives</h1>
<div class="dp-block">
  <h3>Bureau de la Chambre</h3>
  <div class="field">Texte source: Gouvernement</div>
  <div class="field">Date de dépôt: Lundi 3 mars 2025</div>
  <a href="/sites/default/files/texte-depose.pdf">Le texte tel qu’il a été déposé au Bureau de la Chambre</a>
</div>
<div class="dp-block">
  <h3>Commission</h3>
  <p>Soumis à Commission des secteurs sociaux le Mercredi 16 avril 2025</p>
</div>
<div class="dp-block">
  <h3>Séance plénière</h3>
  <p>Date d'adoption en séance plénière: Mardi 20 mai 2025</p>
  <p>Résultat du vote : Adopté à l'unanimité</p>
</div>
<div class="dp-block">
  <h3>Bureau de la Chambre</h3>
  <p>Il a été transféré à la Chambre le Jeudi 5 juin 2025</p>
</div>
<div class="dp-block">
  <p>Soumis à Commission de justice, de législation le Lundi 9 juin 2025</p>
</div>
<div class="dp-related">
  <h3 class="section-title">Rapport de la Commission</h3>
  <div class="files">
    <a href="/sites/default/files/rapport-1.pdf">Rapport partie 1</a> <span>(1.2 MB)</span>
    <a href="/sites/default/files/rapport-2.PDF">Rapport partie 2</a>
    <a href="https://www.chambredesrepresentants.ma/sites/default/files/rapport-1.pdf">Rapport partie 1 (copie)</a>
  </div>
</div>
</body></html>`

const billURL = siteBase + "/fr/legislation/projet-de-loi-n-1224"

func TestParseDetailLectureTwo(t *testing.T) {
	t.Parallel()

	rec := newTestParser(t).ParseDetail(billURL, "N°12.24 Projet de loi relatif aux archives Lecture 2", []byte(billPage))

	assert.Equal(t, "12.24", rec.LawNumber)
	assert.Equal(t, legislation.StageLecture2, rec.Stage)
	assert.Equal(t, "Projet de loi N°12.24 relatif aux archives", rec.PageTitle)
	assert.Equal(t, siteBase+"/sites/default/files/texte-depose.pdf", rec.PDFURL)
	assert.Equal(t, "texte-depose.pdf", rec.PDFFilename)

	require.NotNil(t, rec.Premiere)
	require.NotNil(t, rec.Premiere.Bureau)
	assert.Equal(t, legislation.BureauDeposit{
		TexteSource: "Gouvernement",
		DateDepot:   "Lundi 3 mars 2025",
		TexteDepose: "Le texte tel qu'il a été déposé au Bureau de la Chambre",
		PDFLink:     siteBase + "/sites/default/files/texte-depose.pdf",
	}, *rec.Premiere.Bureau)
	require.NotNil(t, rec.Premiere.Commission)
	assert.Equal(t, "Commission des secteurs sociaux", rec.Premiere.Commission.CommissionName)
	assert.Equal(t, "Mercredi 16 avril 2025", rec.Premiere.Commission.SubmissionDate)
	require.NotNil(t, rec.Premiere.Seance)
	assert.Equal(t, "Mardi 20 mai 2025", rec.Premiere.Seance.AdoptionDate)
	assert.Equal(t, "Adopté à l'unanimité", rec.Premiere.Seance.VoteResults)

	require.NotNil(t, rec.Deuxieme)
	assert.Equal(t, "Jeudi 5 juin 2025", rec.Deuxieme.TransferDate)
	require.NotNil(t, rec.Deuxieme.Commission)
	assert.Equal(t, "Commission de justice, de législation", rec.Deuxieme.Commission.CommissionName)
	assert.Equal(t, "Lundi 9 juin 2025", rec.Deuxieme.Commission.SubmissionDate)

	require.NotNil(t, rec.Deuxieme.Rapport)
	assert.Equal(t, "Rapport de la Commission", rec.Deuxieme.Rapport.SectionTitle)
	require.Len(t, rec.Deuxieme.Rapport.Files, 2)
	assert.Equal(t, legislation.RapportFile{
		Title:    "Rapport partie 1",
		URL:      siteBase + "/sites/default/files/rapport-1.pdf",
		Filename: "rapport-1.pdf",
		Size:     "1.2 MB",
	}, rec.Deuxieme.Rapport.Files[0])
	assert.Equal(t, "rapport-2.PDF", rec.Deuxieme.Rapport.Files[1].Filename)
	assert.Empty(t, rec.Deuxieme.Rapport.Files[1].Size)
}

func TestParseDetailLectureOne(t *testing.T) {
	t.Parallel()

	rec := newTestParser(t).ParseDetail(billURL, "N°03.25 Loi organique Lecture 1", []byte(billPage))

	assert.Equal(t, "03.25", rec.LawNumber)
	assert.Equal(t, legislation.StageLecture1, rec.Stage)
	require.NotNil(t, rec.Premiere)
	require.NotNil(t, rec.Premiere.Commission)
	assert.Equal(t, "Commission des secteurs sociaux", rec.Premiere.Commission.CommissionName)
	assert.Nil(t, rec.Deuxieme, "first reading never carries a second reading")
}

func TestParseDetailUnknownStage(t *testing.T) {
	t.Parallel()

	rec := newTestParser(t).ParseDetail(billURL, "Projet de loi sans lecture", []byte(billPage))

	assert.Equal(t, legislation.StageUnknown, rec.Stage)
	require.NotNil(t, rec.Premiere)
	assert.Nil(t, rec.Premiere.Commission)
	require.NotNil(t, rec.Deuxieme)
	assert.Equal(t, "Jeudi 5 juin 2025", rec.Deuxieme.TransferDate)
	assert.Nil(t, rec.Deuxieme.Commission)
	assert.Nil(t, rec.Deuxieme.Rapport)
}

func TestParseDetailEmptyPageKeepsLabelFields(t *testing.T) {
	t.Parallel()

	rec := newTestParser(t).ParseDetail(billURL, "  N°03.25  Loi Lecture 1 ", nil)

	assert.Equal(t, "03.25", rec.LawNumber)
	assert.Equal(t, "N°03.25 Loi Lecture 1", rec.Title)
	assert.Equal(t, "  N°03.25  Loi Lecture 1 ", rec.FullTitle)
	assert.Equal(t, billURL, rec.URL)
	assert.Empty(t, rec.PDFURL)
	assert.Nil(t, rec.Premiere)
	assert.Nil(t, rec.Deuxieme)
}

func TestStageDetection(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	cases := map[string]legislation.Stage{
		"Projet N°1.25 Lecture 2":             legislation.StageLecture2,
		"Projet N°1.25 Lecture 1":             legislation.StageLecture1,
		"Projet Lecture 1 puis Lecture 2":     legislation.StageLecture2,
		"Projet de loi N°1.25":                legislation.StageUnknown,
		"Projet lecture 1 (lower case label)": legislation.StageUnknown,
	}
	for label, want := range cases {
		assert.Equal(t, want, p.ParseDetail(billURL, label, []byte(billPage)).Stage, label)
	}
}

func TestCommissionSubmissionPatterns(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	tests := []struct {
		text     string
		wantName string
		wantDate string
	}{
		{"Soumis à Commission des finances le Vendredi 25 juillet 2025, en séance", "Commission des finances", "Vendredi 25 juillet 2025"},
		{"Soumis à CTTCC le Lundi 7 juillet 2025", "CTTCC", "Lundi 7 juillet 2025"},
	}
	for _, tt := range tests {
		data := &processData{}
		p.handleCommission(data, nil, tt.text)
		require.Len(t, data.submissions, 1, tt.text)
		assert.Equal(t, tt.wantName, data.submissions[0].CommissionName)
		assert.Equal(t, tt.wantDate, data.submissions[0].SubmissionDate)
	}

	data := &processData{}
	p.handleCommission(data, nil, "Soumis à Commission sans date")
	assert.Empty(t, data.submissions)
}

func TestClassifyBlock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BlockBureau, classifyBlock("Bureau de la Chambre\nSoumis à Commission X le Lundi"))
	assert.Equal(t, BlockCommission, classifyBlock("Soumis à Commission des finances le Lundi"))
	assert.Equal(t, BlockUnknown, classifyBlock("Soumis à la plénière le Lundi"))
	assert.Equal(t, BlockSeance, classifyBlock("Séance plénière"))
	assert.Equal(t, BlockUnknown, classifyBlock("Publication au Bulletin officiel"))
}

func TestRapportDedupByResolvedURL(t *testing.T) {
	t.Parallel()

	page := `<h3 class="section-title">Rapport de la commission</h3>
<div>
  <a href="/files/rapport.pdf">Rapport</a>
  <a href="https://www.chambredesrepresentants.ma/files/rapport.pdf">Rapport (bis)</a>
</div>`
	doc, err := goquery.NewDocumentFromReader(stringsReader(page))
	require.NoError(t, err)

	section := newTestParser(t).rapportSection(doc, billURL)
	require.NotNil(t, section)
	require.Len(t, section.Files, 1)
	assert.Equal(t, siteBase+"/files/rapport.pdf", section.Files[0].URL)
}

func TestRapportFallbackToFollowingSiblings(t *testing.T) {
	t.Parallel()

	page := `<h4>Rapport de la commission des finances</h4>
<ul><li><a href="/files/r.pdf">R</a> (300 KB)</li></ul>
<h4>Autres documents</h4>
<ul><li><a href="/files/x.pdf">X</a></li></ul>`
	doc, err := goquery.NewDocumentFromReader(stringsReader(page))
	require.NoError(t, err)

	section := newTestParser(t).rapportSection(doc, billURL)
	require.NotNil(t, section)
	require.Len(t, section.Files, 1)
	assert.Equal(t, "r.pdf", section.Files[0].Filename)
	assert.Equal(t, "300 KB", section.Files[0].Size)
}

func TestRapportAbsentOrEmpty(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	for _, page := range []string{
		`<h3 class="section-title">Documents</h3><div><a href="/a.pdf">a</a></div>`,
		`<h3 class="section-title">Rapport de la commission</h3><div><a href="/a.html">a</a></div>`,
	} {
		doc, err := goquery.NewDocumentFromReader(stringsReader(page))
		require.NoError(t, err)
		assert.Nil(t, p.rapportSection(doc, billURL))
	}
}

func TestBlockTextBreaksAtBlockElements(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(stringsReader(
		`<div class="dp-block"><div>Date de dépôt:</div><div>Lundi&nbsp;3 mars 2025</div><span>inline</span> <b>text</b></div>`))
	require.NoError(t, err)

	assert.Equal(t, "Date de dépôt:\nLundi 3 mars 2025\ninline text", blockText(doc.Find("div.dp-block")))
}
