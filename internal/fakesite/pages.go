package fakesite

// LectureOnePage is a first-reading bill: deposited, examined in committee
// and adopted in plenary.
const LectureOnePage = `<html><body>
<h1>Projet de loi N°03.25 relatif aux pétitions</h1>
<div class="dp-block">
  <h3>Bureau de la Chambre</h3>
  <div class="field">Texte source: Gouvernement</div>
  <div class="field">Date de dépôt: Lundi 6 janvier 2025</div>
  <a href="/sites/default/files/pl-03-25.pdf">Le texte tel qu'il a été déposé au Bureau de la Chambre</a>
</div>
<div class="dp-block">
  <h3>Commission</h3>
  <p>Soumis à Commission des Pétitions le Mardi 14 janvier 2025</p>
</div>
<div class="dp-block">
  <h3>Séance plénière</h3>
  <p>Date d'adoption en séance plénière: Mardi 11 février 2025</p>
  <p>Résultat du vote : Adopté à la majorité</p>
</div>
</body></html>`

// LectureTwoPage is a second-reading bill with a committee report.
const LectureTwoPage = `<html><body>
<h1>Projet de loi N°12.24 relatif aux archives</h1>
<div class="dp-block">
  <h3>Bureau de la Chambre</h3>
  <div class="field">Texte source: Chambre des Conseillers</div>
  <div class="field">Date de dépôt: Lundi 3 mars 2025</div>
  <a href="/sites/default/files/pl-12-24.pdf">Le texte tel qu'il a été déposé au Bureau de la Chambre</a>
</div>
<div class="dp-block">
  <h3>Commission</h3>
  <p>Soumis à Commission des Pétitions le Mercredi 16 avril 2025</p>
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
  <p>Soumis à Commission des Pétitions le Lundi 9 juin 2025</p>
</div>
<div class="dp-related">
  <h3 class="section-title">Rapport de la Commission</h3>
  <div class="files">
    <a href="/sites/default/files/rapport-12-24.pdf">Rapport de la commission</a> <span>(850 KB)</span>
  </div>
</div>
</body></html>`

// Fixture bills for commission 63.
var (
	LectureOne = Bill{Path: "/fr/legislation/projet-de-loi-n-0325", Label: "N°03.25 Projet de loi relatif aux pétitions Lecture 1"}
	LectureTwo = Bill{Path: "/fr/legislation/projet-de-loi-n-1224", Label: "N°12.24 Projet de loi relatif aux archives Lecture 2"}
)

// Commission63 registers the two fixture bills under both the All pass
// and commission 63, with their detail pages.
func (s *Site) Commission63() {
	s.Listing("All", "All", 0, LectureOne, LectureTwo)
	s.Listing("63", "All", 0, LectureOne, LectureTwo)
	s.Page(LectureOne.Path, LectureOnePage)
	s.Page(LectureTwo.Path, LectureTwoPage)
}
