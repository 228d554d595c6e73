package legislation

// AllFilterID is the sentinel value of both listing facets.
const AllFilterID = "All"

// DefaultMinistry is held by records no ministry filter has claimed yet.
const DefaultMinistry = "To be identified"

// Filter is one value of a listing facet.
type Filter struct {
	ID   string
	Name string
}

// IsSentinel reports whether the filter is the "all values" pseudo-filter.
func (f Filter) IsSentinel() bool {
	return f.ID == AllFilterID
}

// Commissions is the commission facet in crawl order.
var Commissions = []Filter{
	{ID: AllFilterID, Name: "All commissions"},
	{ID: "63", Name: "Commission des Pétitions"},
	{ID: "64", Name: "Commission des affaires étrangères, de la défense nationale, des affaires islamiques, des affaires de la migration et des MRE"},
	{ID: "65", Name: "Commission de l'intérieur, des collectivités territoriales, de l'habitat, de la politique de la ville et des affaires administratives"},
	{ID: "66", Name: "Commission de justice, de législation, des droits de l'homme et des libertés"},
	{ID: "67", Name: "Commission des finances et du développement économique"},
	{ID: "68", Name: "Commission des secteurs sociaux"},
	{ID: "69", Name: "Commission des secteurs productifs"},
	{ID: "70", Name: "Commission des infrastructures, de l'énergie, des mines, de l'environnement et du développement durable"},
	{ID: "71", Name: "Commission de l'enseignement, de la culture et de la communication"},
	{ID: "72", Name: "Commission du contrôle des finances publiques et de la gouvernance"},
}

// Ministries is the ministry facet in backfill order.
var Ministries = []Filter{
	{ID: AllFilterID, Name: "All ministries"},
	{ID: "1", Name: "Economie et finances"},
	{ID: "2", Name: "Éducation nationale"},
	{ID: "3", Name: "Énergie et mines"},
	{ID: "4", Name: "Équipement et transport"},
	{ID: "5", Name: "Habous et des affaires islamiques"},
	{ID: "6", Name: "Emploi et formation professionnelle"},
	{ID: "7", Name: "Enseignement supérieur, recherche scientifique et formation des cadres"},
	{ID: "8", Name: "Agriculture et pêche maritime"},
	{ID: "9", Name: "Chef du Gouvernement"},
	{ID: "10", Name: "Communication"},
	{ID: "11", Name: "Culture"},
	{ID: "12", Name: "Affaires étrangères et coopération"},
	{ID: "13", Name: "Artisanat"},
	{ID: "14", Name: "Énergie, mines, eau et environnement"},
	{ID: "15", Name: "Secrétariat Général du Gouvernement"},
	{ID: "16", Name: "Habitat, urbanisme et politique de la ville"},
	{ID: "17", Name: "Santé"},
	{ID: "18", Name: "Industrie, commerce et nouvelles technologies"},
	{ID: "19", Name: "Intérieur"},
	{ID: "20", Name: "Jeunesse et sports"},
	{ID: "21", Name: "Justice et libertés"},
	{ID: "22", Name: "Ministre de l'industrie, du commerce, de l'investissement et de l'économie numérique"},
	{ID: "23", Name: "Ministre de l'éducation nationale et de la formation professionnelle"},
	{ID: "24", Name: "Ministre de l'équipement, du transport et de la logistique"},
	{ID: "25", Name: "Ministre de l'habitat et de la politique de la ville"},
	{ID: "26", Name: "Ministre de l'emploi et des affaires sociales"},
	{ID: "27", Name: "Ministre de l'artisanat et de l'économie sociale et solidaire"},
	{ID: "28", Name: "Ministre chargé des marocains résidant à l'étranger et des affaires de la migration"},
	{ID: "29", Name: "Ministre de l'urbanisme et de l'aménagement du territoire national"},
	{ID: "30", Name: "Ministre chargé des relations avec le Parlement et la société civile"},
	{ID: "31", Name: "Solidarité, femme, famille et développement social"},
	{ID: "32", Name: "Tourisme"},
}

// FindFilter looks up a filter by id.
func FindFilter(filters []Filter, id string) (Filter, bool) {
	for _, f := range filters {
		if f.ID == id {
			return f, true
		}
	}
	return Filter{}, false
}
