package courtlistener

// Cluster identifies one ruling matched by a citation lookup.
type Cluster struct {
	ID          int64  `json:"id"`
	CaseName    string `json:"case_name"`
	AbsoluteURL string `json:"absolute_url"` // Relative to the service root
	DateFiled   string `json:"date_filed,omitempty"`
}

// CitationLookupResult is one entry of a citation-lookup response. An empty
// Clusters list means the citation was not found; it is not an error.
type CitationLookupResult struct {
	Citation            string    `json:"citation"`
	NormalizedCitations []string  `json:"normalized_citations"`
	StartIndex          int       `json:"start_index"`
	EndIndex            int       `json:"end_index"`
	Status              int       `json:"status"`
	ErrorMessage        string    `json:"error_message"`
	Clusters            []Cluster `json:"clusters"`
}

// CaseMatch is one candidate returned by a case-name search.
type CaseMatch struct {
	ClusterID   int64    `json:"cluster_id"`
	CaseName    string   `json:"caseName"`
	Citations   []string `json:"citation"`
	AbsoluteURL string   `json:"absolute_url"` // Relative to the service root
	Court       string   `json:"court"`
	DateFiled   string   `json:"dateFiled"`
}

// searchResponse is the paginated envelope of the search endpoint.
type searchResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []CaseMatch `json:"results"`
}

// Opinion is the full text of a matched ruling.
type Opinion struct {
	ID          int64  `json:"id"`
	CaseName    string `json:"case_name"`
	AbsoluteURL string `json:"absolute_url"`
	PlainText   string `json:"plain_text"`
}
