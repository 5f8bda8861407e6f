package models

// Suggestion is a lightweight autocomplete row. MatchType is "ticker" when
// the symbol itself matched and "name" when the company name did.
type Suggestion struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"company_name"`
	MatchType string `json:"match_type"`
}

// Sector is a browseable market sector with its industry subdivisions.
type Sector struct {
	Name       string   `json:"name"`
	Industries []string `json:"industries"`
}
