package models

// Requests for stock and discovery HTTP endpoints. Defined in domain for
// consistency and reuse.

type HistoryRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required"`
	Start  string `query:"start" json:"start"`
	End    string `query:"end" json:"end"`
}

type PredictRequest struct {
	Ticker   string `param:"ticker" json:"ticker" validate:"required"`
	Days     int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=30"`
	Lookback int    `query:"lookback" json:"lookback" default:"90" validate:"gte=30,lte=730"`
}

type RecommendRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required"`
}

type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=1"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type SuggestRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=1"`
	Limit int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type ScreenRequest struct {
	Sector   string  `query:"sector" json:"sector"`
	MinPrice float64 `query:"min_price" json:"min_price" validate:"gte=0"`
	MaxPrice float64 `query:"max_price" json:"max_price" validate:"gte=0"`
	MinCap   int64   `query:"min_cap" json:"min_cap" validate:"gte=0"`
	Limit    int     `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}
