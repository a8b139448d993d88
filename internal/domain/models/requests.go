package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse. A request supplies either Symbols (resolved through the price
// store) or an inline Prices table; the usecase rejects requests with neither.

type FrontierRequest struct {
	Symbols      []string    `json:"symbols" validate:"omitempty,dive,required"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	RiskFreeRate float64     `json:"risk_free_rate" validate:"gte=0,lte=1"`
	Portfolios   int         `json:"portfolios" default:"100" validate:"gte=2,lte=500"`
	Prices       *PriceTable `json:"prices,omitempty"`
}

type SimulateRequest struct {
	FrontierRequest
	Portfolio   string  `json:"portfolio" default:"MaxSharpe" validate:"oneof=MinVolatility MaxSharpe"`
	Simulations int     `json:"simulations" default:"1000" validate:"gte=1,lte=20000"`
	Years       float64 `json:"years" default:"1" validate:"gt=0,lte=10"`
	Seed        *int64  `json:"seed,omitempty"`
}

type StatsRequest struct {
	Symbol       string  `query:"symbol" json:"symbol" validate:"required"`
	From         string  `query:"from" json:"from"`
	To           string  `query:"to" json:"to"`
	RiskFreeRate float64 `query:"risk_free_rate" json:"risk_free_rate" validate:"gte=0,lte=1"`
}

type CommentaryRequest struct {
	Subject string                 `json:"subject" default:"frontier" validate:"oneof=frontier simulation portfolio"`
	Prompt  string                 `json:"prompt" validate:"required"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Responses.

type FrontierResponse struct {
	Assets     []string       `json:"assets"`
	Frontier   *FrontierTable `json:"frontier"`
	AssetStats []AssetStats   `json:"asset_stats"`
	Cached     bool           `json:"cached,omitempty"`
}

type SimulateResponse struct {
	Assets    []string           `json:"assets"`
	Portfolio string             `json:"portfolio"`
	Weights   []float64          `json:"weights"`
	Outcome   *SimulationOutcome `json:"outcome"`
	Summary   SimulationSummary  `json:"summary"`
}

type StatsResponse struct {
	AssetStats
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}
