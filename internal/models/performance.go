package models

import "time"

type Performance struct {
	TopGainer PerformanceDetail `json:"top_gainer"`
	TopLoser  PerformanceDetail `json:"top_loser"`
}

type PerformanceDetail struct {
	Ticker       string  `json:"ticker"`
	ChangePct24h float64 `json:"change_percent_24h"`
	PriceChange  float64 `json:"price_change"`
	ImageURL     string  `json:"image_url"`
}

// Balance es el valor total del portafolio en un instante
type Balance struct {
	TotalBalance     float64   `json:"total_balance"`
	TotalInvested    float64   `json:"total_invested"`
	TotalProfit      float64   `json:"total_profit"`
	ProfitPercentage float64   `json:"profit_percentage"`
	LastUpdated      time.Time `json:"last_updated"`
}
