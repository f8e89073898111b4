package models

type DashboardItem struct {
	Ticker        string  `json:"ticker"`
	CryptoName    string  `json:"crypto_name"`
	ImageURL      string  `json:"image_url"`
	Holdings      float64 `json:"holdings"`
	AvgPrice      float64 `json:"avg_price"`
	CurrentPrice  float64 `json:"current_price"`
	TotalInvested float64 `json:"total_invested"`
	CurrentProfit float64 `json:"current_profit"`
	ProfitPercent float64 `json:"profit_percent"`
}

// CombinedDashboardItem es una fila del dashboard unida con el feed de
// máximos históricos (ATH). Si no existe registro ATH para el ticker, los
// campos degradan al precio actual (política de datos degradados, no error).
type CombinedDashboardItem struct {
	DashboardItem
	ATH               float64 `json:"ath"`
	ATHDate           string  `json:"ath_date"`
	ATHPercentChange  float64 `json:"ath_percent_change"`
	ATHPotentialValue float64 `json:"ath_potential_value"` // Holdings * ATH
}
