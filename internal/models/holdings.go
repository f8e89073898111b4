package models

// Holdings representa el resumen de las tenencias del usuario
type Holdings struct {
	TotalCurrentValue float64        `json:"total_current_value"`
	TotalInvested     float64        `json:"total_invested"`
	TotalProfit       float64        `json:"total_profit"`
	ProfitPercentage  float64        `json:"profit_percentage"`
	Distribution      []CryptoWeight `json:"distribution"` // Para el gráfico de torta
	ChartData         PieChartData   `json:"chart_data"`
}

// CryptoWeight representa el peso de una criptomoneda en el portafolio
type CryptoWeight struct {
	Ticker       string         `json:"ticker"`
	Name         string         `json:"name"`
	Value        float64        `json:"value"`  // Valor actual en USD
	Weight       float64        `json:"weight"` // Porcentaje del portafolio (0-100)
	Color        string         `json:"color,omitempty"`
	IsOthers     bool           `json:"is_others,omitempty"`
	OthersDetail []CryptoWeight `json:"others_detail,omitempty"` // Desglose de la categoría OTROS
}

// PieChartData contiene los datos formateados para un gráfico de torta
type PieChartData struct {
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	Colors   []string  `json:"colors"`
	Currency string    `json:"currency"`
}
