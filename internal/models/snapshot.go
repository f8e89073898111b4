package models

import "time"

// InvestmentSnapshot guarda el valor del portafolio en un día determinado.
// MaxValue y MinValue forman la banda observada dentro del día.
type InvestmentSnapshot struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Date             time.Time `json:"date"`
	TotalValue       float64   `json:"total_value"`
	TotalInvested    float64   `json:"total_invested"`
	Profit           float64   `json:"profit"`
	ProfitPercentage float64   `json:"profit_percentage"`
	MaxValue         float64   `json:"max_value"`
	MinValue         float64   `json:"min_value"`
}

// DailyValue es un punto del historial de inversiones listo para graficar
type DailyValue struct {
	Date             string  `json:"date"`
	TotalValue       float64 `json:"total_value"`
	MaxValue         float64 `json:"max_value"`
	MinValue         float64 `json:"min_value"`
	ChangePercentage float64 `json:"change_percentage"`
}

// InvestmentHistory es la serie temporal devuelta por /investment-history
type InvestmentHistory struct {
	StartDate       time.Time    `json:"start_date"`
	History         []DailyValue `json:"history"`
	MaxValue        float64      `json:"max_value"` // Máximo del período completo
	MinValue        float64      `json:"min_value"` // Mínimo del período completo
	TrendPercentage float64      `json:"trend_percentage"`
}
