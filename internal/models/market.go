package models

import "time"

// Quote es la cotización actual de una criptomoneda en USD, ya validada
// contra el esquema documentado del proveedor. Los handlers nunca ven la
// respuesta cruda del API externo.
type Quote struct {
	Ticker       string  `json:"ticker"`
	Price        float64 `json:"price"`
	Change24h    float64 `json:"change_24h"`
	ChangePct24h float64 `json:"change_pct_24h"`
	ImageURL     string  `json:"image_url,omitempty"`
}

// ATHRecord es el máximo histórico de una criptomoneda según el feed externo
type ATHRecord struct {
	Ticker        string    `json:"ticker"`
	Value         float64   `json:"value"`
	Date          time.Time `json:"date"`
	PercentChange float64   `json:"percent_change"` // Distancia del precio actual al ATH
}
