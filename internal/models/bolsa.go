package models

import "time"

// Estados de progreso de una bolsa. El límite es inclusivo: alcanzar
// exactamente el objetivo ya cuenta como "superado".
const (
	BolsaStatusActive   = "activo"
	BolsaStatusExceeded = "superado"
)

// ProgressInfo contiene información sobre el progreso hacia el objetivo de una bolsa
type ProgressInfo struct {
	Percent       float64 `json:"percent"`                  // Porcentaje mostrado, limitado a 100
	RawPercent    float64 `json:"raw_percent"`              // Porcentaje real sin limitar
	Status        string  `json:"status"`                   // "activo" o "superado"
	ExcessAmount  float64 `json:"excess_amount,omitempty"`  // Cantidad que excede el objetivo
	ExcessPercent float64 `json:"excess_percent,omitempty"` // Porcentaje que excede el objetivo
}

// Bolsa representa una sub-cartera con un objetivo específico
type Bolsa struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	Goal         float64        `json:"goal"`
	CurrentValue float64        `json:"current_value"`      // Campo calculado, no almacenado
	Progress     *ProgressInfo  `json:"progress,omitempty"` // Campo calculado, no almacenado
	Tags         []string       `json:"tags,omitempty"`
	Assets       []AssetInBolsa `json:"assets,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AssetInBolsa representa un activo dentro de una bolsa
type AssetInBolsa struct {
	ID              string    `json:"id"`
	BolsaID         string    `json:"bolsa_id"`
	CryptoName      string    `json:"crypto_name" binding:"required"`
	Ticker          string    `json:"ticker" binding:"required"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
	PurchasePrice   float64   `json:"purchase_price"`
	Total           float64   `json:"total"`
	CurrentPrice    float64   `json:"current_price"`     // Campo calculado, no almacenado
	CurrentValue    float64   `json:"current_value"`     // Campo calculado, no almacenado
	GainLoss        float64   `json:"gain_loss"`         // Campo calculado, no almacenado
	GainLossPercent float64   `json:"gain_loss_percent"` // Campo calculado, no almacenado
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
