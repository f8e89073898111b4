package models

import "time"

// Tipos de transacción
const (
	TransactionTypeBuy  = "compra"
	TransactionTypeSell = "venta"
)

type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CryptoName    string    `json:"crypto_name" binding:"required"`
	Ticker        string    `json:"ticker" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	PurchasePrice float64   `json:"purchase_price" binding:"required,gt=0"`
	Total         float64   `json:"total"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type" binding:"omitempty,oneof=compra venta"`
	Note          string    `json:"note,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	AddedManually bool      `json:"added_manually"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionDetails enriquece una transacción con su valor a precio actual
type TransactionDetails struct {
	Transaction     Transaction `json:"transaction"`
	CurrentPrice    float64     `json:"current_price"`
	CurrentValue    float64     `json:"current_value"`     // Amount * CurrentPrice
	GainLoss        float64     `json:"gain_loss"`         // CurrentValue - Total
	GainLossPercent float64     `json:"gain_loss_percent"` // (GainLoss / Total) * 100
}
