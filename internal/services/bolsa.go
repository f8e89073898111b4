package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
)

// BolsaService resuelve los valores calculados de una bolsa: precio actual
// de cada activo, valor total y progreso hacia el objetivo.
type BolsaService struct {
	bolsas  *repository.BolsaRepository
	markets *MarketClient
}

func NewBolsaService(bolsas *repository.BolsaRepository, markets *MarketClient) *BolsaService {
	return &BolsaService{bolsas: bolsas, markets: markets}
}

// EvaluateProgress calcula el progreso de una bolsa hacia su objetivo.
//
//	status = "superado" si current_value >= goal (límite inclusivo), si no "activo"
//	excess_amount = max(0, current_value - goal)
//	percent mostrado = min(100, round(raw_percent))
//
// Devuelve nil si la bolsa no tiene objetivo.
func EvaluateProgress(currentValue, goal float64) *models.ProgressInfo {
	if goal <= 0 {
		return nil
	}

	raw := (currentValue / goal) * 100
	progress := &models.ProgressInfo{
		RawPercent: raw,
		Percent:    math.Min(100, math.Round(raw)),
	}

	if currentValue >= goal {
		progress.Status = models.BolsaStatusExceeded
		progress.ExcessAmount = currentValue - goal
		progress.ExcessPercent = (progress.ExcessAmount / goal) * 100
	} else {
		progress.Status = models.BolsaStatusActive
	}

	return progress
}

// PriceAssets actualiza los campos calculados de los activos de una bolsa.
// Si no hay cotización para un activo se usa su precio de compra, para que
// la bolsa siga valuándose con datos degradados en vez de fallar.
func (s *BolsaService) PriceAssets(ctx context.Context, assets []models.AssetInBolsa) []models.AssetInBolsa {
	if len(assets) == 0 {
		return assets
	}

	tickers := make([]string, 0, len(assets))
	for _, asset := range assets {
		tickers = append(tickers, asset.Ticker)
	}

	quotes, err := s.markets.GetQuotes(ctx, tickers)
	if err != nil {
		slog.Warn("sin cotizaciones para los activos de la bolsa, se usa el precio de compra", slog.String("err", err.Error()))
		quotes = map[string]models.Quote{}
	}

	for i := range assets {
		if quote, ok := quotes[assets[i].Ticker]; ok && quote.Price > 0 {
			assets[i].CurrentPrice = quote.Price
		} else {
			assets[i].CurrentPrice = assets[i].PurchasePrice
		}

		assets[i].CurrentValue = assets[i].Amount * assets[i].CurrentPrice
		assets[i].GainLoss = assets[i].CurrentValue - assets[i].Total
		if assets[i].Total > 0 {
			assets[i].GainLossPercent = (assets[i].GainLoss / assets[i].Total) * 100
		}
	}

	return assets
}

// Refresh completa los campos calculados de una bolsa: activos valuados,
// valor actual total y progreso.
func (s *BolsaService) Refresh(ctx context.Context, bolsa *models.Bolsa) *models.Bolsa {
	if bolsa == nil {
		return nil
	}

	bolsa.Assets = s.PriceAssets(ctx, bolsa.Assets)

	bolsa.CurrentValue = 0
	for _, asset := range bolsa.Assets {
		bolsa.CurrentValue += asset.CurrentValue
	}

	bolsa.Progress = EvaluateProgress(bolsa.CurrentValue, bolsa.Goal)

	return bolsa
}

// GetBolsa obtiene una bolsa con sus campos calculados resueltos
func (s *BolsaService) GetBolsa(ctx context.Context, id string) (*models.Bolsa, error) {
	bolsa, err := s.bolsas.GetBolsaByID(id)
	if err != nil {
		return nil, err
	}
	return s.Refresh(ctx, bolsa), nil
}

// GetBolsasByUser obtiene todas las bolsas del usuario con sus campos calculados
func (s *BolsaService) GetBolsasByUser(ctx context.Context, userID string) ([]models.Bolsa, error) {
	bolsas, err := s.bolsas.GetBolsasByUserID(userID)
	if err != nil {
		return nil, err
	}

	for i := range bolsas {
		s.Refresh(ctx, &bolsas[i])
	}
	return bolsas, nil
}
