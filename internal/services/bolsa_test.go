package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// cachedMarketClient arma un cliente de mercado con cotizaciones precargadas
// en el caché, sin tocar la red.
func cachedMarketClient(prices map[string]float64) *MarketClient {
	cache := make(map[string]cachedQuote, len(prices))
	for ticker, price := range prices {
		cache[ticker] = cachedQuote{
			quote:     models.Quote{Ticker: ticker, Price: price},
			timestamp: time.Now(),
		}
	}
	return &MarketClient{
		client:   resty.New(),
		cacheTTL: time.Hour,
		cache:    cache,
	}
}

// failingMarketClient arma un cliente cuyo upstream siempre responde error
func failingMarketClient(t *testing.T) *MarketClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	return &MarketClient{
		client:   resty.New().SetBaseURL(srv.URL),
		cacheTTL: time.Hour,
		cache:    make(map[string]cachedQuote),
	}
}

func TestEvaluateProgressNoGoal(t *testing.T) {
	assert.Nil(t, EvaluateProgress(500, 0))
	assert.Nil(t, EvaluateProgress(500, -100))
}

func TestEvaluateProgressActive(t *testing.T) {
	progress := EvaluateProgress(250, 1000)

	require.NotNil(t, progress)
	assert.Equal(t, models.BolsaStatusActive, progress.Status)
	assert.Equal(t, 25.0, progress.Percent)
	assert.InDelta(t, 25.0, progress.RawPercent, 1e-9)
	assert.Zero(t, progress.ExcessAmount)
	assert.Zero(t, progress.ExcessPercent)
}

func TestEvaluateProgressExactGoalIsExceeded(t *testing.T) {
	// El límite es inclusivo: llegar justo al objetivo ya es "superado"
	progress := EvaluateProgress(1000, 1000)

	require.NotNil(t, progress)
	assert.Equal(t, models.BolsaStatusExceeded, progress.Status)
	assert.Equal(t, 100.0, progress.Percent)
	assert.Zero(t, progress.ExcessAmount)
}

func TestEvaluateProgressJustBelowGoalIsActive(t *testing.T) {
	progress := EvaluateProgress(999.99, 1000)

	require.NotNil(t, progress)
	assert.Equal(t, models.BolsaStatusActive, progress.Status)
}

func TestEvaluateProgressExceeded(t *testing.T) {
	progress := EvaluateProgress(1500, 1000)

	require.NotNil(t, progress)
	assert.Equal(t, models.BolsaStatusExceeded, progress.Status)
	assert.InDelta(t, 500.0, progress.ExcessAmount, 1e-9)
	assert.InDelta(t, 50.0, progress.ExcessPercent, 1e-9)

	// El porcentaje mostrado se limita a 100, el real queda disponible
	assert.Equal(t, 100.0, progress.Percent)
	assert.InDelta(t, 150.0, progress.RawPercent, 1e-9)
}

func TestEvaluateProgressPercentIsRounded(t *testing.T) {
	progress := EvaluateProgress(333, 1000)

	require.NotNil(t, progress)
	assert.Equal(t, 33.0, progress.Percent)
	assert.InDelta(t, 33.3, progress.RawPercent, 1e-9)
}

func TestRefreshComputesCurrentValueAndProgress(t *testing.T) {
	s := &BolsaService{markets: cachedMarketClient(map[string]float64{
		"BTC": 70000,
		"ETH": 3500,
	})}
	bolsa := &models.Bolsa{
		Goal: 1000,
		Assets: []models.AssetInBolsa{
			{Ticker: "BTC", Amount: 0.01, PurchasePrice: 60000, Total: 600},
			{Ticker: "ETH", Amount: 0.2, PurchasePrice: 3000, Total: 600},
		},
	}

	s.Refresh(context.Background(), bolsa)

	// 0.01 * 70000 + 0.2 * 3500 = 1400
	assert.InDelta(t, 1400.0, bolsa.CurrentValue, 1e-9)
	require.NotNil(t, bolsa.Progress)
	assert.Equal(t, models.BolsaStatusExceeded, bolsa.Progress.Status)
	assert.InDelta(t, 400.0, bolsa.Progress.ExcessAmount, 1e-9)
}

func TestPriceAssetsFallsBackToPurchasePrice(t *testing.T) {
	s := &BolsaService{markets: failingMarketClient(t)}
	assets := []models.AssetInBolsa{
		{Ticker: "BTC", Amount: 0.5, PurchasePrice: 40000, Total: 20000},
	}

	// Con el upstream caído los activos se valúan al precio de compra
	priced := s.PriceAssets(context.Background(), assets)

	require.Len(t, priced, 1)
	assert.Equal(t, 40000.0, priced[0].CurrentPrice)
	assert.InDelta(t, 20000.0, priced[0].CurrentValue, 1e-9)
	assert.Zero(t, priced[0].GainLoss)
}

func TestPriceAssetsComputesGainLoss(t *testing.T) {
	s := &BolsaService{markets: cachedMarketClient(map[string]float64{"SOL": 200})}
	assets := []models.AssetInBolsa{
		{Ticker: "SOL", Amount: 10, PurchasePrice: 100, Total: 1000},
	}

	priced := s.PriceAssets(context.Background(), assets)

	require.Len(t, priced, 1)
	assert.Equal(t, 200.0, priced[0].CurrentPrice)
	assert.InDelta(t, 2000.0, priced[0].CurrentValue, 1e-9)
	assert.InDelta(t, 1000.0, priced[0].GainLoss, 1e-9)
	assert.InDelta(t, 100.0, priced[0].GainLossPercent, 1e-9)
}
