package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodca/portfolio-api/internal/models"
)

func buyTx(ticker string, amount, price float64, date time.Time) models.Transaction {
	return models.Transaction{
		Ticker:        ticker,
		CryptoName:    ticker,
		Amount:        amount,
		PurchasePrice: price,
		Total:         amount * price,
		Date:          date,
		Type:          models.TransactionTypeBuy,
	}
}

func sellTx(ticker string, amount, price float64, date time.Time) models.Transaction {
	return models.Transaction{
		Ticker:        ticker,
		CryptoName:    ticker,
		Amount:        amount,
		PurchasePrice: price,
		Total:         amount * price,
		Date:          date,
		Type:          models.TransactionTypeSell,
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	items := BuildDashboard(nil, map[string]models.Quote{})
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuildDashboardSingleBuy(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{buyTx("BTC", 1, 10000, base)}
	quotes := map[string]models.Quote{"BTC": {Ticker: "BTC", Price: 15000}}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, 1.0, item.Holdings)
	assert.Equal(t, 10000.0, item.AvgPrice)
	assert.Equal(t, 10000.0, item.TotalInvested)
	assert.Equal(t, 5000.0, item.CurrentProfit)
	assert.InDelta(t, 50.0, item.ProfitPercent, 1e-9)
}

func TestBuildDashboardSellReducesInvestedProportionally(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("BTC", 1, 10000, base),
		sellTx("BTC", 0.5, 20000, base.AddDate(0, 1, 0)),
	}
	quotes := map[string]models.Quote{"BTC": {Ticker: "BTC", Price: 20000}}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	item := items[0]

	// Vender la mitad deja la mitad de la tenencia y del invertido,
	// el precio promedio de compra no cambia
	assert.InDelta(t, 0.5, item.Holdings, 1e-9)
	assert.InDelta(t, 5000.0, item.TotalInvested, 1e-9)
	assert.InDelta(t, 10000.0, item.AvgPrice, 1e-9)
}

func TestBuildDashboardAvgPriceOverBuysOnly(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("ETH", 1, 2000, base),
		buyTx("ETH", 1, 4000, base.AddDate(0, 0, 1)),
		sellTx("ETH", 1, 5000, base.AddDate(0, 0, 2)),
	}
	quotes := map[string]models.Quote{"ETH": {Ticker: "ETH", Price: 3000}}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	// El promedio se calcula sobre las compras: (2000 + 4000) / 2
	assert.InDelta(t, 3000.0, items[0].AvgPrice, 1e-9)
	assert.InDelta(t, 1.0, items[0].Holdings, 1e-9)
}

func TestBuildDashboardSkipsFullySoldPositions(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("DOT", 10, 5, base),
		sellTx("DOT", 10, 8, base.AddDate(0, 0, 1)),
		buyTx("BTC", 1, 10000, base),
	}
	quotes := map[string]models.Quote{
		"DOT": {Ticker: "DOT", Price: 9},
		"BTC": {Ticker: "BTC", Price: 12000},
	}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	assert.Equal(t, "BTC", items[0].Ticker)
}

func TestBuildDashboardSkipsTickersWithoutQuote(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("BTC", 1, 10000, base),
		buyTx("XYZ", 100, 1, base),
	}
	quotes := map[string]models.Quote{"BTC": {Ticker: "BTC", Price: 12000}}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	assert.Equal(t, "BTC", items[0].Ticker)
}

func TestBuildDashboardOrdersTransactionsByDate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// La venta llega desordenada en la lista pero es posterior a la compra
	txs := []models.Transaction{
		sellTx("BTC", 0.5, 20000, base.AddDate(0, 1, 0)),
		buyTx("BTC", 1, 10000, base),
	}
	quotes := map[string]models.Quote{"BTC": {Ticker: "BTC", Price: 20000}}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 1)
	assert.InDelta(t, 0.5, items[0].Holdings, 1e-9)
	assert.InDelta(t, 5000.0, items[0].TotalInvested, 1e-9)
}

func TestBuildDashboardDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		sellTx("BTC", 0.5, 20000, base.AddDate(0, 1, 0)),
		buyTx("BTC", 1, 10000, base),
	}
	quotes := map[string]models.Quote{"BTC": {Ticker: "BTC", Price: 20000}}

	BuildDashboard(txs, quotes)

	assert.Equal(t, models.TransactionTypeSell, txs[0].Type)
	assert.Equal(t, models.TransactionTypeBuy, txs[1].Type)
}

func TestBuildDashboardProfitSignMatchesValueVsInvested(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("BTC", 1, 10000, base),
		buyTx("ETH", 10, 3000, base),
	}
	quotes := map[string]models.Quote{
		"BTC": {Ticker: "BTC", Price: 15000}, // en ganancia
		"ETH": {Ticker: "ETH", Price: 2000},  // en pérdida
	}

	items := BuildDashboard(txs, quotes)

	require.Len(t, items, 2)
	for _, item := range items {
		currentValue := item.Holdings * item.CurrentPrice
		if currentValue > item.TotalInvested {
			assert.Positive(t, item.CurrentProfit, item.Ticker)
		} else {
			assert.Negative(t, item.CurrentProfit, item.Ticker)
		}
	}
}

func TestUniqueTickersPreservesFirstAppearance(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		buyTx("BTC", 1, 10000, base),
		buyTx("ETH", 1, 3000, base),
		buyTx("BTC", 1, 11000, base),
	}

	assert.Equal(t, []string{"BTC", "ETH"}, uniqueTickers(txs))
}
