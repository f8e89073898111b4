package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cryptodca/portfolio-api/internal/models"
)

func TestGenerateTransactionsReportEmpty(t *testing.T) {
	g := NewReportService()

	_, err := g.GenerateTransactionsReport(nil)

	assert.Error(t, err)
}

func TestGenerateTransactionsReport(t *testing.T) {
	g := NewReportService()
	details := []models.TransactionDetails{
		{
			Transaction: models.Transaction{
				CryptoName:    "Bitcoin",
				Ticker:        "BTC",
				Type:          models.TransactionTypeBuy,
				Amount:        0.5,
				PurchasePrice: 40000,
				Total:         20000,
				Date:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			},
			CurrentPrice: 60000,
			CurrentValue: 30000,
			GainLoss:     10000,
		},
	}

	report, err := g.GenerateTransactionsReport(details)
	require.NoError(t, err)
	require.NotEmpty(t, report)

	f, err := excelize.OpenReader(bytes.NewReader(report))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transacciones")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, transactionHeaders, rows[0])
	assert.Equal(t, "2026-03-15", rows[1][0])
	assert.Equal(t, "BTC", rows[1][2])
	assert.Equal(t, "US$ 20.000,00", rows[1][6])
	assert.Equal(t, "US$ 30.000,00", rows[1][8])
}
