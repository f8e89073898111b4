package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodca/portfolio-api/internal/models"
)

func TestJoinATHWithRecord(t *testing.T) {
	items := []models.DashboardItem{
		{Ticker: "BTC", Holdings: 0.5, CurrentPrice: 60000},
	}
	records := map[string]models.ATHRecord{
		"BTC": {
			Ticker:        "BTC",
			Value:         69000,
			Date:          time.Date(2021, 11, 10, 0, 0, 0, 0, time.UTC),
			PercentChange: -13.04,
		},
	}

	combined := JoinATH(items, records, time.Now())

	require.Len(t, combined, 1)
	row := combined[0]
	assert.Equal(t, 69000.0, row.ATH)
	assert.Equal(t, "2021-11-10", row.ATHDate)
	assert.Equal(t, -13.04, row.ATHPercentChange)
	assert.InDelta(t, 0.5*69000, row.ATHPotentialValue, 1e-9)
}

func TestJoinATHMissingRecordDegradesToCurrentPrice(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	items := []models.DashboardItem{
		{Ticker: "SHIB", Holdings: 1000000, CurrentPrice: 0.00002},
	}

	combined := JoinATH(items, map[string]models.ATHRecord{}, now)

	require.Len(t, combined, 1)
	row := combined[0]
	assert.Equal(t, row.CurrentPrice, row.ATH)
	assert.Equal(t, "2026-08-29", row.ATHDate)
	assert.Zero(t, row.ATHPercentChange)

	// Sin registro ATH el valor potencial colapsa al valor actual
	assert.InDelta(t, row.Holdings*row.CurrentPrice, row.ATHPotentialValue, 1e-9)
}

func TestJoinATHMatchesCaseInsensitively(t *testing.T) {
	items := []models.DashboardItem{
		{Ticker: "eth", Holdings: 2, CurrentPrice: 3000},
	}
	records := map[string]models.ATHRecord{
		"ETH": {Ticker: "ETH", Value: 4800, Date: time.Date(2021, 11, 16, 0, 0, 0, 0, time.UTC)},
	}

	combined := JoinATH(items, records, time.Now())

	require.Len(t, combined, 1)
	assert.Equal(t, 4800.0, combined[0].ATH)
}

func TestJoinATHPreservesRowOrderAndBaseFields(t *testing.T) {
	items := []models.DashboardItem{
		{Ticker: "BTC", Holdings: 1, CurrentPrice: 60000, TotalInvested: 30000},
		{Ticker: "ETH", Holdings: 10, CurrentPrice: 3000, TotalInvested: 25000},
	}

	combined := JoinATH(items, map[string]models.ATHRecord{}, time.Now())

	require.Len(t, combined, 2)
	assert.Equal(t, "BTC", combined[0].Ticker)
	assert.Equal(t, "ETH", combined[1].Ticker)
	assert.Equal(t, 30000.0, combined[0].TotalInvested)
	assert.Equal(t, 25000.0, combined[1].TotalInvested)
}
