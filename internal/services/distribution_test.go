package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptodca/portfolio-api/internal/models"
)

func weightsFixture(n int) []models.CryptoWeight {
	weights := make([]models.CryptoWeight, 0, n)
	total := 0.0
	for i := 0; i < n; i++ {
		total += float64(n - i)
	}
	for i := 0; i < n; i++ {
		value := float64(n-i) * 100
		weights = append(weights, models.CryptoWeight{
			Ticker: fmt.Sprintf("T%02d", i),
			Name:   fmt.Sprintf("Token %02d", i),
			Value:  value,
			Weight: float64(n-i) / total * 100,
		})
	}
	return weights
}

func TestBuildDistributionEmpty(t *testing.T) {
	distribution := BuildDistribution(nil)
	require.NotNil(t, distribution)
	assert.Empty(t, distribution)
}

func TestBuildDistributionFewEntriesNoOthers(t *testing.T) {
	weights := weightsFixture(4)

	distribution := BuildDistribution(weights)

	require.Len(t, distribution, 4)
	for _, cw := range distribution {
		assert.False(t, cw.IsOthers)
		assert.NotEqual(t, OthersTicker, cw.Ticker)
	}
}

func TestBuildDistributionExactlySixNoOthers(t *testing.T) {
	distribution := BuildDistribution(weightsFixture(6))

	require.Len(t, distribution, 6)
	assert.False(t, distribution[len(distribution)-1].IsOthers)
}

func TestBuildDistributionGroupsTailIntoOthers(t *testing.T) {
	weights := weightsFixture(10)

	distribution := BuildDistribution(weights)

	require.Len(t, distribution, MaxVisibleHoldings+1)

	others := distribution[MaxVisibleHoldings]
	require.True(t, others.IsOthers)
	assert.Equal(t, OthersTicker, others.Ticker)
	require.Len(t, others.OthersDetail, 4)

	// Los seis visibles son los de mayor peso, en orden descendente
	for i := 0; i < MaxVisibleHoldings-1; i++ {
		assert.GreaterOrEqual(t, distribution[i].Weight, distribution[i+1].Weight)
	}
	for _, hidden := range others.OthersDetail {
		assert.LessOrEqual(t, hidden.Weight, distribution[MaxVisibleHoldings-1].Weight)
	}

	// OTROS acumula el valor y el peso de las ocultas
	var hiddenValue, hiddenWeight float64
	for _, hidden := range others.OthersDetail {
		hiddenValue += hidden.Value
		hiddenWeight += hidden.Weight
	}
	assert.InDelta(t, hiddenValue, others.Value, 1e-9)
	assert.InDelta(t, hiddenWeight, others.Weight, 1e-9)
}

func TestBuildDistributionWeightSumPreserved(t *testing.T) {
	weights := weightsFixture(9)

	var inputSum float64
	for _, cw := range weights {
		inputSum += cw.Weight
	}

	var outputSum float64
	for _, cw := range BuildDistribution(weights) {
		outputSum += cw.Weight
	}

	assert.InDelta(t, inputSum, outputSum, 1e-9)
}

func TestBuildDistributionIdempotent(t *testing.T) {
	weights := weightsFixture(8)

	first := BuildDistribution(weights)
	second := BuildDistribution(weights)

	assert.Equal(t, first, second)
}

func TestBuildDistributionDoesNotMutateInput(t *testing.T) {
	weights := []models.CryptoWeight{
		{Ticker: "ADA", Weight: 10, Value: 100},
		{Ticker: "BTC", Weight: 70, Value: 700},
		{Ticker: "ETH", Weight: 20, Value: 200},
	}

	BuildDistribution(weights)

	assert.Equal(t, "ADA", weights[0].Ticker)
	assert.Equal(t, "BTC", weights[1].Ticker)
	assert.Equal(t, "ETH", weights[2].Ticker)
	for _, cw := range weights {
		assert.Empty(t, cw.Color)
	}
}

func TestBuildDistributionStableOnTies(t *testing.T) {
	weights := []models.CryptoWeight{
		{Ticker: "AAA", Weight: 25},
		{Ticker: "BBB", Weight: 25},
		{Ticker: "CCC", Weight: 50},
	}

	distribution := BuildDistribution(weights)

	require.Len(t, distribution, 3)
	assert.Equal(t, "CCC", distribution[0].Ticker)
	assert.Equal(t, "AAA", distribution[1].Ticker)
	assert.Equal(t, "BBB", distribution[2].Ticker)
}
