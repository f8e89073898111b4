package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  string
	}{
		{"miles con decimal", 1234.5, "US$ 1.234,50"},
		{"entero", 1000, "US$ 1.000,00"},
		{"menor a mil", 999.99, "US$ 999,99"},
		{"millones", 1234567.89, "US$ 1.234.567,89"},
		{"cero", 0, "US$ 0,00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatUSD(tc.value))
		})
	}
}

func TestFormatUSDNegative(t *testing.T) {
	assert.Equal(t, "US$ -1.234,50", FormatUSD(-1234.5))
}
