package services

import (
	"sort"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// MaxVisibleHoldings es la cantidad de entradas que se muestran con su
// propio segmento en el gráfico de torta; el resto se agrupa en OTROS.
const MaxVisibleHoldings = 6

// Ticker sintético que agrupa las tenencias menores
const OthersTicker = "OTROS"

const (
	colorPrimary   = "#FF9500" // Naranja para la primera (generalmente BTC)
	colorSecondary = "#7D7AFF" // Púrpura para la segunda (generalmente ETH)
	colorDefault   = "#30D158" // Verde para las demás
	colorOthers    = "#FF3B30" // Rojo para OTROS
)

// BuildDistribution ordena las entradas por peso descendente (empates en el
// orden original, orden estable) y devuelve las primeras seis tal cual más
// una entrada sintética OTROS con la suma de las restantes. El desglose de
// las ocultas queda en OthersDetail para consultarlo bajo demanda.
//
// Es una proyección pura e idempotente: no modifica la entrada y dos
// llamadas con el mismo input producen el mismo agrupamiento. Una entrada
// vacía devuelve una lista vacía, no un error.
func BuildDistribution(weights []models.CryptoWeight) []models.CryptoWeight {
	if len(weights) == 0 {
		return []models.CryptoWeight{}
	}

	sorted := make([]models.CryptoWeight, len(weights))
	copy(sorted, weights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	visible := sorted
	var hidden []models.CryptoWeight
	if len(sorted) > MaxVisibleHoldings {
		visible = sorted[:MaxVisibleHoldings]
		hidden = sorted[MaxVisibleHoldings:]
	}

	distribution := make([]models.CryptoWeight, 0, len(visible)+1)
	for i, cw := range visible {
		switch i {
		case 0:
			cw.Color = colorPrimary
		case 1:
			cw.Color = colorSecondary
		default:
			cw.Color = colorDefault
		}
		distribution = append(distribution, cw)
	}

	if len(hidden) > 0 {
		others := models.CryptoWeight{
			Ticker:       OthersTicker,
			Name:         OthersTicker,
			Color:        colorOthers,
			IsOthers:     true,
			OthersDetail: hidden,
		}
		for _, cw := range hidden {
			others.Value += cw.Value
			others.Weight += cw.Weight
		}
		distribution = append(distribution, others)
	}

	return distribution
}
