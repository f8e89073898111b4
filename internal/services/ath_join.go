package services

import (
	"strings"
	"time"

	"github.com/cryptodca/portfolio-api/internal/models"
)

const athDateLayout = "2006-01-02"

// JoinATH une cada fila del dashboard con su registro ATH por coincidencia
// exacta de ticker (normalizado a mayúsculas). Si un ticker no tiene
// registro, la fila degrada al precio actual: ath = current_price, fecha de
// hoy y variación 0, de modo que el valor potencial colapsa al valor actual
// en lugar de fallar. La degradación es por fila; el fallo del feed completo
// lo maneja el llamador antes de llegar acá.
func JoinATH(items []models.DashboardItem, records map[string]models.ATHRecord, now time.Time) []models.CombinedDashboardItem {
	combined := make([]models.CombinedDashboardItem, 0, len(items))

	for _, item := range items {
		row := models.CombinedDashboardItem{DashboardItem: item}

		if record, ok := records[strings.ToUpper(item.Ticker)]; ok {
			row.ATH = record.Value
			row.ATHDate = record.Date.Format(athDateLayout)
			row.ATHPercentChange = record.PercentChange
		} else {
			row.ATH = item.CurrentPrice
			row.ATHDate = now.Format(athDateLayout)
			row.ATHPercentChange = 0
		}
		row.ATHPotentialValue = item.Holdings * row.ATH

		combined = append(combined, row)
	}

	return combined
}
