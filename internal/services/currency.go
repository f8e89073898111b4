package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// La aplicación formatea todos los montos en USD con la convención es-AR:
// punto como separador de miles y coma decimal, siempre con dos decimales.
var esAR = message.NewPrinter(language.MustParse("es-AR"))

// FormatUSD formatea un monto como lo hace Intl.NumberFormat("es-AR") para
// USD: 1234.5 -> "US$ 1.234,50". Todas las superficies de la aplicación
// (export, reportes) deben usar este formateador para mantener consistencia.
func FormatUSD(value float64) string {
	return esAR.Sprintf("US$ %v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
