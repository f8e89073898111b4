package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// ReportService genera el export XLSX del historial de transacciones
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

var transactionHeaders = []string{
	"Fecha", "Criptomoneda", "Ticker", "Tipo", "Cantidad",
	"Precio de compra", "Total", "Precio actual", "Valor actual", "Ganancia/Pérdida",
}

// GenerateTransactionsReport arma un archivo XLSX con las transacciones del
// usuario y sus valores a precio actual. Los montos van formateados en USD
// con la convención es-AR, igual que en el resto de la aplicación.
func (g *ReportService) GenerateTransactionsReport(details []models.TransactionDetails) ([]byte, error) {
	if len(details) == 0 {
		return nil, errors.New("no hay transacciones para exportar")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("error al cerrar el archivo del reporte", slog.String("err", err.Error()))
		}
	}()

	const sheet = "Transacciones"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, header := range transactionHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, detail := range details {
		tx := detail.Transaction
		values := []interface{}{
			tx.Date.Format("2006-01-02"),
			tx.CryptoName,
			tx.Ticker,
			tx.Type,
			tx.Amount,
			FormatUSD(tx.PurchasePrice),
			FormatUSD(tx.Total),
			FormatUSD(detail.CurrentPrice),
			FormatUSD(detail.CurrentValue),
			FormatUSD(detail.GainLoss),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("error al escribir la celda %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al serializar el reporte: %w", err)
	}

	return buf.Bytes(), nil
}
