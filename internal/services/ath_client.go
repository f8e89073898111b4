package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cryptodca/portfolio-api/internal/config"
	"github.com/cryptodca/portfolio-api/internal/models"
)

// coinMarketEntry es el esquema de /coins/markets de CoinGecko, reducido a
// los campos del máximo histórico.
type coinMarketEntry struct {
	Symbol              string    `json:"symbol"`
	ATH                 float64   `json:"ath"`
	ATHChangePercentage float64   `json:"ath_change_percentage"`
	ATHDate             time.Time `json:"ath_date"`
}

// ATHClient consulta el feed de máximos históricos (ATH) por ticker
type ATHClient struct {
	client *resty.Client
}

func NewATHClient(cfg *config.Config) *ATHClient {
	client := resty.New().
		SetDebug(cfg.Markets.Debug).
		SetTimeout(cfg.Markets.Timeout).
		SetBaseURL(cfg.Markets.ATHAPIURL)

	return &ATHClient{client: client}
}

// GetATHRecords devuelve los registros ATH indexados por ticker en
// mayúsculas. Un fallo del feed es un error del conjunto completo: no hay
// joins parciales. Que un ticker no aparezca en el mapa no es un error;
// esa degradación la resuelve el joiner.
func (a *ATHClient) GetATHRecords(ctx context.Context, tickers []string) (map[string]models.ATHRecord, error) {
	if len(tickers) == 0 {
		return map[string]models.ATHRecord{}, nil
	}

	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbols = append(symbols, strings.ToLower(t))
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"symbols":     strings.Join(symbols, ","),
		}).
		Get("/coins/markets")
	if err != nil {
		slog.Error("error en la petición del feed ATH", slog.String("err", err.Error()))
		return nil, fmt.Errorf("error en la petición del feed ATH: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamResponse, resp.StatusCode())
	}

	var entries []coinMarketEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamResponse, err)
	}

	records := make(map[string]models.ATHRecord, len(entries))
	for _, entry := range entries {
		ticker := strings.ToUpper(entry.Symbol)
		if entry.ATH <= 0 {
			continue
		}
		records[ticker] = models.ATHRecord{
			Ticker:        ticker,
			Value:         entry.ATH,
			Date:          entry.ATHDate,
			PercentChange: entry.ATHChangePercentage,
		}
	}

	return records, nil
}
