package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cryptodca/portfolio-api/internal/config"
	"github.com/cryptodca/portfolio-api/internal/models"
)

// Errores tipados del cliente de mercado. Un desajuste de forma en la
// respuesta del proveedor es un error explícito, nunca se adivina el esquema.
var (
	ErrTickerNotFound   = errors.New("no se encontraron datos para el ticker")
	ErrUpstreamResponse = errors.New("respuesta inválida del proveedor de precios")
)

// priceMultiFullResponse es el esquema documentado de pricemultifull de
// CryptoCompare, reducido a los campos que consumimos.
type priceMultiFullResponse struct {
	Raw map[string]map[string]rawQuote `json:"RAW"`
}

type rawQuote struct {
	Price           float64 `json:"PRICE"`
	Change24Hour    float64 `json:"CHANGE24HOUR"`
	ChangePct24Hour float64 `json:"CHANGEPCT24HOUR"`
	ImageURL        string  `json:"IMAGEURL"`
}

type cachedQuote struct {
	quote     models.Quote
	timestamp time.Time
}

// MarketClient consulta cotizaciones actuales en USD. Mantiene un caché en
// memoria de corta vida para no castigar el API externo en cada render.
type MarketClient struct {
	client   *resty.Client
	apiKey   string
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

func NewMarketClient(cfg *config.Config) *MarketClient {
	client := resty.New().
		SetDebug(cfg.Markets.Debug).
		SetTimeout(cfg.Markets.Timeout).
		SetBaseURL(cfg.Markets.PriceAPIURL)

	return &MarketClient{
		client:   client,
		apiKey:   cfg.Markets.PriceAPIKey,
		cacheTTL: cfg.Markets.CacheDuration,
		cache:    make(map[string]cachedQuote),
	}
}

// GetQuote obtiene la cotización de un ticker. El ticker se normaliza a
// mayúsculas antes de consultar: el API upstream distingue mayúsculas.
func (m *MarketClient) GetQuote(ctx context.Context, ticker string) (models.Quote, error) {
	quotes, err := m.GetQuotes(ctx, []string{ticker})
	if err != nil {
		return models.Quote{}, err
	}

	quote, ok := quotes[strings.ToUpper(ticker)]
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return quote, nil
}

// GetQuotes obtiene las cotizaciones de varios tickers en una sola llamada.
// Los tickers sin datos simplemente no aparecen en el mapa devuelto.
func (m *MarketClient) GetQuotes(ctx context.Context, tickers []string) (map[string]models.Quote, error) {
	if len(tickers) == 0 {
		return map[string]models.Quote{}, nil
	}

	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		normalized = append(normalized, strings.ToUpper(t))
	}

	quotes := make(map[string]models.Quote, len(normalized))
	missing := make([]string, 0, len(normalized))

	m.mu.RLock()
	for _, t := range normalized {
		if cached, ok := m.cache[t]; ok && time.Since(cached.timestamp) < m.cacheTTL {
			quotes[t] = cached.quote
		} else {
			missing = append(missing, t)
		}
	}
	m.mu.RUnlock()

	if len(missing) == 0 {
		return quotes, nil
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fsyms":   strings.Join(missing, ","),
			"tsyms":   "USD",
			"api_key": m.apiKey,
		}).
		Get("/data/pricemultifull")
	if err != nil {
		slog.Error("error en la petición de precios", slog.String("err", err.Error()))
		return nil, fmt.Errorf("error en la petición de precios: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamResponse, resp.StatusCode())
	}

	var parsed priceMultiFullResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamResponse, err)
	}
	if parsed.Raw == nil {
		return nil, fmt.Errorf("%w: falta el campo RAW", ErrUpstreamResponse)
	}

	now := time.Now()
	m.mu.Lock()
	for ticker, byCurrency := range parsed.Raw {
		raw, ok := byCurrency["USD"]
		if !ok || raw.Price <= 0 {
			continue
		}
		quote := models.Quote{
			Ticker:       ticker,
			Price:        raw.Price,
			Change24h:    raw.Change24Hour,
			ChangePct24h: raw.ChangePct24Hour,
			ImageURL:     normalizeImageURL(ticker, raw.ImageURL),
		}
		quotes[ticker] = quote
		m.cache[ticker] = cachedQuote{quote: quote, timestamp: now}
	}
	m.mu.Unlock()

	return quotes, nil
}

// TickerExists verifica si una criptomoneda existe consultando su cotización
func (m *MarketClient) TickerExists(ctx context.Context, ticker string) bool {
	_, err := m.GetQuote(ctx, ticker)
	return err == nil
}

func normalizeImageURL(ticker, imageURL string) string {
	if imageURL == "" {
		return fmt.Sprintf("https://www.cryptocompare.com/media/37746251/%s.png", strings.ToLower(ticker))
	}
	if !strings.HasPrefix(imageURL, "http") {
		return "https://www.cryptocompare.com" + imageURL
	}
	return imageURL
}
