package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
)

// PortfolioService calcula las métricas derivadas del portafolio: dashboard
// por ticker, join con el feed ATH, distribución para el gráfico de torta,
// balance y rendimiento. Todas las dependencias se inyectan; el servicio no
// consulta estado ambiental.
type PortfolioService struct {
	transactions *repository.TransactionRepository
	markets      *MarketClient
	athFeed      *ATHClient
}

func NewPortfolioService(transactions *repository.TransactionRepository, markets *MarketClient, athFeed *ATHClient) *PortfolioService {
	return &PortfolioService{
		transactions: transactions,
		markets:      markets,
		athFeed:      athFeed,
	}
}

// GetDashboard agrega las transacciones del usuario por ticker y las une con
// las cotizaciones actuales. Una lista vacía de transacciones produce un
// dashboard vacío, no un error.
func (s *PortfolioService) GetDashboard(ctx context.Context, userID string) ([]models.DashboardItem, error) {
	txs, err := s.transactions.GetUserTransactions(userID)
	if err != nil {
		return nil, fmt.Errorf("error al obtener transacciones: %w", err)
	}
	if len(txs) == 0 {
		return []models.DashboardItem{}, nil
	}

	tickers := uniqueTickers(txs)
	quotes, err := s.markets.GetQuotes(ctx, tickers)
	if err != nil {
		return nil, err
	}

	return BuildDashboard(txs, quotes), nil
}

// GetDashboardWithATH une el dashboard con el feed de máximos históricos.
// Si el feed falla, falla la operación completa: o todas las filas llevan
// datos ATH o ninguna.
func (s *PortfolioService) GetDashboardWithATH(ctx context.Context, userID string) ([]models.CombinedDashboardItem, error) {
	dashboard, err := s.GetDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(dashboard) == 0 {
		return []models.CombinedDashboardItem{}, nil
	}

	tickers := make([]string, 0, len(dashboard))
	for _, item := range dashboard {
		tickers = append(tickers, item.Ticker)
	}

	records, err := s.athFeed.GetATHRecords(ctx, tickers)
	if err != nil {
		return nil, err
	}

	return JoinATH(dashboard, records, time.Now()), nil
}

// GetHoldings calcula los totales del portafolio y la distribución por peso
func (s *PortfolioService) GetHoldings(ctx context.Context, userID string) (models.Holdings, error) {
	dashboard, err := s.GetDashboard(ctx, userID)
	if err != nil {
		return models.Holdings{}, err
	}

	holdings := models.Holdings{
		Distribution: []models.CryptoWeight{},
		ChartData: models.PieChartData{
			Labels:   []string{},
			Values:   []float64{},
			Colors:   []string{},
			Currency: "USD",
		},
	}

	if len(dashboard) == 0 {
		return holdings, nil
	}

	var weights []models.CryptoWeight
	for _, item := range dashboard {
		currentValue := item.Holdings * item.CurrentPrice
		holdings.TotalCurrentValue += currentValue
		holdings.TotalInvested += item.TotalInvested
		holdings.TotalProfit += item.CurrentProfit

		weights = append(weights, models.CryptoWeight{
			Ticker: item.Ticker,
			Name:   item.CryptoName,
			Value:  currentValue,
		})
	}

	if holdings.TotalInvested > 0 {
		holdings.ProfitPercentage = (holdings.TotalProfit / holdings.TotalInvested) * 100
	}

	for i := range weights {
		if holdings.TotalCurrentValue > 0 {
			weights[i].Weight = (weights[i].Value / holdings.TotalCurrentValue) * 100
		}
	}

	holdings.Distribution = BuildDistribution(weights)

	for _, cw := range holdings.Distribution {
		holdings.ChartData.Labels = append(holdings.ChartData.Labels, cw.Ticker)
		holdings.ChartData.Values = append(holdings.ChartData.Values, cw.Weight)
		holdings.ChartData.Colors = append(holdings.ChartData.Colors, cw.Color)
	}

	return holdings, nil
}

// GetCurrentBalance calcula el balance total actual del usuario
func (s *PortfolioService) GetCurrentBalance(ctx context.Context, userID string) (*models.Balance, error) {
	dashboard, err := s.GetDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance := &models.Balance{LastUpdated: time.Now()}
	for _, item := range dashboard {
		balance.TotalBalance += item.Holdings * item.CurrentPrice
		balance.TotalInvested += item.TotalInvested
	}
	balance.TotalProfit = balance.TotalBalance - balance.TotalInvested
	if balance.TotalInvested > 0 {
		balance.ProfitPercentage = (balance.TotalProfit / balance.TotalInvested) * 100
	}

	return balance, nil
}

// GetPerformance devuelve la mejor y la peor criptomoneda del usuario por
// variación porcentual en 24 horas. USDT queda fuera del cálculo.
func (s *PortfolioService) GetPerformance(ctx context.Context, userID string) (*models.Performance, error) {
	dashboard, err := s.GetDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(dashboard) == 0 {
		return &models.Performance{}, nil
	}

	tickers := make([]string, 0, len(dashboard))
	for _, item := range dashboard {
		if item.Ticker == "USDT" {
			continue
		}
		tickers = append(tickers, item.Ticker)
	}
	if len(tickers) == 0 {
		return &models.Performance{}, nil
	}

	quotes, err := s.markets.GetQuotes(ctx, tickers)
	if err != nil {
		return nil, err
	}

	var details []models.PerformanceDetail
	for _, ticker := range tickers {
		quote, ok := quotes[ticker]
		if !ok {
			slog.Warn("sin cotización para el cálculo de rendimiento", slog.String("ticker", ticker))
			continue
		}
		details = append(details, models.PerformanceDetail{
			Ticker:       ticker,
			ChangePct24h: quote.ChangePct24h,
			PriceChange:  quote.Change24h,
			ImageURL:     quote.ImageURL,
		})
	}

	performance := &models.Performance{}
	if len(details) == 0 {
		return performance, nil
	}

	// Con un solo activo, cae como ganador o perdedor según su signo
	if len(details) == 1 {
		if details[0].ChangePct24h >= 0 {
			performance.TopGainer = details[0]
		} else {
			performance.TopLoser = details[0]
		}
		return performance, nil
	}

	performance.TopGainer = details[0]
	performance.TopLoser = details[0]
	for _, detail := range details[1:] {
		if detail.ChangePct24h > performance.TopGainer.ChangePct24h {
			performance.TopGainer = detail
		}
		if detail.ChangePct24h < performance.TopLoser.ChangePct24h {
			performance.TopLoser = detail
		}
	}

	return performance, nil
}

// HoldingsForTicker devuelve la tenencia neta del usuario para un ticker:
// compras menos ventas. Se usa para validar que una venta tenga saldo.
func (s *PortfolioService) HoldingsForTicker(userID, ticker string) (float64, error) {
	txs, err := s.transactions.GetTransactionsByTicker(userID, ticker)
	if err != nil {
		return 0, err
	}

	var balance float64
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeSell:
			balance -= tx.Amount
		default:
			balance += tx.Amount
		}
	}
	return balance, nil
}

// BuildDashboard agrega transacciones por ticker y une las cotizaciones.
// Es una proyección pura: no toca red ni base de datos, y no modifica sus
// argumentos. Las filas sin cotización disponible se omiten.
//
// Invariantes:
//   - holdings = Σ(amount compras) − Σ(amount ventas)
//   - avg_price es el costo promedio sobre compras únicamente
//   - una venta reduce el total invertido en proporción a la cantidad vendida
func BuildDashboard(txs []models.Transaction, quotes map[string]models.Quote) []models.DashboardItem {
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	type position struct {
		ticker      string
		cryptoName  string
		holdings    float64
		invested    float64
		buyAmount   float64
		buyInvested float64
	}

	byTicker := make(map[string]*position)
	var order []string

	for _, tx := range ordered {
		pos, ok := byTicker[tx.Ticker]
		if !ok {
			pos = &position{ticker: tx.Ticker, cryptoName: tx.CryptoName}
			byTicker[tx.Ticker] = pos
			order = append(order, tx.Ticker)
		}

		switch tx.Type {
		case models.TransactionTypeSell:
			if pos.holdings > 0 {
				proportion := tx.Amount / pos.holdings
				if proportion > 1 {
					proportion = 1
				}
				pos.invested -= pos.invested * proportion
			}
			pos.holdings -= tx.Amount
		default:
			pos.holdings += tx.Amount
			pos.invested += tx.Total
			pos.buyAmount += tx.Amount
			pos.buyInvested += tx.Total
		}
	}

	var items []models.DashboardItem
	for _, ticker := range order {
		pos := byTicker[ticker]
		if pos.holdings <= 0 {
			continue
		}

		quote, ok := quotes[ticker]
		if !ok || quote.Price <= 0 {
			slog.Warn("sin datos de precio para el ticker", slog.String("ticker", ticker))
			continue
		}

		item := models.DashboardItem{
			Ticker:        ticker,
			CryptoName:    pos.cryptoName,
			ImageURL:      quote.ImageURL,
			Holdings:      pos.holdings,
			CurrentPrice:  quote.Price,
			TotalInvested: pos.invested,
		}
		if pos.buyAmount > 0 {
			item.AvgPrice = pos.buyInvested / pos.buyAmount
		}
		item.CurrentProfit = item.Holdings*item.CurrentPrice - item.TotalInvested
		if item.TotalInvested > 0 {
			item.ProfitPercent = (item.CurrentProfit / item.TotalInvested) * 100
		}

		items = append(items, item)
	}

	if items == nil {
		return []models.DashboardItem{}
	}
	return items
}

func uniqueTickers(txs []models.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	var tickers []string
	for _, tx := range txs {
		if _, ok := seen[tx.Ticker]; ok {
			continue
		}
		seen[tx.Ticker] = struct{}{}
		tickers = append(tickers, tx.Ticker)
	}
	return tickers
}
