package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
	"github.com/cryptodca/portfolio-api/internal/services"
)

// TransactionHandler atiende las rutas de transacciones del usuario autenticado
type TransactionHandler struct {
	transactions *repository.TransactionRepository
	markets      *services.MarketClient
	portfolio    *services.PortfolioService
	reports      *services.ReportService
	log          *slog.Logger
}

func NewTransactionHandler(
	transactions *repository.TransactionRepository,
	markets *services.MarketClient,
	portfolio *services.PortfolioService,
	reports *services.ReportService,
	log *slog.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		markets:      markets,
		portfolio:    portfolio,
		reports:      reports,
		log:          log,
	}
}

// Create registra una nueva transacción. Las ventas se validan contra las
// tenencias actuales, no se puede vender más de lo que se tiene.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := c.GetString("userId")

	var transaction models.Transaction
	if err := c.ShouldBindJSON(&transaction); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction.Ticker = strings.ToUpper(transaction.Ticker)
	transaction.UserID = userID
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	if transaction.Type == "" {
		transaction.Type = models.TransactionTypeBuy
	}
	if transaction.Total == 0 {
		transaction.Total = transaction.Amount * transaction.PurchasePrice
	}
	if transaction.Date.IsZero() {
		transaction.Date = time.Now()
	}

	if !h.markets.TickerExists(c.Request.Context(), transaction.Ticker) {
		respondError(c, http.StatusBadRequest, "Criptomoneda no encontrada")
		return
	}

	if transaction.Type == models.TransactionTypeSell {
		holdings, err := h.portfolio.HoldingsForTicker(userID, transaction.Ticker)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Error al verificar las tenencias")
			return
		}
		if transaction.Amount > holdings {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("No tienes suficiente %s para vender: tienes %.8f y quieres vender %.8f",
					transaction.Ticker, holdings, transaction.Amount))
			return
		}
	}

	if err := h.transactions.CreateTransaction(transaction); err != nil {
		h.log.Error("error al crear la transacción", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al crear la transacción")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message":     "Transacción creada exitosamente",
		"transaction": transaction,
	})
}

// List devuelve las transacciones del usuario con el precio actual y la
// ganancia o pérdida de cada una.
func (h *TransactionHandler) List(c *gin.Context) {
	userID := c.GetString("userId")

	details, err := h.listWithDetails(c, userID)
	if err != nil {
		h.log.Error("error al obtener las transacciones", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener las transacciones")
		return
	}

	respondOK(c, http.StatusOK, details)
}

func (h *TransactionHandler) listWithDetails(c *gin.Context, userID string) ([]models.TransactionDetails, error) {
	transactions, err := h.transactions.GetUserTransactions(userID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return []models.TransactionDetails{}, nil
	}

	tickers := make([]string, 0, len(transactions))
	seen := make(map[string]bool)
	for _, tx := range transactions {
		if !seen[tx.Ticker] {
			seen[tx.Ticker] = true
			tickers = append(tickers, tx.Ticker)
		}
	}

	quotes, err := h.markets.GetQuotes(c.Request.Context(), tickers)
	if err != nil {
		return nil, err
	}

	details := make([]models.TransactionDetails, 0, len(transactions))
	for _, tx := range transactions {
		detail := models.TransactionDetails{Transaction: tx}
		if quote, ok := quotes[tx.Ticker]; ok {
			detail.CurrentPrice = quote.Price
			detail.CurrentValue = tx.Amount * quote.Price
			detail.GainLoss = detail.CurrentValue - tx.Total
			if tx.Total > 0 {
				detail.GainLossPercent = (detail.GainLoss / tx.Total) * 100
			}
		}
		details = append(details, detail)
	}

	return details, nil
}

// GetByID devuelve una transacción del usuario con sus detalles
func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID := c.GetString("userId")
	transactionID := c.Param("id")

	transaction, err := h.transactions.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			respondError(c, http.StatusNotFound, "Transacción no encontrada")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al obtener la transacción")
		return
	}
	if transaction.UserID != userID {
		respondError(c, http.StatusForbidden, "No tienes permiso para ver esta transacción")
		return
	}

	detail := models.TransactionDetails{Transaction: *transaction}
	if quote, err := h.markets.GetQuote(c.Request.Context(), transaction.Ticker); err == nil {
		detail.CurrentPrice = quote.Price
		detail.CurrentValue = transaction.Amount * quote.Price
		detail.GainLoss = detail.CurrentValue - transaction.Total
		if transaction.Total > 0 {
			detail.GainLossPercent = (detail.GainLoss / transaction.Total) * 100
		}
	}

	respondOK(c, http.StatusOK, detail)
}

// Update modifica una transacción existente del usuario
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := c.GetString("userId")
	transactionID := c.Param("id")

	existing, err := h.transactions.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			respondError(c, http.StatusNotFound, "Transacción no encontrada")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al obtener la transacción")
		return
	}
	if existing.UserID != userID {
		respondError(c, http.StatusForbidden, "No tienes permiso para modificar esta transacción")
		return
	}

	var updated models.Transaction
	if err := c.ShouldBindJSON(&updated); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated.ID = transactionID
	updated.UserID = userID
	updated.Ticker = strings.ToUpper(updated.Ticker)
	if updated.Type == "" {
		updated.Type = existing.Type
	}
	if updated.Total == 0 {
		updated.Total = updated.Amount * updated.PurchasePrice
	}
	if updated.Date.IsZero() {
		updated.Date = existing.Date
	}

	if err := h.transactions.UpdateTransaction(updated); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al actualizar la transacción")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message":     "Transacción actualizada exitosamente",
		"transaction": updated,
	})
}

// Delete elimina una transacción del usuario
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := c.GetString("userId")
	transactionID := c.Param("id")

	if err := h.transactions.DeleteTransaction(userID, transactionID); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			respondError(c, http.StatusNotFound, "Transacción no encontrada")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al eliminar la transacción")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Transacción eliminada exitosamente"})
}

// DeleteByTicker elimina todas las transacciones de un ticker del usuario
func (h *TransactionHandler) DeleteByTicker(c *gin.Context) {
	userID := c.GetString("userId")
	ticker := strings.ToUpper(c.Param("ticker"))

	if err := h.transactions.DeleteTransactionsByTicker(userID, ticker); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al eliminar las transacciones")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": "Todas las transacciones de " + ticker + " han sido eliminadas",
	})
}

// Recent devuelve las últimas transacciones del usuario
func (h *TransactionHandler) Recent(c *gin.Context) {
	userID := c.GetString("userId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	transactions, err := h.transactions.GetRecentTransactions(userID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al obtener las transacciones recientes")
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	respondOK(c, http.StatusOK, gin.H{"transactions": transactions})
}

// Export genera un reporte XLSX con las transacciones del usuario
func (h *TransactionHandler) Export(c *gin.Context) {
	userID := c.GetString("userId")

	details, err := h.listWithDetails(c, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al obtener las transacciones")
		return
	}
	if len(details) == 0 {
		respondError(c, http.StatusNotFound, "No hay transacciones para exportar")
		return
	}

	report, err := h.reports.GenerateTransactionsReport(details)
	if err != nil {
		h.log.Error("error al generar el reporte", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al generar el reporte")
		return
	}

	filename := fmt.Sprintf("transacciones_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
