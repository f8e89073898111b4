package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/services"
)

// DashboardHandler atiende las rutas de agregación del portafolio
type DashboardHandler struct {
	portfolio *services.PortfolioService
	snapshots *services.SnapshotService
	log       *slog.Logger
}

func NewDashboardHandler(portfolio *services.PortfolioService, snapshots *services.SnapshotService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{portfolio: portfolio, snapshots: snapshots, log: log}
}

// GetDashboard devuelve el resumen por activo del portafolio del usuario
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID := c.GetString("userId")

	dashboard, err := h.portfolio.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al armar el dashboard", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener el dashboard")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetDashboardATH devuelve el dashboard enriquecido con los máximos históricos.
// Si el feed de máximos falla, el componente completo falla: no se mezclan
// datos reales con datos inventados.
func (h *DashboardHandler) GetDashboardATH(c *gin.Context) {
	userID := c.GetString("userId")

	dashboard, err := h.portfolio.GetDashboardWithATH(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al armar el dashboard con ATH", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener los máximos históricos")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetHoldings devuelve los totales del portafolio y su distribución
func (h *DashboardHandler) GetHoldings(c *gin.Context) {
	userID := c.GetString("userId")

	holdings, err := h.portfolio.GetHoldings(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al calcular las tenencias", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener las tenencias")
		return
	}

	respondOK(c, http.StatusOK, holdings)
}

// GetCurrentBalance devuelve el balance actual del portafolio
func (h *DashboardHandler) GetCurrentBalance(c *gin.Context) {
	userID := c.GetString("userId")

	balance, err := h.portfolio.GetCurrentBalance(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al calcular el balance", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener el balance")
		return
	}

	respondOK(c, http.StatusOK, balance)
}

// GetPerformance devuelve el mejor y el peor activo de las últimas 24 horas
func (h *DashboardHandler) GetPerformance(c *gin.Context) {
	userID := c.GetString("userId")

	performance, err := h.portfolio.GetPerformance(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al calcular el rendimiento", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener el rendimiento")
		return
	}

	respondOK(c, http.StatusOK, performance)
}

// GetInvestmentHistory devuelve la serie histórica del valor del portafolio.
// El rango se elige con los flags show_all, show_30d, show_7d o show_today,
// por defecto se muestran los últimos 7 días.
func (h *DashboardHandler) GetInvestmentHistory(c *gin.Context) {
	userID := c.GetString("userId")

	now := time.Now()
	var since time.Time
	switch {
	case c.Query("show_all") == "true":
		since = time.Time{}
	case c.Query("show_today") == "true":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case c.Query("show_30d") == "true":
		since = now.AddDate(0, 0, -30)
	case c.Query("show_7d") == "true":
		since = now.AddDate(0, 0, -7)
	default:
		since = now.AddDate(0, 0, -7)
	}

	history, err := h.snapshots.GetInvestmentHistory(userID, since)
	if err != nil {
		h.log.Error("error al obtener el historial", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener el historial de inversión")
		return
	}

	respondOK(c, http.StatusOK, history)
}

// ForceSnapshot captura un snapshot inmediato del portafolio del usuario
func (h *DashboardHandler) ForceSnapshot(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.snapshots.Capture(c.Request.Context(), userID); err != nil {
		h.log.Error("error al crear el snapshot", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al crear el snapshot")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Snapshot creado exitosamente"})
}
