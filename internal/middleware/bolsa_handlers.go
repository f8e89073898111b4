package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
	"github.com/cryptodca/portfolio-api/internal/services"
)

// BolsaHandler atiende las rutas de bolsas (sub-carteras con objetivo)
type BolsaHandler struct {
	bolsas  *repository.BolsaRepository
	service *services.BolsaService
	log     *slog.Logger
}

func NewBolsaHandler(bolsas *repository.BolsaRepository, service *services.BolsaService, log *slog.Logger) *BolsaHandler {
	return &BolsaHandler{bolsas: bolsas, service: service, log: log}
}

// ownedBolsa obtiene una bolsa y verifica que pertenezca al usuario.
// Responde el error correspondiente y devuelve nil si no se puede usar.
func (h *BolsaHandler) ownedBolsa(c *gin.Context, bolsaID string) *models.Bolsa {
	userID := c.GetString("userId")

	bolsa, err := h.bolsas.GetBolsaByID(bolsaID)
	if err != nil {
		if errors.Is(err, repository.ErrBolsaNotFound) {
			respondError(c, http.StatusNotFound, "Bolsa no encontrada")
			return nil
		}
		respondError(c, http.StatusInternalServerError, "Error al obtener la bolsa")
		return nil
	}
	if bolsa.UserID != userID {
		respondError(c, http.StatusForbidden, "No tienes permiso para acceder a esta bolsa")
		return nil
	}

	return bolsa
}

// Create crea una nueva bolsa con sus activos y etiquetas iniciales
func (h *BolsaHandler) Create(c *gin.Context) {
	userID := c.GetString("userId")

	var bolsa models.Bolsa
	if err := c.ShouldBindJSON(&bolsa); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bolsa.UserID = userID
	if err := h.bolsas.CreateBolsa(&bolsa); err != nil {
		h.log.Error("error al crear la bolsa", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al crear la bolsa")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Bolsa creada exitosamente",
		"bolsa":   h.service.Refresh(c.Request.Context(), &bolsa),
	})
}

// List devuelve todas las bolsas del usuario con su valor y progreso actuales
func (h *BolsaHandler) List(c *gin.Context) {
	userID := c.GetString("userId")

	bolsas, err := h.service.GetBolsasByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("error al obtener las bolsas", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al obtener las bolsas")
		return
	}
	if bolsas == nil {
		bolsas = []models.Bolsa{}
	}

	respondOK(c, http.StatusOK, gin.H{"bolsas": bolsas})
}

// GetByID devuelve una bolsa del usuario con su valor y progreso actuales
func (h *BolsaHandler) GetByID(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	respondOK(c, http.StatusOK, gin.H{"bolsa": h.service.Refresh(c.Request.Context(), bolsa)})
}

// ListByTag devuelve las bolsas del usuario que tienen una etiqueta
func (h *BolsaHandler) ListByTag(c *gin.Context) {
	userID := c.GetString("userId")
	tag := c.Param("tag")

	bolsas, err := h.bolsas.GetBolsasByTag(userID, tag)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al obtener las bolsas")
		return
	}
	for i := range bolsas {
		h.service.Refresh(c.Request.Context(), &bolsas[i])
	}
	if bolsas == nil {
		bolsas = []models.Bolsa{}
	}

	respondOK(c, http.StatusOK, gin.H{"bolsas": bolsas})
}

// Update modifica el nombre, la descripción o el objetivo de una bolsa
func (h *BolsaHandler) Update(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	var update struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Goal        *float64 `json:"goal"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if update.Name != nil {
		bolsa.Name = *update.Name
	}
	if update.Description != nil {
		bolsa.Description = *update.Description
	}
	if update.Goal != nil {
		bolsa.Goal = *update.Goal
	}

	if err := h.bolsas.UpdateBolsa(bolsa); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al actualizar la bolsa")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": "Bolsa actualizada exitosamente",
		"bolsa":   h.service.Refresh(c.Request.Context(), bolsa),
	})
}

// Delete elimina una bolsa con sus activos y etiquetas
func (h *BolsaHandler) Delete(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.bolsas.DeleteBolsa(c.Param("id"), userID); err != nil {
		if errors.Is(err, repository.ErrBolsaNotFound) {
			respondError(c, http.StatusNotFound, "Bolsa no encontrada")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al eliminar la bolsa")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Bolsa eliminada exitosamente"})
}

// AddAsset agrega un activo a una bolsa del usuario
func (h *BolsaHandler) AddAsset(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	var asset models.AssetInBolsa
	if err := c.ShouldBindJSON(&asset); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bolsas.AddAssetToBolsa(bolsa.ID, &asset); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al agregar el activo")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Activo agregado exitosamente",
		"asset":   asset,
	})
}

// UpdateAsset modifica la cantidad o el precio de compra de un activo
func (h *BolsaHandler) UpdateAsset(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	var update struct {
		Amount        float64 `json:"amount" binding:"required,gt=0"`
		PurchasePrice float64 `json:"purchase_price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	asset := models.AssetInBolsa{
		ID:            c.Param("assetId"),
		BolsaID:       bolsa.ID,
		Amount:        update.Amount,
		PurchasePrice: update.PurchasePrice,
	}

	if err := h.bolsas.UpdateAsset(&asset); err != nil {
		if errors.Is(err, repository.ErrBolsaNotFound) {
			respondError(c, http.StatusNotFound, "Activo no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al actualizar el activo")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Activo actualizado exitosamente"})
}

// DeleteAsset elimina un activo de una bolsa
func (h *BolsaHandler) DeleteAsset(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	if err := h.bolsas.DeleteAsset(bolsa.ID, c.Param("assetId")); err != nil {
		if errors.Is(err, repository.ErrBolsaNotFound) {
			respondError(c, http.StatusNotFound, "Activo no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al eliminar el activo")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Activo eliminado exitosamente"})
}

// AddTags agrega etiquetas a una bolsa. Las repetidas se ignoran
func (h *BolsaHandler) AddTags(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	var req struct {
		Tags []string `json:"tags" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	for _, tag := range req.Tags {
		if err := h.bolsas.AddTagToBolsa(bolsa.ID, tag); err != nil {
			respondError(c, http.StatusInternalServerError, "Error al agregar las etiquetas")
			return
		}
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Etiquetas agregadas exitosamente"})
}

// RemoveTag elimina una etiqueta de una bolsa
func (h *BolsaHandler) RemoveTag(c *gin.Context) {
	bolsa := h.ownedBolsa(c, c.Param("id"))
	if bolsa == nil {
		return
	}

	if err := h.bolsas.RemoveTagFromBolsa(bolsa.ID, c.Param("tag")); err != nil {
		if errors.Is(err, repository.ErrBolsaNotFound) {
			respondError(c, http.StatusNotFound, "Etiqueta no encontrada")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al eliminar la etiqueta")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Etiqueta eliminada exitosamente"})
}
