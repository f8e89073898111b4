package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/repository"
)

// UserHandler atiende las rutas de la cuenta del usuario autenticado
type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Update modifica el nombre o el email de la cuenta
func (h *UserHandler) Update(c *gin.Context) {
	userID := c.GetString("userId")

	user, err := h.users.GetUserById(userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	var update struct {
		Name  *string `json:"name"`
		Email *string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}

	if err := h.users.UpdateUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al actualizar el usuario")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": "Usuario actualizado exitosamente",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Delete elimina la cuenta y, en cascada, todos sus datos
func (h *UserHandler) Delete(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.users.DeleteUser(userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error al eliminar el usuario")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Usuario eliminado exitosamente"})
}
