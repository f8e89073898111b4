package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cryptodca/portfolio-api/internal/repository"
)

// Admin protege y atiende las rutas administrativas de usuarios
type Admin struct {
	secretKey string
	users     *repository.UserRepository
}

func NewAdmin(secretKey string, users *repository.UserRepository) *Admin {
	return &Admin{secretKey: secretKey, users: users}
}

// Middleware exige el header Admin-Key con la clave configurada
func (a *Admin) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminKey := c.GetHeader("Admin-Key")
		if a.secretKey == "" || subtle.ConstantTimeCompare([]byte(adminKey), []byte(a.secretKey)) != 1 {
			abortError(c, http.StatusUnauthorized, "Acceso no autorizado")
			return
		}
		c.Next()
	}
}

func (a *Admin) GetUsers(c *gin.Context) {
	users, err := a.users.GetAllUsers()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al obtener usuarios")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"users": users})
}

func (a *Admin) GetUser(c *gin.Context) {
	user, err := a.users.GetUserById(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": user})
}

func (a *Admin) GetUserByEmail(c *gin.Context) {
	user, err := a.users.GetUserByEmail(c.Param("email"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": user})
}

func (a *Admin) DeleteUser(c *gin.Context) {
	if err := a.users.DeleteUser(c.Param("id")); err != nil {
		respondError(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Usuario eliminado exitosamente"})
}
