package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cryptodca/portfolio-api/internal/config"
	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
	"github.com/cryptodca/portfolio-api/internal/services"
)

// Auth agrupa los handlers de autenticación propia (email y password).
// Los tokens de Clerk se validan por separado en ClerkAuth.
type Auth struct {
	cfg    config.Auth
	users  *repository.UserRepository
	mailer *services.EmailService
	clerk  *ClerkAuth
	log    *slog.Logger
}

func NewAuth(cfg config.Auth, users *repository.UserRepository, mailer *services.EmailService, clerk *ClerkAuth, log *slog.Logger) *Auth {
	return &Auth{cfg: cfg, users: users, mailer: mailer, clerk: clerk, log: log}
}

// Middleware valida el token del header Authorization. Primero intenta
// el JWT propio y, si no valida, cae al verificador de Clerk.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortError(c, http.StatusUnauthorized, "Token no proporcionado")
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inesperado")
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err == nil && token.Valid {
			claims := token.Claims.(jwt.MapClaims)
			userID, _ := claims["userId"].(string)
			if userID == "" {
				abortError(c, http.StatusUnauthorized, "Token inválido")
				return
			}
			c.Set("userId", userID)
			c.Next()
			return
		}

		// No es un token propio, probar con Clerk
		if a.clerk != nil && a.clerk.Enabled() {
			if userID, clerkErr := a.clerk.VerifyToken(c.Request.Context(), tokenString); clerkErr == nil {
				c.Set("userId", userID)
				c.Next()
				return
			}
		}

		abortError(c, http.StatusUnauthorized, "Token inválido")
	}
}

// GenerateToken emite un JWT firmado para un usuario
func (a *Auth) GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(a.cfg.TokenExpiry).Unix(),
	})

	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// GenerateResetToken emite un token de corta duración para resetear el password
func (a *Auth) GenerateResetToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"reset": true,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	return token.SignedString([]byte(a.cfg.JWTSecret))
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResult struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    authUser `json:"user"`
}

func (a *Auth) Login(c *gin.Context) {
	var login struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&login); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.GetUserByEmail(login.Email)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Usuario no encontrado")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Contraseña incorrecta")
		return
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al generar el token")
		return
	}

	respondOK(c, http.StatusOK, authResult{
		Message: "Inicio de sesión exitoso",
		Token:   token,
		User:    authUser{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

func (a *Auth) Signup(c *gin.Context) {
	var signup struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&signup); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al procesar la contraseña")
		return
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    signup.Email,
		Password: string(hashedPassword),
		Name:     signup.Name,
	}

	if err := a.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "El email ya está registrado")
			return
		}
		a.log.Error("error al crear usuario", "error", err)
		respondError(c, http.StatusInternalServerError, "Error al crear usuario")
		return
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al generar el token")
		return
	}

	respondOK(c, http.StatusCreated, authResult{
		Message: "Registro exitoso",
		Token:   token,
		User:    authUser{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Logout es simbólico con JWT sin estado, el cliente descarta el token
func (a *Auth) Logout(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"message": "Sesión cerrada exitosamente"})
}

func (a *Auth) RequestResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// La respuesta es la misma exista o no el email, para no revelar
	// qué direcciones están registradas
	user, err := a.users.GetUserByEmail(req.Email)
	if err == nil {
		token, tokenErr := a.GenerateResetToken(user.Email)
		if tokenErr == nil {
			if sendErr := a.mailer.SendPasswordResetEmail(user.Email, token); sendErr != nil {
				a.log.Error("error al enviar el email de reseteo", "error", sendErr)
			}
		}
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": "Si el email está registrado, recibirás instrucciones para resetear tu contraseña",
	})
}

func (a *Auth) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := jwt.Parse(req.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inesperado")
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		respondError(c, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	claims := token.Claims.(jwt.MapClaims)
	email, _ := claims["email"].(string)
	isReset, _ := claims["reset"].(bool)
	if email == "" || !isReset {
		respondError(c, http.StatusUnauthorized, "Token inválido")
		return
	}

	user, err := a.users.GetUserByEmail(email)
	if err != nil {
		respondError(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error al procesar la contraseña")
		return
	}

	if err := a.users.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		respondError(c, http.StatusInternalServerError, "Error al actualizar la contraseña")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Contraseña actualizada exitosamente"})
}
