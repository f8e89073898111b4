package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/cryptodca/portfolio-api/internal/config"
	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
)

// ClerkAuth valida tokens emitidos por Clerk y procesa sus webhooks
// de usuarios. Si no hay secret key configurada queda deshabilitado y
// la autenticación propia sigue funcionando sola.
type ClerkAuth struct {
	cfg   config.Clerk
	users *repository.UserRepository
	log   *slog.Logger
}

func NewClerkAuth(cfg config.Clerk, users *repository.UserRepository, log *slog.Logger) *ClerkAuth {
	if cfg.SecretKey != "" {
		clerk.SetKey(cfg.SecretKey)
	} else {
		log.Warn("CLERK_SECRET_KEY no configurada, la autenticación con Clerk queda deshabilitada")
	}

	return &ClerkAuth{cfg: cfg, users: users, log: log}
}

func (ca *ClerkAuth) Enabled() bool {
	return ca.cfg.SecretKey != ""
}

// VerifyToken valida un JWT de Clerk y devuelve el id del usuario
func (ca *ClerkAuth) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{Token: tokenString})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token sin id de usuario")
	}
	return claims.Subject, nil
}

// Payload de los webhooks de usuarios de Clerk. Solo se declaran los
// campos que se usan, el resto del evento se ignora.
type clerkWebhookEvent struct {
	Type string           `json:"type"`
	Data clerkWebhookUser `json:"data"`
}

type clerkWebhookUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (u clerkWebhookUser) primaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.EmailAddress != "" {
			return addr.EmailAddress
		}
	}
	return ""
}

func (u clerkWebhookUser) fullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		if email := u.primaryEmail(); email != "" {
			name = strings.Split(email, "@")[0]
		}
	}
	return name
}

// WebhookHandler procesa los eventos user.created, user.updated y
// user.deleted que Clerk envía firmados con Svix.
func (ca *ClerkAuth) WebhookHandler(c *gin.Context) {
	if ca.cfg.WebhookSecret == "" {
		respondError(c, http.StatusInternalServerError, "Webhook secret no configurado")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "No se pudo leer el cuerpo de la petición")
		return
	}

	wh, err := svix.NewWebhook(ca.cfg.WebhookSecret)
	if err != nil {
		ca.log.Error("error al inicializar la verificación del webhook", "error", err)
		respondError(c, http.StatusInternalServerError, "Error al verificar el webhook")
		return
	}

	if err := wh.Verify(body, c.Request.Header); err != nil {
		ca.log.Warn("firma de webhook inválida", "error", err)
		respondError(c, http.StatusUnauthorized, "Firma de webhook inválida")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, http.StatusBadRequest, "Payload JSON inválido")
		return
	}
	if event.Type == "" {
		respondError(c, http.StatusBadRequest, "Evento sin tipo")
		return
	}

	ca.log.Info("webhook de clerk recibido", "event", event.Type, "user_id", event.Data.ID)

	switch event.Type {
	case "user.created":
		ca.handleUserCreated(c, event.Data)
	case "user.updated":
		ca.handleUserUpdated(c, event.Data)
	case "user.deleted":
		ca.handleUserDeleted(c, event.Data)
	default:
		respondOK(c, http.StatusOK, gin.H{"message": "Evento recibido pero no manejado"})
	}
}

func (ca *ClerkAuth) handleUserCreated(c *gin.Context, data clerkWebhookUser) {
	if data.ID == "" {
		respondError(c, http.StatusBadRequest, "Falta el id del usuario")
		return
	}
	email := data.primaryEmail()
	if email == "" {
		respondError(c, http.StatusBadRequest, "No se encontró un email válido")
		return
	}

	// Los usuarios de Clerk no tienen password local
	user := &models.User{
		ID:    data.ID,
		Email: email,
		Name:  data.fullName(),
	}

	if err := ca.users.CreateUser(user); err != nil {
		ca.log.Error("error al crear el usuario desde el webhook", "user_id", data.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al crear el usuario")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Usuario creado exitosamente"})
}

func (ca *ClerkAuth) handleUserUpdated(c *gin.Context, data clerkWebhookUser) {
	if data.ID == "" {
		respondError(c, http.StatusBadRequest, "Falta el id del usuario")
		return
	}
	email := data.primaryEmail()
	if email == "" {
		respondError(c, http.StatusBadRequest, "No se encontró un email válido")
		return
	}

	user := &models.User{
		ID:    data.ID,
		Email: email,
		Name:  data.fullName(),
	}

	if err := ca.users.UpdateUser(user); err != nil {
		ca.log.Error("error al actualizar el usuario desde el webhook", "user_id", data.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al actualizar el usuario")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Usuario actualizado exitosamente"})
}

func (ca *ClerkAuth) handleUserDeleted(c *gin.Context, data clerkWebhookUser) {
	if data.ID == "" {
		respondError(c, http.StatusBadRequest, "Falta el id del usuario")
		return
	}

	if err := ca.users.DeleteUser(data.ID); err != nil {
		ca.log.Error("error al eliminar el usuario desde el webhook", "user_id", data.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Error al eliminar el usuario")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Usuario eliminado exitosamente"})
}
