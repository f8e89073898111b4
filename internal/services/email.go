package services

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/cryptodca/portfolio-api/internal/config"
)

// EmailService envía los correos de recuperación de contraseña
type EmailService struct {
	cfg config.SMTP
}

func NewEmailService(cfg config.SMTP) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	// Sin configuración SMTP solo registramos el token y simulamos éxito,
	// útil en desarrollo local
	if s.cfg.Host == "" || s.cfg.Port == "" || s.cfg.User == "" || s.cfg.Pass == "" {
		slog.Info("configuración SMTP ausente, token de recuperación registrado",
			slog.String("email", email), slog.String("token", token))
		return nil
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	subject := "Restablecimiento de contraseña"
	body := fmt.Sprintf(`
	<html>
	<body>
		<h2>Restablecimiento de contraseña</h2>
		<p>Has solicitado restablecer tu contraseña. Utiliza el siguiente token:</p>
		<p><strong>%s</strong></p>
		<p>Si no has solicitado este cambio, puedes ignorar este correo.</p>
	</body>
	</html>
	`, token)

	message := fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", email, subject, body)

	err := smtp.SendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{email}, []byte(message))
	if err != nil {
		slog.Error("error al enviar email de recuperación", slog.String("err", err.Error()))
		return err
	}

	return nil
}
