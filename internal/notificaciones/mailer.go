// Package notificaciones sends operational email. Every send is fire and
// forget: a down SMTP server must never fail the request that triggered the
// notification.
package notificaciones

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/config"
)

// Mailer sends plain-text notification email over SMTP.
type Mailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewMailer creates a mailer. Returns nil when SMTP is not configured so
// callers can treat notifications as absent.
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) send(to, subject, body string) {
	go func() {
		msg := strings.Join([]string{
			"From: " + m.cfg.FromAddress,
			"To: " + to,
			"Subject: " + subject,
			"MIME-Version: 1.0",
			"Content-Type: text/plain; charset=utf-8",
			"",
			body,
		}, "\r\n")

		addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
		var auth smtp.Auth
		if m.cfg.SMTPUser != "" {
			auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
		}
		if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{to}, []byte(msg)); err != nil {
			m.logger.Warn("send mail", zap.Error(err), zap.String("to", to), zap.String("subject", subject))
		}
	}()
}

// SendNewYouth notifies a monitor that someone registered through their link.
func (m *Mailer) SendNewYouth(email, monitorNombre, jovenNombre, jovenApellidos, eventoNombre string) {
	if m == nil || email == "" {
		return
	}
	m.send(email,
		"Nueva inscripción en "+eventoNombre,
		fmt.Sprintf("Hola %s,\n\n%s %s se ha inscrito en %s a través de tu enlace.\n",
			monitorNombre, jovenNombre, jovenApellidos, eventoNombre))
}

// SendPasswordChanged notifies a user that their password was changed.
func (m *Mailer) SendPasswordChanged(email, nombreMostrado string) {
	if m == nil || email == "" {
		return
	}
	m.send(email,
		"Tu contraseña ha sido cambiada",
		fmt.Sprintf("Hola %s,\n\nLa contraseña de tu cuenta acaba de cambiarse. Si no fuiste tú, contacta con un organizador inmediatamente.\n",
			nombreMostrado))
}
