// Package mailer delivers account-status mail. In receive-only mode, which is
// every non-production configuration, outbound messages are logged and never
// transmitted; SMTP delivery is opt-in through configuration.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"unicode"

	"sellarte/internal/platform/config"
)

type Mailer struct {
	receiveOnly bool
	smtpAddr    string
	from        string
	logger      *slog.Logger
	send        func(addr, from string, to []string, msg []byte) error
}

func New(cfg config.Server, logger *slog.Logger) *Mailer {
	return &Mailer{
		receiveOnly: cfg.MailReceiveOnly || cfg.SMTPAddr == "",
		smtpAddr:    cfg.SMTPAddr,
		from:        cfg.MailFrom,
		logger:      logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// AccountApproved notifies a reseller that the application was approved.
func (m *Mailer) AccountApproved(ctx context.Context, email, tier string) error {
	name := displayName(email)
	subject := "Tu cuenta mayorista fue aprobada"
	body := fmt.Sprintf(
		"Hola %s,\n\nTu cuenta mayorista fue aprobada en el nivel %s. "+
			"Ya puedes ver tus precios con descuento al iniciar sesión.\n\nEquipo Sellarte",
		name, tier)
	return m.deliver(ctx, email, subject, body)
}

// AccountRejected notifies a reseller that the application was rejected.
func (m *Mailer) AccountRejected(ctx context.Context, email string) error {
	name := displayName(email)
	subject := "Sobre tu solicitud de cuenta mayorista"
	body := fmt.Sprintf(
		"Hola %s,\n\nPor ahora no pudimos aprobar tu solicitud de cuenta mayorista. "+
			"Escríbenos a ventas@sellarte.co si quieres más información.\n\nEquipo Sellarte",
		name)
	return m.deliver(ctx, email, subject, body)
}

func (m *Mailer) deliver(ctx context.Context, to, subject, body string) error {
	if m.receiveOnly {
		m.logger.InfoContext(ctx, "outbound mail suppressed (receive-only mode)",
			"to", to, "subject", subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := m.send(m.smtpAddr, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.InfoContext(ctx, "mail sent", "to", to, "subject", subject)
	return nil
}

// displayName derives a greeting name from the address local part.
func displayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "cliente"
	}

	runes := []rune(parts[0])
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
