package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"confreg/internal/model"
)

type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Enabled reports whether SMTP delivery is configured at all.
func (c *SMTPConfig) Enabled() bool {
	return c != nil && c.Host != "" && c.From != ""
}

func SendConfirmationEmail(log *zerolog.Logger, cfg *SMTPConfig, reg *model.Registration) error {
	subject := "Your conference registration is confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for registering for the conference as a %s attendee.\nWe look forward to seeing you!",
		reg.Name, reg.RegistrationType,
	)
	if reg.RegistrationType == model.TypeProfessional && reg.Company != nil {
		body = fmt.Sprintf(
			"Hi %s,\n\nThank you for registering for the conference as a professional attendee from %s.\nWe look forward to seeing you!",
			reg.Name, *reg.Company,
		)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, reg.Email, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{reg.Email}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send email to %s: %v", reg.Email, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("confirmation email sent to %s", reg.Email)
	return nil
}
