package notifier

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/agenda-pro/internal/config"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

// EmailSender envia o lembrete de agendamento por SMTP.
type EmailSender struct {
	host string
	port int
	user string
	pass string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
	}
}

func (s *EmailSender) Send(ctx context.Context, ap models.Appointment) error {
	if s.host == "" {
		return fmt.Errorf("smtp not configured")
	}
	if ap.ClientEmail == "" {
		return fmt.Errorf("appointment %d has no client email", ap.ID)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", ap.ClientEmail)
	m.SetHeader("Subject", "Lembrete: seu horário está chegando")
	m.SetBody("text/plain", reminderBody(ap))

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}

func reminderBody(ap models.Appointment) string {
	date := ap.Date
	if d, err := time.Parse("2006-01-02", ap.Date); err == nil {
		date = d.Format("02/01/2006")
	}

	return fmt.Sprintf(
		"Olá %s,\n\n"+
			"Passando para lembrar do seu agendamento:\n\n"+
			"Serviço: %s\n"+
			"Profissional: %s\n"+
			"Data: %s\n"+
			"Horário: %s\n\n"+
			"Até logo!",
		ap.ClientName,
		ap.Service.Name,
		ap.Professional.Name,
		date,
		ap.Time,
	)
}
