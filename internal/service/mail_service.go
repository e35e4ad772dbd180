package service

import (
	"log"

	"associapro/config"

	"gopkg.in/gomail.v2"
)

// MailService sends notification emails over SMTP.
type MailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailService creates a mail service. Returns nil if SMTP is not configured.
func NewMailService(cfg *config.SMTPConfig) *MailService {
	if cfg.Host == "" {
		return nil
	}
	return &MailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a plain-text email to the given address.
func (s *MailService) Send(to, subject, body string) error {
	if s == nil || to == "" {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[MAIL] send to %s failed: %v", to, err)
		return err
	}
	return nil
}
