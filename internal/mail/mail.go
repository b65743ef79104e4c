package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Sender is the outgoing-mail seam. Callers treat sends as fire-and-forget;
// a failed send never unwinds a booking or account change.
type Sender interface {
	Send(to, subject, bodyHTML string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (s *SMTPSender) Send(to, subject, bodyHTML string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", bodyHTML)
	return s.dialer.DialAndSend(m)
}

// LogSender stands in when no SMTP host is configured (local development).
type LogSender struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(to, subject, bodyHTML string) error {
	s.logger.Info("mail (not sent, no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(bodyHTML)),
	)
	return nil
}
