package mail

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker"
)

// Sender is the outbound mail transport. SMTP implements it in production;
// the notifier tests substitute a recorder.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type SMTP struct {
	host     string
	port     string
	from     string
	password string
	breaker  *gobreaker.CircuitBreaker
}

func NewSMTP(host, port, from, password string) *SMTP {
	// A dead relay makes every send wait out the dial timeout; the breaker
	// sheds those instead of piling up notification goroutines.
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})
	return &SMTP{host: host, port: port, from: from, password: password, breaker: cb}
}

func (s *SMTP) Send(to, subject, htmlBody string) error {
	if s.password == "" {
		return fmt.Errorf("smtp password not configured")
	}

	msg := []byte("Subject: " + subject + "\r\n" +
		"From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		htmlBody + "\r\n")

	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, msg)
	})
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
