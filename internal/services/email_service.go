package services

import (
	"fmt"
	"html"
	"log"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier sends one HTML email. No retries, no queue.
type Notifier interface {
	Send(to, subject, htmlBody string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) Notifier {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	log.Printf("[email][send] ok: to=%s subject=%q", to, subject)
	return nil
}

// dryRunNotifier only logs; body is not logged because it may carry a code.
type dryRunNotifier struct{}

func NewDryRunNotifier() Notifier {
	return dryRunNotifier{}
}

func (dryRunNotifier) Send(to, subject, _ string) error {
	log.Printf("[email][dry-run] to=%s subject=%q", to, subject)
	return nil
}

func otpEmail(code string, ttl time.Duration) (subject, body string) {
	subject = "Password reset code"
	body = fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Your one-time code: <strong>%s</strong></p>
		<p>The code is valid for %d minutes and can be used once.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, html.EscapeString(code), int(ttl.Minutes()))
	return subject, body
}

func welcomeEmail(name string) (subject, body string) {
	subject = "Welcome!"
	body = fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been successfully created.</p>
	`, html.EscapeString(name))
	return subject, body
}
