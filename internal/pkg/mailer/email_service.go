package mailer

import (
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// ErrDisabled is returned when no SMTP host is configured. The dispatcher
// records such deliveries as skipped instead of failed.
var ErrDisabled = errors.New("mailer: smtp is not configured")

type IEmailService interface {
	SendNotification(toEmail, recipientName, title, message string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	sender     string
	senderName string
	clientURL  string
}

// NewEmailService returns a gomail-backed sender. An empty host yields a
// sender that always returns ErrDisabled.
func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	s := &emailService{
		sender:     username,
		senderName: senderName,
		clientURL:  clientURL,
	}
	if host != "" {
		s.dialer = gomail.NewDialer(host, port, username, password)
	}
	return s
}

func (s *emailService) SendNotification(toEmail, recipientName, title, message string) error {
	if s.dialer == nil {
		return ErrDisabled
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.sender, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", title)

	link := ""
	if s.clientURL != "" {
		link = fmt.Sprintf(`<p><a href="%s/applications" style="color: #8B4513;">Open the NCIP Portal</a></p>`, html.EscapeString(s.clientURL))
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>Good day, %s.</p>
			<p>%s</p>
			%s
			<p style="color: #888; font-size: 12px;">This is an automated message from the NCIP Portal.</p>
		</div>
	`, html.EscapeString(title), html.EscapeString(recipientName), html.EscapeString(message), link)
	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", message)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", toEmail, err)
	}
	return nil
}
