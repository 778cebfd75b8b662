package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCollaborationInvite(toEmail, inviterName, chatTitle string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendCollaborationInvite(toEmail, inviterName, chatTitle string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s shared a chat with you", inviterName))

	link := fmt.Sprintf("%s/shared/pending", s.clientURL)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>You have a new chat invitation</h2>
			<p><strong>%s</strong> invited you to collaborate on <strong>%s</strong>.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Review invitation</a>
			<p>If you don't know this person you can simply reject the invitation.</p>
		</div>
	`, html.EscapeString(inviterName), html.EscapeString(chatTitle), link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send invite to %s: %w", toEmail, err)
	}
	return nil
}
