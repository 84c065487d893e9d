package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDecisionRecord(toEmail, meetingTitle, summary, decision string, actionItems []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		clientURL:   clientURL,
	}
}

// SendDecisionRecord mails the decision record of a completed meeting to the
// project owner.
func (s *emailService) SendDecisionRecord(toEmail, meetingTitle, summary, decision string, actionItems []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Board Decision Record: %s", meetingTitle))

	var items strings.Builder
	for _, item := range actionItems {
		items.WriteString(fmt.Sprintf("<li>%s</li>", item))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Meeting Completed: %s</h2>
			<p><strong>Summary</strong></p>
			<p>%s</p>
			<p><strong>Decision</strong></p>
			<p>%s</p>
			<p><strong>Action Items</strong></p>
			<ul>%s</ul>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open VirtualBoard</a></p>
		</div>
	`, meetingTitle, summary, decision, items.String(), s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send decision record to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Decision record sent to %s\n", toEmail)
	return nil
}
