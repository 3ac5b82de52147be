package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendHotLeadAlert notifies the sales inbox that a lead scored hot.
func (s *SMTPSender) SendHotLeadAlert(ctx context.Context, toEmail string, data HotLeadAlertData) error {
	company := data.CompanyName
	if company == "" {
		company = "Unknown company"
	}

	subject := fmt.Sprintf(subjectHotLeadAlertFmt, company, data.Score)
	content, err := renderEmailTemplate("hot_lead.html", hotLeadEmailData{
		baseEmailData: baseEmailData{
			Title:   "Hot lead alert",
			Heading: "A new lead needs immediate attention",
		},
		CompanyName: company,
		ContactName: data.ContactName,
		Email:       data.Email,
		Phone:       data.Phone,
		Score:       fmt.Sprintf("%.1f", data.Score),
		Action:      data.Action,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendFollowUpReminder nudges the sales inbox about a warm or cold lead
// whose scheduled follow-up window has arrived.
func (s *SMTPSender) SendFollowUpReminder(ctx context.Context, toEmail string, data FollowUpReminderData) error {
	company := data.CompanyName
	if company == "" {
		company = "Unknown company"
	}

	subject := fmt.Sprintf(subjectFollowUpReminderFmt, company)
	content, err := renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{
			Title:   "Follow-up reminder",
			Heading: "Time to follow up with " + company,
		},
		CompanyName: company,
		ContactName: data.ContactName,
		Email:       data.Email,
		Phone:       data.Phone,
		Category:    data.Category,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
