// Package email delivers transactional email for the application.
// Rendering uses embedded HTML templates; delivery goes over SMTP.
package email

import (
	"context"

	"leadnest_backend/platform/config"
)

// HotLeadAlertData carries the details shown in a hot-lead alert email.
type HotLeadAlertData struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Score       float64
	Action      string
}

// FollowUpReminderData carries the details shown in a follow-up reminder.
type FollowUpReminderData struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Category    string
}

// Sender delivers notification emails.
type Sender interface {
	SendHotLeadAlert(ctx context.Context, toEmail string, data HotLeadAlertData) error
	SendFollowUpReminder(ctx context.Context, toEmail string, data FollowUpReminderData) error
}

// NewSender builds a Sender from configuration. When email is disabled the
// returned sender silently drops messages, which keeps the notification
// wiring identical across environments.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender discards all messages.
type NoopSender struct{}

func (NoopSender) SendHotLeadAlert(context.Context, string, HotLeadAlertData) error {
	return nil
}

func (NoopSender) SendFollowUpReminder(context.Context, string, FollowUpReminderData) error {
	return nil
}
