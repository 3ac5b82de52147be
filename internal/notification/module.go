// Package notification provides event handlers for sending notifications
// in response to domain events. This module subscribes to events and inverts
// the dependency: the leads module never needs to know about email providers
// or templates.
package notification

import (
	"context"
	"time"

	"leadnest_backend/internal/email"
	"leadnest_backend/internal/events"
	"leadnest_backend/internal/scheduler"
	"leadnest_backend/internal/scoring"
	"leadnest_backend/platform/config"
	"leadnest_backend/platform/logger"
)

// Follow-up delays by category. Warm leads are worth a nudge the next
// business day; cold leads get a few days before anyone circles back.
const (
	warmFollowUpDelay = 24 * time.Hour
	coldFollowUpDelay = 72 * time.Hour
)

// Module handles domain events that result in outbound notifications.
type Module struct {
	sender    email.Sender
	inbox     string
	log       *logger.Logger
	scheduler scheduler.FollowUpScheduler
}

// New creates the notification module.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		inbox:  cfg.GetNotificationInbox(),
		log:    log,
	}
}

// SetFollowUpScheduler wires the asynq-backed scheduler. Without it, warm
// and cold leads simply get no deferred reminder.
func (m *Module) SetFollowUpScheduler(s scheduler.FollowUpScheduler) {
	m.scheduler = s
}

// RegisterHandlers subscribes the module to the events it cares about.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadScored{}.EventName(), m)
	bus.Subscribe(events.LeadFollowUpDue{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadScored:
		return m.handleLeadScored(ctx, e)
	case events.LeadFollowUpDue:
		return m.handleFollowUpDue(ctx, e)
	default:
		return nil
	}
}

// handleLeadScored alerts the sales inbox when a lead comes back hot.
// Warm and cold leads get a deferred follow-up scheduled instead.
func (m *Module) handleLeadScored(ctx context.Context, event events.LeadScored) error {
	if event.Category != string(scoring.CategoryHot) {
		m.scheduleFollowUp(ctx, event)
		return nil
	}
	if m.inbox == "" {
		m.log.Debug("hot lead alert skipped, no notification inbox configured",
			"leadId", event.LeadID)
		return nil
	}

	err := m.sender.SendHotLeadAlert(ctx, m.inbox, email.HotLeadAlertData{
		CompanyName: event.CompanyName,
		ContactName: event.ContactName,
		Email:       event.Email,
		Phone:       event.Phone,
		Score:       event.Score,
		Action:      event.Action,
	})
	if err != nil {
		m.log.Error("failed to send hot lead alert",
			"leadId", event.LeadID, "error", err)
		return err
	}

	m.log.Info("hot lead alert sent",
		"leadId", event.LeadID, "score", event.Score)
	return nil
}

func (m *Module) scheduleFollowUp(ctx context.Context, event events.LeadScored) {
	if m.scheduler == nil {
		return
	}

	delay := coldFollowUpDelay
	if event.Category == string(scoring.CategoryWarm) {
		delay = warmFollowUpDelay
	}

	err := m.scheduler.ScheduleLeadFollowUp(ctx, scheduler.LeadFollowUpPayload{
		LeadID:         event.LeadID.String(),
		OrganizationID: event.TenantID.String(),
		Category:       event.Category,
	}, event.OccurredAt().Add(delay))
	if err != nil {
		m.log.Error("failed to schedule lead follow-up",
			"leadId", event.LeadID, "error", err)
		return
	}

	m.log.Debug("lead follow-up scheduled",
		"leadId", event.LeadID, "category", event.Category, "delay", delay)
}

// handleFollowUpDue reminds the sales inbox about a lead whose follow-up
// window has arrived.
func (m *Module) handleFollowUpDue(ctx context.Context, event events.LeadFollowUpDue) error {
	if m.inbox == "" {
		return nil
	}

	err := m.sender.SendFollowUpReminder(ctx, m.inbox, email.FollowUpReminderData{
		CompanyName: event.CompanyName,
		ContactName: event.ContactName,
		Email:       event.Email,
		Phone:       event.Phone,
		Category:    event.Category,
	})
	if err != nil {
		m.log.Error("failed to send follow-up reminder",
			"leadId", event.LeadID, "error", err)
		return err
	}

	m.log.Info("follow-up reminder sent",
		"leadId", event.LeadID, "category", event.Category)
	return nil
}

// Compile-time check that Module implements events.Handler
var _ events.Handler = (*Module)(nil)
