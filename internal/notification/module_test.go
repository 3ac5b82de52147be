package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadnest_backend/internal/email"
	"leadnest_backend/internal/events"
	"leadnest_backend/internal/scheduler"
	"leadnest_backend/platform/logger"
)

type testEmailConfig struct {
	inbox string
}

func (c testEmailConfig) GetEmailEnabled() bool        { return true }
func (c testEmailConfig) GetSMTPHost() string          { return "smtp.example.com" }
func (c testEmailConfig) GetSMTPPort() int             { return 587 }
func (c testEmailConfig) GetSMTPUsername() string      { return "" }
func (c testEmailConfig) GetSMTPPassword() string      { return "" }
func (c testEmailConfig) GetEmailFromName() string     { return "LeadNest" }
func (c testEmailConfig) GetEmailFromAddress() string  { return "no-reply@example.com" }
func (c testEmailConfig) GetNotificationInbox() string { return c.inbox }

type testSender struct {
	calls     []email.HotLeadAlertData
	to        []string
	followUps []email.FollowUpReminderData
}

func (s *testSender) SendHotLeadAlert(_ context.Context, toEmail string, data email.HotLeadAlertData) error {
	s.to = append(s.to, toEmail)
	s.calls = append(s.calls, data)
	return nil
}

func (s *testSender) SendFollowUpReminder(_ context.Context, _ string, data email.FollowUpReminderData) error {
	s.followUps = append(s.followUps, data)
	return nil
}

type testScheduler struct {
	payloads []scheduler.LeadFollowUpPayload
	runAts   []time.Time
}

func (s *testScheduler) ScheduleLeadFollowUp(_ context.Context, payload scheduler.LeadFollowUpPayload, runAt time.Time) error {
	s.payloads = append(s.payloads, payload)
	s.runAts = append(s.runAts, runAt)
	return nil
}

func scoredEvent(category string, score float64) events.LeadScored {
	return events.LeadScored{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		TenantID:    uuid.New(),
		Score:       score,
		Category:    category,
		Priority:    1,
		Action:      "Call immediately. Send SMS if no answer. Follow up every hour until contact.",
		CompanyName: "Acme Roofing",
		ContactName: "Sam Lee",
		Email:       "sam@acmeroofing.com",
		Phone:       "+15551234567",
	}
}

func TestHotLeadTriggersAlert(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))

	if err := m.Handle(context.Background(), scoredEvent("hot", 91.5)); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.calls) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(sender.calls))
	}
	if sender.to[0] != "sales@example.com" {
		t.Errorf("alert sent to %q", sender.to[0])
	}
	alert := sender.calls[0]
	if alert.CompanyName != "Acme Roofing" || alert.Score != 91.5 {
		t.Errorf("unexpected alert payload: %+v", alert)
	}
	if alert.Action == "" {
		t.Error("alert should carry the recommended action")
	}
}

func TestNonHotCategoriesAreIgnored(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))

	for _, category := range []string{"warm", "cold"} {
		if err := m.Handle(context.Background(), scoredEvent(category, 55)); err != nil {
			t.Fatalf("Handle(%s): %v", category, err)
		}
	}

	if len(sender.calls) != 0 {
		t.Fatalf("expected no alerts, got %d", len(sender.calls))
	}
}

func TestMissingInboxSkipsAlert(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testEmailConfig{}, logger.New("development"))

	if err := m.Handle(context.Background(), scoredEvent("hot", 95)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatal("alert should be skipped without a configured inbox")
	}
}

func TestWarmAndColdLeadsScheduleFollowUps(t *testing.T) {
	sender := &testSender{}
	sched := &testScheduler{}
	m := New(sender, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))
	m.SetFollowUpScheduler(sched)

	warm := scoredEvent("warm", 65)
	cold := scoredEvent("cold", 30)

	if err := m.Handle(context.Background(), warm); err != nil {
		t.Fatalf("Handle(warm): %v", err)
	}
	if err := m.Handle(context.Background(), cold); err != nil {
		t.Fatalf("Handle(cold): %v", err)
	}

	if len(sched.payloads) != 2 {
		t.Fatalf("expected 2 scheduled follow-ups, got %d", len(sched.payloads))
	}
	if sched.payloads[0].Category != "warm" || sched.payloads[1].Category != "cold" {
		t.Errorf("unexpected payload categories: %+v", sched.payloads)
	}

	warmDelay := sched.runAts[0].Sub(warm.OccurredAt())
	coldDelay := sched.runAts[1].Sub(cold.OccurredAt())
	if warmDelay != 24*time.Hour {
		t.Errorf("warm follow-up delay = %v, want 24h", warmDelay)
	}
	if coldDelay != 72*time.Hour {
		t.Errorf("cold follow-up delay = %v, want 72h", coldDelay)
	}
	if len(sender.calls) != 0 {
		t.Error("warm and cold leads must not trigger hot alerts")
	}
}

func TestHotLeadsDoNotScheduleFollowUps(t *testing.T) {
	sched := &testScheduler{}
	m := New(&testSender{}, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))
	m.SetFollowUpScheduler(sched)

	if err := m.Handle(context.Background(), scoredEvent("hot", 92)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sched.payloads) != 0 {
		t.Fatal("hot leads should not get a deferred follow-up")
	}
}

func TestFollowUpDueSendsReminder(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))

	event := events.LeadFollowUpDue{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		TenantID:    uuid.New(),
		Category:    "warm",
		CompanyName: "Acme Roofing",
		Email:       "sam@acmeroofing.com",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.followUps) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(sender.followUps))
	}
	if sender.followUps[0].CompanyName != "Acme Roofing" || sender.followUps[0].Category != "warm" {
		t.Errorf("unexpected reminder payload: %+v", sender.followUps[0])
	}
}

func TestUnrelatedEventsAreIgnored(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testEmailConfig{inbox: "sales@example.com"}, logger.New("development"))

	event := events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		TenantID:  uuid.New(),
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatal("unrelated events must not send alerts")
	}
}
