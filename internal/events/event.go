// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadnest_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	TenantID    uuid.UUID `json:"tenantId"`
	CompanyName string    `json:"companyName,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadScored is published after a lead's score has been computed and
// persisted. Subscribers react to the category: hot leads trigger an
// immediate notification, cold leads get a follow-up scheduled.
type LeadScored struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	TenantID    uuid.UUID `json:"tenantId"`
	Score       float64   `json:"score"`
	Category    string    `json:"category"`
	Priority    int       `json:"priority"`
	Action      string    `json:"action,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadFollowUpDue is published by the scheduler worker when a deferred
// follow-up reminder for a warm or cold lead comes due.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	TenantID    uuid.UUID `json:"tenantId"`
	Category    string    `json:"category"`
	CompanyName string    `json:"companyName,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.lead.followup_due" }
