// Package transport defines the request and response shapes for the leads
// HTTP API. Score payload field names (ai_score, recommended_action, ...)
// are part of the public contract and mirror what clients already consume.
package transport

import (
	"github.com/google/uuid"

	"leadnest_backend/internal/scoring"
)

// CreateLeadRequest contains data for creating a new lead.
// Everything beyond basic shape validation is free text on purpose:
// budget and timeline are prose the scoring engine pattern-matches.
type CreateLeadRequest struct {
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=200"`
	ContactName *string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	ProjectType *string `json:"project_type,omitempty" validate:"omitempty,max=200"`
	Budget      *string `json:"budget,omitempty" validate:"omitempty,max=500"`
	Timeline    *string `json:"timeline,omitempty" validate:"omitempty,max=500"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateLeadRequest contains data for updating an existing lead.
// Nil fields are left unchanged.
type UpdateLeadRequest struct {
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=200"`
	ContactName *string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	ProjectType *string `json:"project_type,omitempty" validate:"omitempty,max=200"`
	Budget      *string `json:"budget,omitempty" validate:"omitempty,max=500"`
	Timeline    *string `json:"timeline,omitempty" validate:"omitempty,max=500"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListLeadsRequest narrows the lead listing.
type ListLeadsRequest struct {
	Category *string `form:"category" validate:"omitempty,oneof=hot warm cold"`
	Limit    int     `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int     `form:"offset" validate:"omitempty,min=0"`
}

// ScoreAttributesRequest is an ad-hoc scoring request: raw attributes in,
// score out, nothing persisted. Used for previews and imports.
type ScoreAttributesRequest struct {
	CompanyName string `json:"company_name,omitempty" validate:"omitempty,max=200"`
	ContactName string `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Email       string `json:"email,omitempty" validate:"omitempty,max=320"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=40"`
	ProjectType string `json:"project_type,omitempty" validate:"omitempty,max=200"`
	Budget      string `json:"budget,omitempty" validate:"omitempty,max=500"`
	Timeline    string `json:"timeline,omitempty" validate:"omitempty,max=500"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	CreatedAt   string `json:"created_at,omitempty" validate:"omitempty,max=40"`
}

// Attributes converts the request into engine input.
func (r ScoreAttributesRequest) Attributes() scoring.LeadAttributes {
	return scoring.LeadAttributes{
		CompanyName: r.CompanyName,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		ProjectType: r.ProjectType,
		Budget:      r.Budget,
		Timeline:    r.Timeline,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}

// BulkScoreRequest scores a batch of ad-hoc leads.
type BulkScoreRequest struct {
	Leads []ScoreAttributesRequest `json:"leads" validate:"required,min=1,max=500,dive"`
}

// BreakdownResponse exposes the per-dimension sub-scores.
type BreakdownResponse struct {
	BudgetScore       float64 `json:"budget_score"`
	UrgencyScore      float64 `json:"urgency_score"`
	EngagementScore   float64 `json:"engagement_score"`
	RecencyMultiplier float64 `json:"recency_multiplier"`
}

// ScoreResponse serializes a scoring result.
type ScoreResponse struct {
	AIScore           float64            `json:"ai_score"`
	Category          string             `json:"category"`
	Priority          int                `json:"priority"`
	Industry          string             `json:"industry"`
	Breakdown         *BreakdownResponse `json:"breakdown,omitempty"`
	Insights          []string           `json:"insights"`
	RecommendedAction string             `json:"recommended_action"`
}

// NewScoreResponse maps an engine result to the wire format.
func NewScoreResponse(result scoring.ScoreResult) ScoreResponse {
	resp := ScoreResponse{
		AIScore:           result.Score,
		Category:          string(result.Category),
		Priority:          result.Priority,
		Industry:          string(result.Industry),
		Insights:          result.Insights,
		RecommendedAction: result.RecommendedAction,
	}

	if result.Breakdown != nil {
		resp.Breakdown = &BreakdownResponse{
			BudgetScore:       result.Breakdown.BudgetScore,
			UrgencyScore:      result.Breakdown.UrgencyScore,
			EngagementScore:   result.Breakdown.EngagementScore,
			RecencyMultiplier: result.Breakdown.RecencyMultiplier,
		}
	}

	return resp
}

// ScoredLeadResponse pairs a bulk-scored lead with its result, in
// descending score order.
type ScoredLeadResponse struct {
	Lead  ScoreAttributesRequest `json:"lead"`
	Score ScoreResponse          `json:"score"`
}

// BulkScoreResponse wraps bulk scoring output.
type BulkScoreResponse struct {
	Results []ScoredLeadResponse `json:"results"`
	Total   int                  `json:"total"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName *string   `json:"company_name,omitempty"`
	ContactName *string   `json:"contact_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	ProjectType *string   `json:"project_type,omitempty"`
	Budget      *string   `json:"budget,omitempty"`
	Timeline    *string   `json:"timeline,omitempty"`
	Notes       *string   `json:"notes,omitempty"`

	AIScore       *float64 `json:"ai_score,omitempty"`
	ScoreCategory *string  `json:"score_category,omitempty"`
	ScorePriority *int     `json:"score_priority,omitempty"`
	ScoreIndustry *string  `json:"score_industry,omitempty"`
	ScoredAt      *string  `json:"scored_at,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// LeadListResponse wraps a paged list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}
