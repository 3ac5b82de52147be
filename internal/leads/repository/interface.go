package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is the persisted lead record, tenant-scoped by organization.
// Intake fields are free text: budget and timeline arrive as prose, not
// numbers, and the scoring engine matches keyword bands against them.
type Lead struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	CompanyName    *string
	ContactName    *string
	Email          *string
	Phone          *string
	ProjectType    *string
	Budget         *string
	Timeline       *string
	Notes          *string

	// Last persisted scoring pass; nil until the lead is first scored.
	AIScore        *float64
	ScoreCategory  *string
	ScorePriority  *int
	ScoreIndustry  *string
	ScoreBreakdown []byte // JSON breakdown from the engine
	ScoredAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoreUpdate carries the persisted outcome of a scoring pass.
type ScoreUpdate struct {
	Score     float64
	Category  string
	Priority  int
	Industry  string
	Breakdown []byte
	ScoredAt  time.Time
}

// ScoringWeight is a per-tenant industry weight override row.
type ScoringWeight struct {
	Industry         string
	BudgetWeight     float64
	UrgencyWeight    float64
	EngagementWeight float64
}

// ListFilter narrows lead listings.
type ListFilter struct {
	Category *string
	Limit    int
	Offset   int
}

// Repository defines persistence operations for leads.
type Repository interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Lead, error)
	List(ctx context.Context, organizationID uuid.UUID, filter ListFilter) ([]Lead, int, error)
	Update(ctx context.Context, lead Lead) (Lead, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error

	UpdateScore(ctx context.Context, organizationID, id uuid.UUID, update ScoreUpdate) error
	ListStaleScores(ctx context.Context, scoredBefore time.Time, limit int) ([]Lead, error)

	ListScoringWeights(ctx context.Context, organizationID uuid.UUID) ([]ScoringWeight, error)
}
