package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadnest_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const leadColumns = `id, organization_id, company_name, contact_name, email, phone,
	project_type, budget, timeline, notes,
	ai_score, score_category, score_priority, score_industry, score_breakdown, scored_at,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.OrganizationID, &l.CompanyName, &l.ContactName, &l.Email, &l.Phone,
		&l.ProjectType, &l.Budget, &l.Timeline, &l.Notes,
		&l.AIScore, &l.ScoreCategory, &l.ScorePriority, &l.ScoreIndustry, &l.ScoreBreakdown, &l.ScoredAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create inserts a new lead and returns the stored row.
func (r *Repo) Create(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		INSERT INTO leads (id, organization_id, company_name, contact_name, email, phone,
			project_type, budget, timeline, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadColumns

	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}

	stored, err := scanLead(r.pool.QueryRow(ctx, query,
		lead.ID, lead.OrganizationID, lead.CompanyName, lead.ContactName, lead.Email, lead.Phone,
		lead.ProjectType, lead.Budget, lead.Timeline, lead.Notes,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return stored, nil
}

// GetByID retrieves a lead by its ID within a tenant.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND organization_id = $2`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

// List retrieves leads for a tenant, newest first, optionally filtered by
// score category. It also returns the total matching count for paging.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID, filter ListFilter) ([]Lead, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	countQuery := `SELECT COUNT(*) FROM leads WHERE organization_id = $1 AND ($2::text IS NULL OR score_category = $2)`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, organizationID, filter.Category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE organization_id = $1 AND ($2::text IS NULL OR score_category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, organizationID, filter.Category, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	return leads, total, rows.Err()
}

// Update replaces the mutable intake fields of a lead.
func (r *Repo) Update(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		UPDATE leads
		SET company_name = $3, contact_name = $4, email = $5, phone = $6,
			project_type = $7, budget = $8, timeline = $9, notes = $10,
			updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + leadColumns

	stored, err := scanLead(r.pool.QueryRow(ctx, query,
		lead.ID, lead.OrganizationID, lead.CompanyName, lead.ContactName, lead.Email, lead.Phone,
		lead.ProjectType, lead.Budget, lead.Timeline, lead.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}

	return stored, nil
}

// Delete removes a lead.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// UpdateScore persists the outcome of a scoring pass.
func (r *Repo) UpdateScore(ctx context.Context, organizationID, id uuid.UUID, update ScoreUpdate) error {
	query := `
		UPDATE leads
		SET ai_score = $3, score_category = $4, score_priority = $5, score_industry = $6,
			score_breakdown = $7, scored_at = $8
		WHERE id = $1 AND organization_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, organizationID,
		update.Score, update.Category, update.Priority, update.Industry, update.Breakdown, update.ScoredAt)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// ListStaleScores returns leads across all tenants whose persisted score is
// older than the cutoff (or that were never scored). Recency decay means a
// stored score drifts from what the engine would produce now.
func (r *Repo) ListStaleScores(ctx context.Context, scoredBefore time.Time, limit int) ([]Lead, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}

	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE scored_at IS NULL OR scored_at < $1
		ORDER BY scored_at ASC NULLS FIRST
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, scoredBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale scores: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stale lead: %w", err)
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// ListScoringWeights returns the tenant's industry weight overrides, if any.
func (r *Repo) ListScoringWeights(ctx context.Context, organizationID uuid.UUID) ([]ScoringWeight, error) {
	query := `
		SELECT industry, budget_weight, urgency_weight, engagement_weight
		FROM scoring_weights
		WHERE organization_id = $1`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list scoring weights: %w", err)
	}
	defer rows.Close()

	var weights []ScoringWeight
	for rows.Next() {
		var w ScoringWeight
		if err := rows.Scan(&w.Industry, &w.BudgetWeight, &w.UrgencyWeight, &w.EngagementWeight); err != nil {
			return nil, fmt.Errorf("scan scoring weight: %w", err)
		}
		weights = append(weights, w)
	}

	return weights, rows.Err()
}
