// Package service implements the leads domain logic: CRUD orchestration
// and the scoring workflow around the pure engine in internal/scoring.
package service

import (
	"context"
	"encoding/json"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"leadnest_backend/internal/events"
	"leadnest_backend/internal/leads/repository"
	"leadnest_backend/internal/leads/transport"
	"leadnest_backend/internal/scoring"
	"leadnest_backend/platform/logger"
	"leadnest_backend/platform/phone"
)

// Service orchestrates lead persistence and scoring.
type Service struct {
	repo    repository.Repository
	bus     events.Bus
	log     *logger.Logger
	baseCfg scoring.Config
}

// New creates a new leads service. The scoring tables start from the
// stock configuration; per-tenant weight overrides are loaded per request.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		bus:     bus,
		log:     log,
		baseCfg: scoring.DefaultConfig(),
	}
}

// engineFor builds a scoring engine for a tenant, overlaying any stored
// industry weight overrides on the stock tables. Scoring is advisory, so
// an override lookup failure degrades to defaults instead of erroring.
func (s *Service) engineFor(ctx context.Context, organizationID uuid.UUID) *scoring.Engine {
	rows, err := s.repo.ListScoringWeights(ctx, organizationID)
	if err != nil {
		s.log.DatabaseError("list scoring weights", err)
		return scoring.New(s.baseCfg)
	}
	if len(rows) == 0 {
		return scoring.New(s.baseCfg)
	}

	overrides := make(map[scoring.Industry]scoring.Weights, len(rows))
	for _, row := range rows {
		overrides[scoring.Industry(row.Industry)] = scoring.Weights{
			Budget:     row.BudgetWeight,
			Urgency:    row.UrgencyWeight,
			Engagement: row.EngagementWeight,
		}
	}

	return scoring.New(s.baseCfg.WithIndustryWeights(overrides))
}

// Create stores a new lead and announces it on the event bus.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	lead := repository.Lead{
		OrganizationID: organizationID,
		CompanyName:    req.CompanyName,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          normalizePhone(req.Phone),
		ProjectType:    req.ProjectType,
		Budget:         req.Budget,
		Timeline:       req.Timeline,
		Notes:          req.Notes,
	}

	stored, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      stored.ID,
		TenantID:    organizationID,
		CompanyName: deref(stored.CompanyName),
		ContactName: deref(stored.ContactName),
		Email:       deref(stored.Email),
	})

	return toLeadResponse(stored), nil
}

// GetByID retrieves a single lead.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// List retrieves a page of leads for the tenant.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	leads, total, err := s.repo.List(ctx, organizationID, repository.ListFilter{
		Category: req.Category,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead)
	}

	return transport.LeadListResponse{Items: items, Total: total}, nil
}

// Update applies partial changes to a lead's intake fields.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	applyIfSet(&lead.CompanyName, req.CompanyName)
	applyIfSet(&lead.ContactName, req.ContactName)
	applyIfSet(&lead.Email, req.Email)
	applyIfSet(&lead.Phone, normalizePhone(req.Phone))
	applyIfSet(&lead.ProjectType, req.ProjectType)
	applyIfSet(&lead.Budget, req.Budget)
	applyIfSet(&lead.Timeline, req.Timeline)
	applyIfSet(&lead.Notes, req.Notes)

	stored, err := s.repo.Update(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toLeadResponse(stored), nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.repo.Delete(ctx, organizationID, id)
}

// ScoreLead scores a persisted lead, stores the result on the lead row and
// publishes a LeadScored event. Persistence failures are logged but do not
// fail the call: the score the caller sees is always the freshly computed
// one.
func (s *Service) ScoreLead(ctx context.Context, organizationID, id uuid.UUID) (transport.ScoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	engine := s.engineFor(ctx, organizationID)
	result := engine.ScoreLead(toAttributes(lead))

	s.persistScore(ctx, lead, result)

	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		TenantID:    organizationID,
		Score:       result.Score,
		Category:    string(result.Category),
		Priority:    result.Priority,
		Action:      result.RecommendedAction,
		CompanyName: deref(lead.CompanyName),
		ContactName: deref(lead.ContactName),
		Email:       deref(lead.Email),
		Phone:       deref(lead.Phone),
	})

	return transport.NewScoreResponse(result), nil
}

// ScoreAttributes scores ad-hoc attributes without touching storage.
func (s *Service) ScoreAttributes(ctx context.Context, organizationID uuid.UUID, req transport.ScoreAttributesRequest) transport.ScoreResponse {
	engine := s.engineFor(ctx, organizationID)
	return transport.NewScoreResponse(engine.ScoreLead(req.Attributes()))
}

// BulkScore scores a batch of ad-hoc leads in parallel and returns them
// sorted by score descending; ties keep their input order. Each lead is
// scored independently, so the fan-out needs no coordination beyond the
// final sort.
func (s *Service) BulkScore(ctx context.Context, organizationID uuid.UUID, req transport.BulkScoreRequest) (transport.BulkScoreResponse, error) {
	engine := s.engineFor(ctx, organizationID)

	results := make([]transport.ScoredLeadResponse, len(req.Leads))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, leadReq := range req.Leads {
		i, leadReq := i, leadReq
		g.Go(func() error {
			results[i] = transport.ScoredLeadResponse{
				Lead:  leadReq,
				Score: transport.NewScoreResponse(engine.ScoreLead(leadReq.Attributes())),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return transport.BulkScoreResponse{}, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.AIScore > results[j].Score.AIScore
	})

	return transport.BulkScoreResponse{Results: results, Total: len(results)}, nil
}

// RescoreStale re-scores leads whose persisted score predates the cutoff.
// Used by the scheduler: recency decay means stored scores drift down as
// leads age. Returns the number of leads rescored.
func (s *Service) RescoreStale(ctx context.Context, scoredBefore time.Time, limit int) (int, error) {
	stale, err := s.repo.ListStaleScores(ctx, scoredBefore, limit)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	// One engine per tenant so overrides apply, built once per batch.
	engines := make(map[uuid.UUID]*scoring.Engine)
	for _, lead := range stale {
		if _, ok := engines[lead.OrganizationID]; !ok {
			engines[lead.OrganizationID] = s.engineFor(ctx, lead.OrganizationID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, lead := range stale {
		lead := lead
		engine := engines[lead.OrganizationID]
		g.Go(func() error {
			result := engine.ScoreLead(toAttributes(lead))
			s.persistScore(gctx, lead, result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(stale), nil
}

func (s *Service) persistScore(ctx context.Context, lead repository.Lead, result scoring.ScoreResult) {
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		breakdown = nil
	}

	update := repository.ScoreUpdate{
		Score:     result.Score,
		Category:  string(result.Category),
		Priority:  result.Priority,
		Industry:  string(result.Industry),
		Breakdown: breakdown,
		ScoredAt:  time.Now().UTC(),
	}

	if err := s.repo.UpdateScore(ctx, lead.OrganizationID, lead.ID, update); err != nil {
		s.log.DatabaseError("update lead score", err)
	}
}

func normalizePhone(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	return &normalized
}

func applyIfSet(target **string, value *string) {
	if value != nil {
		*target = value
	}
}
