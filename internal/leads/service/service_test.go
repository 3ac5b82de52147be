package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadnest_backend/internal/events"
	"leadnest_backend/internal/leads/repository"
	"leadnest_backend/internal/leads/transport"
	"leadnest_backend/platform/apperr"
	"leadnest_backend/platform/logger"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	mu      sync.Mutex
	leads   map[uuid.UUID]repository.Lead
	weights map[uuid.UUID][]repository.ScoringWeight

	failUpdateScore bool
	updateScoreCnt  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:   make(map[uuid.UUID]repository.Lead),
		weights: make(map[uuid.UUID][]repository.ScoringWeight),
	}
}

func (f *fakeRepo) Create(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, organizationID uuid.UUID, filter repository.ListFilter) ([]repository.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Lead
	for _, lead := range f.leads {
		if lead.OrganizationID != organizationID {
			continue
		}
		if filter.Category != nil {
			if lead.ScoreCategory == nil || *lead.ScoreCategory != *filter.Category {
				continue
			}
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.leads[lead.ID]
	if !ok || stored.OrganizationID != lead.OrganizationID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.CreatedAt = stored.CreatedAt
	lead.UpdatedAt = time.Now().UTC()
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) UpdateScore(_ context.Context, organizationID, id uuid.UUID, update repository.ScoreUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateScoreCnt++
	if f.failUpdateScore {
		return apperr.Internal("storage down")
	}
	lead, ok := f.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return apperr.NotFound("lead not found")
	}
	lead.AIScore = &update.Score
	lead.ScoreCategory = &update.Category
	lead.ScorePriority = &update.Priority
	lead.ScoreIndustry = &update.Industry
	lead.ScoreBreakdown = update.Breakdown
	scoredAt := update.ScoredAt
	lead.ScoredAt = &scoredAt
	f.leads[id] = lead
	return nil
}

func (f *fakeRepo) ListStaleScores(_ context.Context, scoredBefore time.Time, _ int) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Lead
	for _, lead := range f.leads {
		if lead.ScoredAt == nil || lead.ScoredAt.Before(scoredBefore) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListScoringWeights(_ context.Context, organizationID uuid.UUID) ([]repository.ScoringWeight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weights[organizationID], nil
}

// fakeBus records published events synchronously.
type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.published))
	for i, e := range b.published {
		out[i] = e.EventName()
	}
	return out
}

func newTestService() (*Service, *fakeRepo, *fakeBus) {
	repo := newFakeRepo()
	bus := &fakeBus{}
	return New(repo, bus, logger.New("development")), repo, bus
}

func strPtr(s string) *string { return &s }

func TestCreate_PublishesLeadCreated(t *testing.T) {
	svc, _, bus := newTestService()
	orgID := uuid.New()

	resp, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
		CompanyName: strPtr("Acme Plumbing"),
		Email:       strPtr("owner@acmeplumbing.com"),
		Phone:       strPtr("(555) 123-4567"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected lead ID to be assigned")
	}
	if resp.AIScore != nil {
		t.Errorf("new lead should be unscored, got score %v", *resp.AIScore)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "leads.lead.created" {
		t.Fatalf("expected single leads.lead.created event, got %v", names)
	}
}

func TestScoreLead_PersistsAndPublishes(t *testing.T) {
	svc, repo, bus := newTestService()
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
		CompanyName: strPtr("Summit Roofing"),
		ContactName: strPtr("Dana Reyes"),
		Email:       strPtr("dana@summitroofing.com"),
		Phone:       strPtr("+15551234567"),
		Budget:      strPtr("$150k set aside for the full job"),
		Timeline:    strPtr("urgent, need this done asap after storm damage"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	score, err := svc.ScoreLead(context.Background(), orgID, created.ID)
	if err != nil {
		t.Fatalf("ScoreLead: %v", err)
	}
	if score.AIScore < 0 || score.AIScore > 100 {
		t.Fatalf("score out of range: %v", score.AIScore)
	}
	if score.Category != "hot" {
		t.Errorf("expected hot category for urgent high-budget lead, got %q (score %v)", score.Category, score.AIScore)
	}

	stored, err := repo.GetByID(context.Background(), orgID, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.AIScore == nil || *stored.AIScore != score.AIScore {
		t.Errorf("persisted score = %v, want %v", stored.AIScore, score.AIScore)
	}
	if stored.ScoredAt == nil {
		t.Error("expected scored_at to be set")
	}
	if len(stored.ScoreBreakdown) == 0 {
		t.Error("expected breakdown JSON to be persisted")
	}

	names := bus.names()
	if len(names) != 2 || names[1] != "leads.lead.scored" {
		t.Fatalf("expected leads.lead.scored after create event, got %v", names)
	}

	scored, ok := bus.published[1].(events.LeadScored)
	if !ok {
		t.Fatalf("second event is %T, want LeadScored", bus.published[1])
	}
	if scored.LeadID != created.ID || scored.TenantID != orgID {
		t.Errorf("event identity mismatch: %+v", scored)
	}
	if scored.Score != score.AIScore || scored.Category != score.Category {
		t.Errorf("event score %v/%s, want %v/%s", scored.Score, scored.Category, score.AIScore, score.Category)
	}
}

func TestScoreLead_PersistFailureStillReturnsScore(t *testing.T) {
	svc, repo, bus := newTestService()
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
		CompanyName: strPtr("Riverside Dental"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	repo.failUpdateScore = true

	score, err := svc.ScoreLead(context.Background(), orgID, created.ID)
	if err != nil {
		t.Fatalf("ScoreLead should not fail on persistence error: %v", err)
	}
	if score.AIScore < 0 || score.AIScore > 100 {
		t.Fatalf("score out of range: %v", score.AIScore)
	}
	if repo.updateScoreCnt != 1 {
		t.Errorf("expected one persistence attempt, got %d", repo.updateScoreCnt)
	}

	names := bus.names()
	if len(names) != 2 || names[1] != "leads.lead.scored" {
		t.Errorf("scored event should still publish, got %v", names)
	}
}

func TestScoreLead_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ScoreLead(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown lead")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestScoreAttributes_AppliesTenantWeightOverrides(t *testing.T) {
	svc, repo, _ := newTestService()
	defaultOrg := uuid.New()
	customOrg := uuid.New()

	// Shift nearly all weight to engagement for the custom tenant. The
	// lead below has strong budget but zero engagement signals, so the
	// override must drag its score down.
	repo.weights[customOrg] = []repository.ScoringWeight{
		{Industry: "default", BudgetWeight: 0.05, UrgencyWeight: 0.05, EngagementWeight: 0.9},
	}

	req := transport.ScoreAttributesRequest{
		Budget: "we have $60,000 budgeted",
	}

	base := svc.ScoreAttributes(context.Background(), defaultOrg, req)
	custom := svc.ScoreAttributes(context.Background(), customOrg, req)

	if custom.AIScore >= base.AIScore {
		t.Fatalf("override should lower score: custom %v, base %v", custom.AIScore, base.AIScore)
	}
	if base.Breakdown == nil || custom.Breakdown == nil {
		t.Fatal("expected breakdowns")
	}
	if base.Breakdown.BudgetScore != custom.Breakdown.BudgetScore {
		t.Errorf("sub-scores should not change, only weights: %v vs %v",
			base.Breakdown.BudgetScore, custom.Breakdown.BudgetScore)
	}
}

func TestBulkScore_SortedDescending(t *testing.T) {
	svc, _, _ := newTestService()
	orgID := uuid.New()

	resp, err := svc.BulkScore(context.Background(), orgID, transport.BulkScoreRequest{
		Leads: []transport.ScoreAttributesRequest{
			{CompanyName: "Quiet Lead"},
			{
				CompanyName: "Urgent Lead",
				Email:       "buyer@urgentco.com",
				Phone:       "+15559876543",
				Budget:      "$45k approved",
				Timeline:    "need this done immediately",
				Notes:       strings.Repeat("we require a full build-out of the new location. ", 3),
			},
			{CompanyName: "Mid Lead", Email: "info@midco.com", Timeline: "next quarter"},
		},
	})
	if err != nil {
		t.Fatalf("BulkScore: %v", err)
	}
	if resp.Total != 3 || len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score.AIScore > resp.Results[i-1].Score.AIScore {
			t.Fatalf("results not sorted descending at %d: %v > %v",
				i, resp.Results[i].Score.AIScore, resp.Results[i-1].Score.AIScore)
		}
	}
	if resp.Results[0].Lead.CompanyName != "Urgent Lead" {
		t.Errorf("expected Urgent Lead first, got %q", resp.Results[0].Lead.CompanyName)
	}
}

func TestRescoreStale(t *testing.T) {
	svc, repo, _ := newTestService()
	orgID := uuid.New()

	for _, name := range []string{"Lead A", "Lead B", "Lead C"} {
		if _, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
			CompanyName: strPtr(name),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	count, err := svc.RescoreStale(context.Background(), time.Now().Add(-time.Hour), 100)
	if err != nil {
		t.Fatalf("RescoreStale: %v", err)
	}
	if count != 3 {
		t.Fatalf("rescored %d leads, want 3", count)
	}

	leads, _, err := repo.List(context.Background(), orgID, repository.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, lead := range leads {
		if lead.AIScore == nil {
			t.Errorf("lead %v left unscored", lead.ID)
		}
	}

	// All scores are now fresh, so a second pass finds nothing.
	count, err = svc.RescoreStale(context.Background(), time.Now().Add(-time.Hour), 100)
	if err != nil {
		t.Fatalf("RescoreStale second pass: %v", err)
	}
	if count != 0 {
		t.Errorf("second pass rescored %d, want 0", count)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _, _ := newTestService()
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
		CompanyName: strPtr("Original Co"),
		Email:       strPtr("old@original.co"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), orgID, created.ID, transport.UpdateLeadRequest{
		Email: strPtr("new@original.co"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompanyName == nil || *updated.CompanyName != "Original Co" {
		t.Errorf("untouched field changed: %v", updated.CompanyName)
	}
	if updated.Email == nil || *updated.Email != "new@original.co" {
		t.Errorf("email not updated: %v", updated.Email)
	}
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), orgID, transport.CreateLeadRequest{
		CompanyName: strPtr("Ephemeral LLC"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), orgID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), orgID, created.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestTenantIsolation(t *testing.T) {
	svc, _, _ := newTestService()
	orgA := uuid.New()
	orgB := uuid.New()

	created, err := svc.Create(context.Background(), orgA, transport.CreateLeadRequest{
		CompanyName: strPtr("Org A Lead"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), orgB, created.ID); err == nil {
		t.Fatal("lead must not be visible across tenants")
	}
	if err := svc.Delete(context.Background(), orgB, created.ID); err == nil {
		t.Fatal("lead must not be deletable across tenants")
	}
}
