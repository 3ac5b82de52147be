// Package leads provides the leads bounded context module: intake CRUD
// and the scoring endpoints.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"leadnest_backend/internal/events"
	apphttp "leadnest_backend/internal/http"
	"leadnest_backend/internal/leads/handler"
	"leadnest_backend/internal/leads/repository"
	"leadnest_backend/internal/leads/service"
	"leadnest_backend/platform/logger"
	"leadnest_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use (scheduler worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads", m.handler.CreateLead)
	ctx.Protected.GET("/leads", m.handler.ListLeads)
	ctx.Protected.GET("/leads/:id", m.handler.GetLeadByID)
	ctx.Protected.PUT("/leads/:id", m.handler.UpdateLead)
	ctx.Protected.DELETE("/leads/:id", m.handler.DeleteLead)

	ctx.Protected.POST("/leads/score", m.handler.ScoreAttributes)
	ctx.Protected.POST("/leads/bulk-score", m.handler.BulkScore)
	ctx.Protected.POST("/leads/:id/score", m.handler.ScoreLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
