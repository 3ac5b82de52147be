package service

import (
	"time"

	"leadnest_backend/internal/leads/repository"
	"leadnest_backend/internal/leads/transport"
	"leadnest_backend/internal/scoring"
)

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:            lead.ID,
		CompanyName:   lead.CompanyName,
		ContactName:   lead.ContactName,
		Email:         lead.Email,
		Phone:         lead.Phone,
		ProjectType:   lead.ProjectType,
		Budget:        lead.Budget,
		Timeline:      lead.Timeline,
		Notes:         lead.Notes,
		AIScore:       lead.AIScore,
		ScoreCategory: lead.ScoreCategory,
		ScorePriority: lead.ScorePriority,
		ScoreIndustry: lead.ScoreIndustry,
		CreatedAt:     lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     lead.UpdatedAt.Format(time.RFC3339),
	}

	if lead.ScoredAt != nil {
		scoredAt := lead.ScoredAt.Format(time.RFC3339)
		resp.ScoredAt = &scoredAt
	}

	return resp
}

// toAttributes builds engine input from a stored lead. The stored
// creation time drives recency decay.
func toAttributes(lead repository.Lead) scoring.LeadAttributes {
	return scoring.LeadAttributes{
		CompanyName: deref(lead.CompanyName),
		ContactName: deref(lead.ContactName),
		Email:       deref(lead.Email),
		Phone:       deref(lead.Phone),
		ProjectType: deref(lead.ProjectType),
		Budget:      deref(lead.Budget),
		Timeline:    deref(lead.Timeline),
		Notes:       deref(lead.Notes),
		CreatedAt:   lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
