package scoring

// Category is the coarse temperature bucket derived from the final score.
type Category string

const (
	CategoryHot  Category = "hot"
	CategoryWarm Category = "warm"
	CategoryCold Category = "cold"
)

// Priority values paired with each category. Lower is more urgent.
const (
	PriorityHot  = 1
	PriorityWarm = 2
	PriorityCold = 3
)

// Industry is the detected vertical used to select scoring weights.
type Industry string

const (
	IndustryMedspas     Industry = "medspas"
	IndustryLawFirms    Industry = "law_firms"
	IndustryContractors Industry = "contractors"
	IndustrySalons      Industry = "salons"
	IndustryDefault     Industry = "default"

	// IndustryUnknown is only produced by the fallback result when the
	// engine could not analyze the lead at all.
	IndustryUnknown Industry = "unknown"
)

// Breakdown exposes the per-dimension sub-scores for explainability.
// Sub-scores are rounded to one decimal, the multiplier to two.
type Breakdown struct {
	BudgetScore       float64 `json:"budget_score"`
	UrgencyScore      float64 `json:"urgency_score"`
	EngagementScore   float64 `json:"engagement_score"`
	RecencyMultiplier float64 `json:"recency_multiplier"`
}

// ScoreResult is the ephemeral output of a single scoring pass. It is
// returned to the caller and optionally persisted alongside the lead;
// the engine itself stores nothing.
type ScoreResult struct {
	Score             float64    `json:"ai_score"`
	Category          Category   `json:"category"`
	Priority          int        `json:"priority"`
	Industry          Industry   `json:"industry"`
	Breakdown         *Breakdown `json:"breakdown,omitempty"`
	Insights          []string   `json:"insights"`
	RecommendedAction string     `json:"recommended_action"`
}

// ScoredLead pairs a lead's attributes with its score for bulk results.
type ScoredLead struct {
	Attributes LeadAttributes `json:"lead"`
	Result     ScoreResult    `json:"score"`
}

// Recommended next actions, fixed per category.
const (
	actionHot  = "Call immediately. Send SMS if no answer. Follow up every hour until contact."
	actionWarm = "Call within 4 hours. If no answer, send email and schedule follow-up call."
	actionCold = "Add to nurture sequence. Schedule follow-up in 1 week."

	actionFallback  = "Review manually and follow up within 24 hours"
	insightFallback = "Unable to fully analyze lead - manual review recommended"
)

// fallbackResult is the fixed neutral result returned when scoring cannot
// complete. Scoring is advisory, so a broken lead record degrades to
// "warm, review manually" instead of failing the caller.
func fallbackResult() ScoreResult {
	return ScoreResult{
		Score:             50.0,
		Category:          CategoryWarm,
		Priority:          PriorityWarm,
		Industry:          IndustryUnknown,
		Insights:          []string{insightFallback},
		RecommendedAction: actionFallback,
	}
}

func recommendedAction(category Category) string {
	switch category {
	case CategoryHot:
		return actionHot
	case CategoryWarm:
		return actionWarm
	default:
		return actionCold
	}
}

func categorize(score float64) (Category, int) {
	switch {
	case score >= 80:
		return CategoryHot, PriorityHot
	case score >= 60:
		return CategoryWarm, PriorityWarm
	default:
		return CategoryCold, PriorityCold
	}
}
