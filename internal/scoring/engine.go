// Package scoring implements the lead scoring engine: a pure, stateless
// function from lead attributes to a 0-100 score with category, priority,
// per-dimension breakdown and human-readable insights.
//
// The final score is a weighted combination of three sub-scores (budget,
// urgency, engagement) using industry-specific weights, multiplied by a
// recency decay factor and clamped to [0,100]. All matching is
// case-insensitive substring search over small keyword tables, so a single
// score is O(1) and safe to compute concurrently from any number of
// goroutines.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Recency multiplier buckets by lead age.
const (
	recencyFresh    = 1.2 // under 1 hour
	recencyDay      = 1.1 // under 24 hours
	recencyThreeDay = 1.0 // under 72 hours
	recencyWeek     = 0.9 // under 168 hours
	recencyStale    = 0.8 // older than a week
	recencyNeutral  = 1.0 // missing or unparseable timestamp
)

// createdAtLayouts are tried in order when parsing the CreatedAt field.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Engine scores leads. It holds only immutable configuration and a clock,
// so a single instance is safe for concurrent use.
type Engine struct {
	cfg Config
	now func() time.Time
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// ScoreLead scores a single lead. It never fails: any internal fault is
// absorbed and converted into the fixed neutral fallback result, because
// scoring is advisory and must not break the request pipeline.
func (e *Engine) ScoreLead(attrs LeadAttributes) (result ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			result = fallbackResult()
		}
	}()

	budgetScore := e.scoreBudget(attrs.Budget)
	urgencyScore := e.scoreUrgency(attrs.Timeline, attrs.Notes)
	engagementScore := e.scoreEngagement(attrs.Email, attrs.Phone, attrs.Notes, attrs.CompanyName)
	recency := e.recencyMultiplier(attrs.CreatedAt)

	industry := e.detectIndustry(attrs.ProjectType, attrs.CompanyName, attrs.Notes)
	weights := e.weightsFor(industry)

	raw := (budgetScore*weights.Budget +
		urgencyScore*weights.Urgency +
		engagementScore*weights.Engagement) * recency

	// Round before categorizing so the reported score and the category
	// agree at the 80/60 boundaries.
	score := round1(math.Min(100, math.Max(0, raw)))
	category, priority := categorize(score)

	return ScoreResult{
		Score:    score,
		Category: category,
		Priority: priority,
		Industry: industry,
		Breakdown: &Breakdown{
			BudgetScore:       round1(budgetScore),
			UrgencyScore:      round1(urgencyScore),
			EngagementScore:   round1(engagementScore),
			RecencyMultiplier: round2(recency),
		},
		Insights:          e.insights(budgetScore, urgencyScore, engagementScore, recency, category),
		RecommendedAction: recommendedAction(category),
	}
}

// BulkScoreLeads scores each lead independently and returns the results
// sorted by score descending. The sort is stable: leads with equal scores
// keep their input order.
func (e *Engine) BulkScoreLeads(leads []LeadAttributes) []ScoredLead {
	scored := make([]ScoredLead, len(leads))
	for i, attrs := range leads {
		scored[i] = ScoredLead{Attributes: attrs, Result: e.ScoreLead(attrs)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Result.Score > scored[j].Result.Score
	})

	return scored
}

// scoreBudget matches the raw budget text against the ordered budget bands.
// No budget text scores a neutral-low 40; text that matches no band, 45.
func (e *Engine) scoreBudget(budget string) float64 {
	if budget == "" {
		return budgetScoreMissing
	}

	text := strings.ToLower(budget)
	for _, band := range e.cfg.BudgetBands {
		if containsAny(text, band.Patterns) {
			return band.Score
		}
	}

	return budgetScoreUnmatched
}

// scoreUrgency counts hot and warm keyword hits across timeline+notes.
// Keyword counts dominate; only when neither set matches do the explicit
// timeline phrase bands apply.
func (e *Engine) scoreUrgency(timeline, notes string) float64 {
	text := strings.ToLower(timeline + " " + notes)

	hotCount := countMatches(text, e.cfg.HotKeywords)
	warmCount := countMatches(text, e.cfg.WarmKeywords)

	switch {
	case hotCount >= 2:
		return 90
	case hotCount == 1:
		return 75
	case warmCount >= 2:
		return 60
	case warmCount == 1:
		return 50
	}

	for _, band := range e.cfg.TimelineBands {
		if containsAny(text, band.Patterns) {
			return band.Score
		}
	}

	return urgencyScoreDefault
}

// scoreEngagement adds up contact quality signals, capped at 100:
// a well-formed email (+15, plus +15 for a business domain or +5 for a
// free-mail one), a phone with at least 10 digits (+20), a real company
// name (+20), substantial notes (+20 over 100 chars, +10 over 50) and
// requirement language in the notes (+10).
func (e *Engine) scoreEngagement(email, phone, notes, companyName string) float64 {
	score := 0.0

	if email != "" && strings.Contains(email, "@") && strings.Contains(email, ".") {
		score += 15
		if containsAny(strings.ToLower(email), e.cfg.FreeMailDomains) {
			score += 5
		} else {
			score += 15
		}
	}

	if digitCount(phone) >= 10 {
		score += 20
	}

	if len(companyName) > 2 {
		score += 20
	}

	if notes != "" {
		if len(notes) > 100 {
			score += 20
		} else if len(notes) > 50 {
			score += 10
		}

		if containsAny(strings.ToLower(notes), []string{"need", "require", "looking for", "project"}) {
			score += 10
		}
	}

	return math.Min(100, score)
}

// recencyMultiplier buckets the lead's age into a decay factor. A missing
// or unparseable timestamp is neutral, never an error.
func (e *Engine) recencyMultiplier(createdAt string) float64 {
	if createdAt == "" {
		return recencyNeutral
	}

	created, ok := parseCreatedAt(createdAt)
	if !ok {
		return recencyNeutral
	}

	hoursOld := e.now().Sub(created).Hours()
	switch {
	case hoursOld <= 1:
		return recencyFresh
	case hoursOld <= 24:
		return recencyDay
	case hoursOld <= 72:
		return recencyThreeDay
	case hoursOld <= 168:
		return recencyWeek
	default:
		return recencyStale
	}
}

// detectIndustry classifies the lead into a vertical by scanning
// project type, company name and notes against the ordered industry rules.
func (e *Engine) detectIndustry(projectType, companyName, notes string) Industry {
	text := strings.ToLower(projectType + " " + companyName + " " + notes)

	for _, rule := range e.cfg.IndustryRules {
		if containsAny(text, rule.Patterns) {
			return rule.Industry
		}
	}

	return IndustryDefault
}

func (e *Engine) weightsFor(industry Industry) Weights {
	if w, ok := e.cfg.IndustryWeights[industry]; ok {
		return w
	}
	return e.cfg.IndustryWeights[IndustryDefault]
}

// insights produces the ordered, human-readable explanation list. Each
// check is independent; order is category, budget, urgency, engagement,
// recency.
func (e *Engine) insights(budgetScore, urgencyScore, engagementScore, recency float64, category Category) []string {
	insights := []string{}

	if category == CategoryHot {
		insights = append(insights, "HIGH PRIORITY: contact within 1 hour for best conversion")
	} else if category == CategoryWarm {
		insights = append(insights, "Follow up within 4 hours while interest is high")
	}

	if budgetScore > 80 {
		insights = append(insights, "High budget potential - emphasize premium services")
	} else if budgetScore < 40 {
		insights = append(insights, "Price-sensitive - focus on ROI and value proposition")
	}

	if urgencyScore > 80 {
		insights = append(insights, "Time-sensitive project - fast response critical")
	}

	if engagementScore < 40 {
		insights = append(insights, "Limited contact info - verify details during first call")
	}

	if recency > 1.1 {
		insights = append(insights, "Fresh lead - strike while the iron is hot")
	}

	return insights
}

func parseCreatedAt(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func containsAny(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

func countMatches(text string, patterns []string) int {
	count := 0
	for _, pattern := range patterns {
		if strings.Contains(text, pattern) {
			count++
		}
	}
	return count
}

func digitCount(phone string) int {
	count := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
