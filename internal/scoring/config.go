package scoring

// Weights is the per-industry weighting of the three sub-scores. The
// triple must sum to 1.0 so the weighted combination stays in [0,100]
// before the recency multiplier is applied.
type Weights struct {
	Budget     float64 `json:"budget_weight"`
	Urgency    float64 `json:"urgency_weight"`
	Engagement float64 `json:"engagement_weight"`
}

// Band is an ordered (patterns, score) entry. Matching is case-insensitive
// substring search against already-lowercased text, so patterns must be
// lowercase. The first band with any matching pattern wins: order encodes
// specificity, so higher-value bands come first.
type Band struct {
	Patterns []string
	Score    float64
}

// IndustryRule maps detection keywords to an industry. Rules are checked
// in slice order and the first match wins.
type IndustryRule struct {
	Industry Industry
	Patterns []string
}

// Config carries the keyword tables and weight triples the engine scores
// with. The values in DefaultConfig are hand-tuned constants; tenants can
// override industry weights without forking the keyword tables.
type Config struct {
	IndustryWeights map[Industry]Weights

	// HotKeywords and WarmKeywords are counted across timeline+notes.
	HotKeywords  []string
	WarmKeywords []string

	// BudgetBands are matched against the raw budget text, most
	// valuable band first. Known limitation: "$150k" matches but
	// "150 thousand" does not; the bands are literal, not a money
	// parser, matching how leads actually fill in the field.
	BudgetBands []Band

	// TimelineBands apply only when no hot/warm keywords matched.
	TimelineBands []Band

	// FreeMailDomains mark personal mailboxes; business addresses
	// score higher.
	FreeMailDomains []string

	// IndustryRules classify the lead into a vertical, first match wins.
	IndustryRules []IndustryRule
}

// Neutral scores used when a dimension has nothing to match on.
const (
	budgetScoreMissing   = 40.0
	budgetScoreUnmatched = 45.0
	urgencyScoreDefault  = 40.0
)

// DefaultConfig returns the stock scoring tables.
func DefaultConfig() Config {
	return Config{
		IndustryWeights: map[Industry]Weights{
			IndustryMedspas:     {Budget: 0.30, Urgency: 0.40, Engagement: 0.30},
			IndustryLawFirms:    {Budget: 0.40, Urgency: 0.30, Engagement: 0.30},
			IndustryContractors: {Budget: 0.35, Urgency: 0.35, Engagement: 0.30},
			IndustrySalons:      {Budget: 0.25, Urgency: 0.45, Engagement: 0.30},
			IndustryDefault:     {Budget: 0.33, Urgency: 0.33, Engagement: 0.34},
		},

		HotKeywords: []string{
			"urgent", "asap", "emergency", "immediate", "ready to start",
			"budget approved", "decision maker", "need quote", "when can you start",
			"looking to hire", "project starting", "deadline",
		},

		WarmKeywords: []string{
			"interested", "considering", "exploring", "researching",
			"timeline", "options", "proposal", "estimate", "meeting",
		},

		BudgetBands: []Band{
			{Patterns: []string{"$1m", "$2m", "$5m", "1 million", "2 million"}, Score: 95},
			{Patterns: []string{"$500k", "$750k", "500,000", "750,000"}, Score: 85},
			{Patterns: []string{"$250k", "$300k", "$400k", "250,000"}, Score: 75},
			{Patterns: []string{"$100k", "$150k", "100,000"}, Score: 65},
			{Patterns: []string{"$50k", "$75k", "50,000"}, Score: 55},
			{Patterns: []string{"budget approved", "funding secured"}, Score: 80},
			{Patterns: []string{"flexible", "negotiable"}, Score: 60},
			{Patterns: []string{"tight budget", "limited", "cheap"}, Score: 25},
		},

		TimelineBands: []Band{
			{Patterns: []string{"asap", "immediate", "urgent", "emergency"}, Score: 85},
			{Patterns: []string{"this week", "next week", "1 week"}, Score: 80},
			{Patterns: []string{"this month", "next month", "30 days"}, Score: 65},
			{Patterns: []string{"3 months", "6 months", "quarter"}, Score: 45},
			{Patterns: []string{"next year", "12 months", "someday"}, Score: 25},
		},

		FreeMailDomains: []string{"gmail", "yahoo", "hotmail"},

		IndustryRules: []IndustryRule{
			{Industry: IndustryMedspas, Patterns: []string{"medspa", "botox", "filler", "laser", "aesthetic"}},
			{Industry: IndustryLawFirms, Patterns: []string{"law", "legal", "attorney", "lawyer", "firm"}},
			{Industry: IndustryContractors, Patterns: []string{"construction", "contractor", "building", "renovation"}},
			{Industry: IndustrySalons, Patterns: []string{"salon", "hair", "beauty", "spa", "nails"}},
		},
	}
}

// WithIndustryWeights returns a copy of the config with specific industry
// weight triples replaced. Unspecified industries keep their current
// weights. This is how per-tenant tuning is layered on the defaults.
func (c Config) WithIndustryWeights(overrides map[Industry]Weights) Config {
	if len(overrides) == 0 {
		return c
	}

	merged := make(map[Industry]Weights, len(c.IndustryWeights))
	for industry, w := range c.IndustryWeights {
		merged[industry] = w
	}
	for industry, w := range overrides {
		merged[industry] = w
	}

	c.IndustryWeights = merged
	return c
}
