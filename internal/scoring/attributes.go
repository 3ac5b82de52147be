package scoring

// LeadAttributes is the input to the scoring engine. Every field is
// optional free text exactly as it arrives from intake forms and imports;
// absent fields are empty strings, never a scoring failure.
//
// Budget is deliberately NOT a numeric type: budgets arrive as ranges,
// words like "flexible", or dollar amounts embedded in prose, and the
// engine matches keyword bands against the raw text.
type LeadAttributes struct {
	CompanyName string `json:"company_name,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ProjectType string `json:"project_type,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// CreatedAt is an ISO-8601 timestamp used for recency decay.
	// Empty or unparseable values fall back to a neutral multiplier.
	CreatedAt string `json:"created_at,omitempty"`
}
