package domain

// Conclusion values routed to the case-management API. The empty string
// marks an unresolved analysis (LLM failure signature detected) that must
// go to a human instead of the automatic pipeline.
const (
	ConclusionNormal     = "normal"
	ConclusionSuspicious = "suspicious"
	ConclusionOffense    = "offense"
	ConclusionUnresolved = ""
)

// Priority sub-tiers within a conclusion.
const (
	PriorityMid  = "mid"
	PriorityHigh = "high"
)

// Fixed payload constants. These mirror what the case-management side
// expects for automated money-laundering analyses.
const (
	AnalysisTypeManual = "manual"
	OffenseGroup       = "illegal_activity"
	OffenseName        = "money_laundering"
)

// Verdict is the outcome derived from the model's free-text reply.
type Verdict struct {
	// RiskScore is 1-10; 5 when the reply carried no parsable score.
	RiskScore int `json:"risk_score"`

	Conclusion  string `json:"conclusion"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// ExportPayload is the structured record POSTed to the case-management
// API. Built once per user per analysis pass; never mutated afterwards.
type ExportPayload struct {
	UserID            int64    `json:"user_id"`
	Description       string   `json:"description"`
	AnalysisType      string   `json:"analysis_type"`
	Conclusion        string   `json:"conclusion"`
	Priority          string   `json:"priority"`
	AutomaticPipeline bool     `json:"automatic_pipeline"`
	OffenseGroup      string   `json:"offense_group"`
	OffenseName       string   `json:"offense_name"`
	RelatedAnalyses   []string `json:"related_analyses"`

	// RiskScore is carried for reporting; the case API ignores it.
	RiskScore int `json:"risk_score"`
}
