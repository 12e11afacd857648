// Package verdict recovers a structured outcome from the model's
// free-text reply. This is the only boundary between unstructured model
// output and an automated action, so the score marker, the tier table and
// the override precedence are all pinned by tests.
package verdict

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/opensource-finance/heron/internal/domain"
)

// scorePattern is the literal marker the prompt instructs the model to
// emit. Wording drift in the model reply breaks extraction silently, which
// is why this is the single score regex in the codebase.
var scorePattern = regexp.MustCompile(`Risco de Lavagem de Dinheiro: (\d+)/10`)

// defaultScore is the conservative mid-tier fallback when the reply holds
// no parsable score. Never zero: a case the model could not score must not
// look like a no-risk case.
const defaultScore = 5

// failureSignatures mark replies produced by a transport failure rather
// than an actual analysis. Matching is case-insensitive substring.
var failureSignatures = []string{
	"não consigo tankar",
	"an error occurred",
	"chame um analista humano",
}

// Annotations appended to the narrative for the monitoring tiers, when the
// model did not already include them.
const (
	midRiskAnnotation     = "Caso de médio risco que deve ser monitorado."
	midHighRiskAnnotation = "Caso de risco médio-alto que requer atenção (suspicious mid)."
)

// normalizePhrase is the model's explicit recommendation to close the
// case. It overrides the numeric tier, except it never downgrades offense.
const normalizePhrase = "normalizar o caso"

// Parse derives the verdict from a raw model reply.
func Parse(raw string) domain.Verdict {
	description := StripMarkup(raw)

	if isFailureReply(description) {
		return domain.Verdict{
			RiskScore:   defaultScore,
			Conclusion:  domain.ConclusionUnresolved,
			Priority:    domain.PriorityHigh,
			Description: description,
		}
	}

	score := extractScore(description)
	conclusion, priority, annotation := tier(score)

	if annotation != "" && !strings.Contains(description, annotation) {
		description = description + "\n\n" + annotation
	}

	if conclusion != domain.ConclusionOffense && containsFold(description, normalizePhrase) {
		conclusion = domain.ConclusionNormal
	}

	return domain.Verdict{
		RiskScore:   score,
		Conclusion:  conclusion,
		Priority:    priority,
		Description: description,
	}
}

// FormatPayload assembles the outbound record for one user from a raw
// model reply.
func FormatPayload(userID int64, raw string) domain.ExportPayload {
	v := Parse(raw)
	return domain.ExportPayload{
		UserID:            userID,
		Description:       v.Description,
		AnalysisType:      domain.AnalysisTypeManual,
		Conclusion:        v.Conclusion,
		Priority:          v.Priority,
		AutomaticPipeline: true,
		OffenseGroup:      domain.OffenseGroup,
		OffenseName:       domain.OffenseName,
		RelatedAnalyses:   []string{},
		RiskScore:         v.RiskScore,
	}
}

// tier maps a risk score to (conclusion, priority, annotation). Boundary
// values 5/6/8/9/10 are contractual; out-of-range scores clamp to the
// nearest tier.
func tier(score int) (conclusion, priority, annotation string) {
	switch {
	case score <= 5:
		return domain.ConclusionNormal, domain.PriorityHigh, ""
	case score == 6:
		return domain.ConclusionNormal, domain.PriorityHigh, midRiskAnnotation
	case score <= 8:
		return domain.ConclusionSuspicious, domain.PriorityMid, midHighRiskAnnotation
	case score == 9:
		return domain.ConclusionSuspicious, domain.PriorityHigh, ""
	default:
		return domain.ConclusionOffense, domain.PriorityHigh, ""
	}
}

func extractScore(description string) int {
	m := scorePattern.FindStringSubmatch(description)
	if m == nil {
		return defaultScore
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultScore
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func isFailureReply(description string) bool {
	for _, sig := range failureSignatures {
		if containsFold(description, sig) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// markupReplacer strips the presentation markup the model tends to wrap
// its replies in, and undoes the escaping applied for dashboard rendering.
var markupReplacer = strings.NewReplacer(
	"### ", "",
	"## ", "",
	"# ", "",
	"**", "",
	"```", "",
	"`", "",
	`R\$`, "R$",
)

// StripMarkup removes presentation markup from a reply. Stripping is
// idempotent: applying it to already-stripped text is a no-op.
func StripMarkup(s string) string {
	return strings.TrimSpace(markupReplacer.Replace(s))
}
