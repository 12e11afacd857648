package verdict

import (
	"fmt"
	"strings"
	"testing"

	"github.com/opensource-finance/heron/internal/domain"
	"github.com/opensource-finance/heron/internal/llm"
)

func replyWithScore(n int) string {
	return fmt.Sprintf("Análise do caso concluída sem ressalvas.\n\nRisco de Lavagem de Dinheiro: %d/10", n)
}

func TestTierTable(t *testing.T) {
	cases := []struct {
		score      int
		conclusion string
		priority   string
	}{
		{1, domain.ConclusionNormal, domain.PriorityHigh},
		{2, domain.ConclusionNormal, domain.PriorityHigh},
		{3, domain.ConclusionNormal, domain.PriorityHigh},
		{4, domain.ConclusionNormal, domain.PriorityHigh},
		{5, domain.ConclusionNormal, domain.PriorityHigh},
		{6, domain.ConclusionNormal, domain.PriorityHigh},
		{7, domain.ConclusionSuspicious, domain.PriorityMid},
		{8, domain.ConclusionSuspicious, domain.PriorityMid},
		{9, domain.ConclusionSuspicious, domain.PriorityHigh},
		{10, domain.ConclusionOffense, domain.PriorityHigh},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("Score%d", tc.score), func(t *testing.T) {
			v := Parse(replyWithScore(tc.score))
			if v.RiskScore != tc.score {
				t.Errorf("RiskScore = %d, want %d", v.RiskScore, tc.score)
			}
			if v.Conclusion != tc.conclusion {
				t.Errorf("Conclusion = %q, want %q", v.Conclusion, tc.conclusion)
			}
			if v.Priority != tc.priority {
				t.Errorf("Priority = %q, want %q", v.Priority, tc.priority)
			}
		})
	}
}

func TestOutOfRangeScoresClamp(t *testing.T) {
	v := Parse(replyWithScore(15))
	if v.RiskScore != 10 || v.Conclusion != domain.ConclusionOffense {
		t.Errorf("score above 10 should clamp to offense tier, got %d/%s", v.RiskScore, v.Conclusion)
	}

	v = Parse(replyWithScore(0))
	if v.RiskScore != 1 || v.Conclusion != domain.ConclusionNormal {
		t.Errorf("score below 1 should clamp to normal tier, got %d/%s", v.RiskScore, v.Conclusion)
	}
}

func TestDefaultOnMissingScore(t *testing.T) {
	v := Parse("O caso não apresenta elementos suficientes para pontuação.")
	if v.RiskScore != 5 {
		t.Errorf("RiskScore = %d, want 5", v.RiskScore)
	}
	if v.Conclusion != domain.ConclusionNormal || v.Priority != domain.PriorityHigh {
		t.Errorf("missing score should map to normal/high, got %s/%s", v.Conclusion, v.Priority)
	}
}

func TestAnnotations(t *testing.T) {
	t.Run("Score6AppendsMonitoringNote", func(t *testing.T) {
		v := Parse(replyWithScore(6))
		if !strings.Contains(v.Description, "Caso de médio risco que deve ser monitorado.") {
			t.Error("score 6 should append the monitoring annotation")
		}
	})

	t.Run("Score7AppendsSuspiciousMidNoteOnce", func(t *testing.T) {
		v := Parse(replyWithScore(7))
		note := "Caso de risco médio-alto que requer atenção (suspicious mid)."
		if got := strings.Count(v.Description, note); got != 1 {
			t.Errorf("annotation should appear exactly once, appeared %d times", got)
		}

		again := Parse(v.Description)
		if got := strings.Count(again.Description, note); got != 1 {
			t.Errorf("annotation should not duplicate on re-parse, appeared %d times", got)
		}
	})

	t.Run("Score9NoAnnotation", func(t *testing.T) {
		v := Parse(replyWithScore(9))
		if strings.Contains(v.Description, "Caso de risco") || strings.Contains(v.Description, "Caso de médio") {
			t.Error("score 9 should not append any annotation")
		}
	})
}

func TestNormalizeOverride(t *testing.T) {
	t.Run("DowngradesSuspicious", func(t *testing.T) {
		reply := "Recomendo Normalizar o Caso pelo histórico consistente.\n\nRisco de Lavagem de Dinheiro: 7/10"
		v := Parse(reply)
		if v.Conclusion != domain.ConclusionNormal {
			t.Errorf("Conclusion = %q, want normal", v.Conclusion)
		}
	})

	t.Run("NeverDowngradesOffense", func(t *testing.T) {
		reply := "Apesar de normalizar o caso ter sido considerado, os indícios prevalecem.\n\nRisco de Lavagem de Dinheiro: 10/10"
		v := Parse(reply)
		if v.Conclusion != domain.ConclusionOffense {
			t.Errorf("Conclusion = %q, want offense", v.Conclusion)
		}
	})
}

func TestFailureSignatures(t *testing.T) {
	replies := []string{
		llm.OversizedReply,
		"An error occurred: connection reset by peer",
		"Não foi possível. Chame um analista humano para este caso.",
	}

	for _, reply := range replies {
		v := Parse(reply)
		if v.Conclusion != domain.ConclusionUnresolved {
			t.Errorf("reply %q should be unresolved, got %q", reply, v.Conclusion)
		}
		if v.Priority != domain.PriorityHigh {
			t.Errorf("unresolved reply should keep high priority, got %q", v.Priority)
		}
	}

	t.Run("ScoreInFailureReplyIsIgnored", func(t *testing.T) {
		reply := "An error occurred: upstream said Risco de Lavagem de Dinheiro: 10/10"
		v := Parse(reply)
		if v.Conclusion != domain.ConclusionUnresolved {
			t.Errorf("failure signature must win over score pattern, got %q", v.Conclusion)
		}
	})
}

func TestStripMarkup(t *testing.T) {
	in := "## Análise\n\n**Cliente** movimentou `R\\$ 5.000,00` em PIX.\n### Conclusão\nSem indícios."
	want := "Análise\n\nCliente movimentou R$ 5.000,00 em PIX.\nConclusão\nSem indícios."

	got := StripMarkup(in)
	if got != want {
		t.Errorf("StripMarkup = %q, want %q", got, want)
	}

	if again := StripMarkup(got); again != got {
		t.Errorf("stripping must be idempotent, got %q", again)
	}
}

func TestFormatPayload(t *testing.T) {
	p := FormatPayload(42, replyWithScore(9))

	if p.UserID != 42 {
		t.Errorf("UserID = %d, want 42", p.UserID)
	}
	if p.Conclusion != domain.ConclusionSuspicious || p.Priority != domain.PriorityHigh {
		t.Errorf("score 9 payload = %s/%s, want suspicious/high", p.Conclusion, p.Priority)
	}
	if p.AnalysisType != "manual" {
		t.Errorf("AnalysisType = %q, want manual", p.AnalysisType)
	}
	if !p.AutomaticPipeline {
		t.Error("AutomaticPipeline must be true")
	}
	if p.OffenseGroup != "illegal_activity" || p.OffenseName != "money_laundering" {
		t.Errorf("offense constants = %s/%s", p.OffenseGroup, p.OffenseName)
	}
	if p.RelatedAnalyses == nil || len(p.RelatedAnalyses) != 0 {
		t.Errorf("RelatedAnalyses should be an empty list, got %v", p.RelatedAnalyses)
	}
}

func TestOversizedSentinelPayload(t *testing.T) {
	p := FormatPayload(42, llm.OversizedReply)
	if p.Conclusion != "" {
		t.Errorf("sentinel reply payload conclusion = %q, want empty", p.Conclusion)
	}
}
