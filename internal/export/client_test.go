package export

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opensource-finance/heron/internal/domain"
)

func testPayload() domain.ExportPayload {
	return domain.ExportPayload{
		UserID:            42,
		Description:       "Sem indícios relevantes.",
		AnalysisType:      domain.AnalysisTypeManual,
		Conclusion:        domain.ConclusionNormal,
		Priority:          domain.PriorityHigh,
		AutomaticPipeline: true,
		OffenseGroup:      domain.OffenseGroup,
		OffenseName:       domain.OffenseName,
		RelatedAnalyses:   []string{},
		RiskScore:         3,
	}
}

func TestDeliver(t *testing.T) {
	var received domain.ExportPayload
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write([]byte(`{"analysis_id": "an-123"}`))
	}))
	defer srv.Close()

	c := NewClient(domain.ExportConfig{URL: srv.URL, AuthToken: "token-abc"}, slog.New(slog.DiscardHandler))

	resp, err := c.Deliver(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if resp != `{"analysis_id": "an-123"}` {
		t.Errorf("response body not passed through, got %q", resp)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if received.UserID != 42 || received.Conclusion != "normal" {
		t.Errorf("unexpected payload received: %+v", received)
	}
	if !received.AutomaticPipeline || received.AnalysisType != "manual" {
		t.Errorf("constant fields lost in transit: %+v", received)
	}
}

func TestDeliverRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unprocessable"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(domain.ExportConfig{URL: srv.URL}, slog.New(slog.DiscardHandler))

	if _, err := c.Deliver(context.Background(), testPayload()); err == nil {
		t.Error("expected error on non-2xx response")
	}
}

func TestDeliverDryRun(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(domain.ExportConfig{URL: srv.URL, DryRun: true}, slog.New(slog.DiscardHandler))

	if _, err := c.Deliver(context.Background(), testPayload()); err != nil {
		t.Fatalf("dry-run Deliver failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("dry-run must not hit the endpoint, got %d calls", calls)
	}
}
