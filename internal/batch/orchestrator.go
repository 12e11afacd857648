// Package batch runs the analysis pipeline over one window of flagged
// users: dossier assembly, prompt composition, the model turn, verdict
// parsing and case delivery.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/opensource-finance/heron/internal/domain"
	"github.com/opensource-finance/heron/internal/prompt"
	"github.com/opensource-finance/heron/internal/verdict"
)

var tracer = otel.Tracer("heron-batch")

// Feed produces the flagged users one run will cover.
type Feed interface {
	Pull(ctx context.Context, days int, userID int64) ([]domain.FlaggedUser, error)
}

// Assembler builds the evidence dossier for one user.
type Assembler interface {
	Build(ctx context.Context, userID int64, role domain.Role) (*domain.Dossier, error)
}

// Requester runs one model turn over the composed document.
type Requester interface {
	RequestVerdict(ctx context.Context, document string) string
}

// Deliverer posts the finished payload to the case-management API.
type Deliverer interface {
	Deliver(ctx context.Context, payload domain.ExportPayload) (string, error)
}

// Orchestrator coordinates one analysis run end to end. A failing user is
// skipped and counted; the run itself only aborts on feed failure or
// context cancellation.
type Orchestrator struct {
	warehouse  domain.Warehouse
	feed       Feed
	assembler  Assembler
	requester  Requester
	deliverer  Deliverer
	cache      domain.Cache
	bus        domain.EventBus
	cfg        domain.BatchConfig
	payloadTTL time.Duration
	logger     *slog.Logger

	// inFlight guards against the same user being analyzed twice by
	// overlapping runs.
	mu       sync.Mutex
	inFlight map[int64]struct{}
	lastRun  *RunResult
}

// New creates an orchestrator. Cache and bus may be nil; memoization and
// event publishing are then skipped.
func New(
	warehouse domain.Warehouse,
	feed Feed,
	assembler Assembler,
	requester Requester,
	deliverer Deliverer,
	cache domain.Cache,
	bus domain.EventBus,
	cfg domain.BatchConfig,
	payloadTTL time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Days <= 0 {
		cfg.Days = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		warehouse:  warehouse,
		feed:       feed,
		assembler:  assembler,
		requester:  requester,
		deliverer:  deliverer,
		cache:      cache,
		bus:        bus,
		cfg:        cfg,
		payloadTTL: payloadTTL,
		logger:     logger,
		inFlight:   make(map[int64]struct{}),
	}
}

// RunResult summarizes one analysis run.
type RunResult struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	Flagged    int       `json:"flagged"`
	Analyzed   int       `json:"analyzed"`
	Suspicious int       `json:"suspicious"`
	Cached     int       `json:"cached"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`

	// AvgRiskScore covers analyzed users only.
	AvgRiskScore float64 `json:"avgRiskScore"`
	ElapsedMs    int64   `json:"elapsedMs"`
}

// Run pulls the alert feed and analyzes every accepted user. Users are
// processed across cfg.Workers goroutines; one worker preserves the
// strictly sequential behavior.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	return o.run(ctx, o.cfg.UserID)
}

// RunUser restricts a run to a single user's alerts.
func (o *Orchestrator) RunUser(ctx context.Context, userID int64) (*RunResult, error) {
	return o.run(ctx, userID)
}

func (o *Orchestrator) run(ctx context.Context, userID int64) (*RunResult, error) {
	ctx, span := tracer.Start(ctx, "batch.run")
	defer span.End()

	start := time.Now()
	result := &RunResult{
		RunID:     uuid.New().String(),
		StartedAt: start.UTC(),
	}

	users, err := o.feed.Pull(ctx, o.cfg.Days, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feed pull failed")
		return nil, fmt.Errorf("failed to pull alert feed: %w", err)
	}
	result.Flagged = len(users)
	span.SetAttributes(attribute.Int("run.flagged", len(users)))

	o.logger.Info("analysis run started",
		"run_id", result.RunID,
		"flagged", len(users),
		"workers", o.cfg.Workers)

	var (
		wg        sync.WaitGroup
		resultsMu sync.Mutex
		scoreSum  int
	)
	sem := make(chan struct{}, o.cfg.Workers)

	for _, user := range users {
		if ctx.Err() != nil {
			resultsMu.Lock()
			result.Skipped++
			resultsMu.Unlock()
			continue
		}

		wg.Add(1)
		go func(u domain.FlaggedUser) {
			defer wg.Done()

			// Workers queued behind the semaphore must not start an
			// analysis once the run is cancelled.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resultsMu.Lock()
				result.Skipped++
				resultsMu.Unlock()
				return
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				resultsMu.Lock()
				result.Skipped++
				resultsMu.Unlock()
				return
			}

			outcome := o.analyzeUser(ctx, result.RunID, u)

			resultsMu.Lock()
			defer resultsMu.Unlock()
			switch outcome.status {
			case statusAnalyzed:
				result.Analyzed++
				scoreSum += outcome.riskScore
				if outcome.suspicious {
					result.Suspicious++
				}
			case statusCached:
				result.Cached++
			case statusSkipped:
				result.Skipped++
			case statusFailed:
				result.Failed++
			}
		}(user)
	}

	wg.Wait()

	if result.Analyzed > 0 {
		result.AvgRiskScore = float64(scoreSum) / float64(result.Analyzed)
	}
	result.ElapsedMs = time.Since(start).Milliseconds()

	span.SetAttributes(
		attribute.Int("run.analyzed", result.Analyzed),
		attribute.Int("run.failed", result.Failed),
	)

	o.logger.Info("analysis run finished",
		"run_id", result.RunID,
		"analyzed", result.Analyzed,
		"suspicious", result.Suspicious,
		"cached", result.Cached,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"avg_risk_score", result.AvgRiskScore,
		"elapsed_ms", result.ElapsedMs)

	o.mu.Lock()
	o.lastRun = result
	o.mu.Unlock()

	return result, nil
}

// LastRun returns the most recent run summary, nil before the first run.
func (o *Orchestrator) LastRun() *RunResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRun
}

type userStatus int

const (
	statusAnalyzed userStatus = iota
	statusCached
	statusSkipped
	statusFailed
)

type userOutcome struct {
	status     userStatus
	riskScore  int
	suspicious bool
}

// analyzeUser runs the full pipeline for one flagged user. A panic in any
// stage is contained here so one pathological case cannot take down the
// run.
func (o *Orchestrator) analyzeUser(ctx context.Context, runID string, user domain.FlaggedUser) (outcome userOutcome) {
	ctx, span := tracer.Start(ctx, "batch.user", trace.WithAttributes(
		attribute.Int64("user.id", user.UserID),
		attribute.String("alert.type", string(user.AlertType)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("analysis panicked",
				"run_id", runID,
				"user_id", user.UserID,
				"panic", fmt.Sprint(r))
			span.SetStatus(codes.Error, "panic")
			outcome = userOutcome{status: statusFailed}
		}
	}()

	if !o.acquire(user.UserID) {
		o.logger.Warn("user already in flight, skipping",
			"run_id", runID,
			"user_id", user.UserID)
		return userOutcome{status: statusSkipped}
	}
	defer o.release(user.UserID)

	if o.cachedPayload(ctx, user.UserID) {
		o.logger.Info("analysis memoized, skipping model turn",
			"run_id", runID,
			"user_id", user.UserID)
		return userOutcome{status: statusCached}
	}

	role, err := o.warehouse.UserRole(ctx, user.UserID)
	if err != nil {
		o.logger.Error("failed to resolve user role",
			"run_id", runID,
			"user_id", user.UserID,
			"error", err)
		span.RecordError(err)
		return userOutcome{status: statusFailed}
	}

	dossier, err := o.assembler.Build(ctx, user.UserID, role)
	if err != nil {
		o.logger.Error("failed to assemble dossier",
			"run_id", runID,
			"user_id", user.UserID,
			"error", err)
		span.RecordError(err)
		return userOutcome{status: statusFailed}
	}

	document := prompt.Compose(dossier, user.AlertType, o.crossRefs(ctx, user))

	raw := o.requester.RequestVerdict(ctx, document)

	payload := verdict.FormatPayload(user.UserID, raw)

	if o.deliverer != nil {
		if _, err := o.deliverer.Deliver(ctx, payload); err != nil {
			o.logger.Error("case delivery failed",
				"run_id", runID,
				"user_id", user.UserID,
				"error", err)
			span.RecordError(err)
			o.publish(ctx, domain.TopicDeliveryFailed, payload)
			return userOutcome{status: statusFailed}
		}
	}

	o.memoize(ctx, payload)

	o.publish(ctx, domain.TopicVerdict, payload)
	suspicious := payload.Conclusion == domain.ConclusionSuspicious ||
		payload.Conclusion == domain.ConclusionOffense
	if suspicious {
		o.publish(ctx, domain.TopicAlert, payload)
	}

	o.logger.Info("user analyzed",
		"run_id", runID,
		"user_id", user.UserID,
		"alert_type", string(user.AlertType),
		"risk_score", payload.RiskScore,
		"conclusion", payload.Conclusion)

	return userOutcome{
		status:     statusAnalyzed,
		riskScore:  payload.RiskScore,
		suspicious: suspicious,
	}
}

// crossRefs fetches the alert-specific lookup tables. Fetch failures fall
// back to an empty table; the composer then omits the instruction block.
func (o *Orchestrator) crossRefs(ctx context.Context, user domain.FlaggedUser) prompt.CrossRefs {
	refs := prompt.CrossRefs{AIFeatures: user.Features}

	switch user.AlertType {
	case domain.AlertBettingHouses:
		records, err := o.warehouse.BettingHouses(ctx, user.UserID)
		if err != nil {
			o.logger.Warn("failed to fetch betting houses table",
				"user_id", user.UserID,
				"error", err)
			break
		}
		refs.BettingHouses = records

	case domain.AlertPepPix:
		records, err := o.warehouse.PepTransactions(ctx, user.UserID)
		if err != nil {
			o.logger.Warn("failed to fetch pep transactions table",
				"user_id", user.UserID,
				"error", err)
			break
		}
		refs.PepTransactions = records
	}

	return refs
}

func (o *Orchestrator) acquire(userID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[userID]; busy {
		return false
	}
	o.inFlight[userID] = struct{}{}
	return true
}

func (o *Orchestrator) release(userID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, userID)
}

func payloadKey(userID int64) string {
	return fmt.Sprintf("payload:%d", userID)
}

// cachedPayload reports whether a memoized analysis exists for the user.
func (o *Orchestrator) cachedPayload(ctx context.Context, userID int64) bool {
	if o.cache == nil {
		return false
	}
	value, err := o.cache.Get(ctx, payloadKey(userID))
	return err == nil && value != nil
}

func (o *Orchestrator) memoize(ctx context.Context, payload domain.ExportPayload) {
	if o.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, payloadKey(payload.UserID), data, o.payloadTTL); err != nil {
		o.logger.Warn("failed to memoize payload",
			"user_id", payload.UserID,
			"error", err)
	}
}

func (o *Orchestrator) publish(ctx context.Context, topic string, payload domain.ExportPayload) {
	if o.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := o.bus.Publish(ctx, topic, data); err != nil {
		o.logger.Warn("failed to publish event",
			"topic", topic,
			"user_id", payload.UserID,
			"error", err)
	}
}
