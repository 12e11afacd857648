package feed

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/opensource-finance/heron/internal/domain"
)

type stubWarehouse struct {
	domain.Warehouse

	users []domain.FlaggedUser
	err   error
}

func (s *stubWarehouse) FlaggedUsers(ctx context.Context, days int) ([]domain.FlaggedUser, error) {
	return s.users, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func floatPtr(f float64) *float64 { return &f }

func TestPull(t *testing.T) {
	users := []domain.FlaggedUser{
		{UserID: 1, AlertType: domain.AlertBettingHouses, AlertDate: "2026-08-30"},
		{UserID: 2, AlertType: domain.AlertAIModel, AlertDate: "2026-08-30", Score: floatPtr(0.91)},
		{UserID: 3, AlertType: domain.AlertGAFI, AlertDate: "2026-08-29"},
	}

	t.Run("NoFilterReturnsAll", func(t *testing.T) {
		f := New(&stubWarehouse{users: users}, nil, discardLogger())

		got, err := f.Pull(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("pull failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 users, got %d", len(got))
		}
	})

	t.Run("SingleUserRestriction", func(t *testing.T) {
		f := New(&stubWarehouse{users: users}, nil, discardLogger())

		got, err := f.Pull(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("pull failed: %v", err)
		}
		if len(got) != 1 || got[0].UserID != 2 {
			t.Errorf("expected only user 2, got %+v", got)
		}
	})

	t.Run("FilterByAlertType", func(t *testing.T) {
		filter, err := CompileFilter(`alert_type == "gafi_alert [US]"`)
		if err != nil {
			t.Fatalf("compile failed: %v", err)
		}

		f := New(&stubWarehouse{users: users}, filter, discardLogger())

		got, err := f.Pull(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("pull failed: %v", err)
		}
		if len(got) != 1 || got[0].UserID != 3 {
			t.Errorf("expected only the GAFI user, got %+v", got)
		}
	})

	t.Run("FilterByScore", func(t *testing.T) {
		filter, err := CompileFilter(`score >= 0.9`)
		if err != nil {
			t.Fatalf("compile failed: %v", err)
		}

		f := New(&stubWarehouse{users: users}, filter, discardLogger())

		got, err := f.Pull(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("pull failed: %v", err)
		}
		if len(got) != 1 || got[0].UserID != 2 {
			t.Errorf("expected only the scored user, got %+v", got)
		}
	})

	t.Run("WarehouseError", func(t *testing.T) {
		f := New(&stubWarehouse{err: errors.New("connection refused")}, nil, discardLogger())

		if _, err := f.Pull(context.Background(), 1, 0); err == nil {
			t.Error("expected error from warehouse failure")
		}
	})

	t.Run("EmptyFeedIsNotNil", func(t *testing.T) {
		f := New(&stubWarehouse{}, nil, discardLogger())

		got, err := f.Pull(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("pull failed: %v", err)
		}
		if got == nil {
			t.Error("expected empty slice, got nil")
		}
	})
}

func TestCompileFilter(t *testing.T) {
	t.Run("EmptyExpressionIsNil", func(t *testing.T) {
		filter, err := CompileFilter("")
		if err != nil {
			t.Fatalf("compile failed: %v", err)
		}
		if filter != nil {
			t.Error("expected nil filter for empty expression")
		}
	})

	t.Run("NilFilterAcceptsAll", func(t *testing.T) {
		var filter *Filter
		if !filter.Accept(domain.FlaggedUser{UserID: 1}) {
			t.Error("nil filter should accept every user")
		}
	})

	t.Run("InvalidExpression", func(t *testing.T) {
		if _, err := CompileFilter(`alert_type ==`); err == nil {
			t.Error("expected compile error")
		}
	})

	t.Run("NonBooleanExpression", func(t *testing.T) {
		if _, err := CompileFilter(`user_id + 1`); err == nil {
			t.Error("expected error for non-boolean expression")
		}
	})

	t.Run("UnknownVariable", func(t *testing.T) {
		if _, err := CompileFilter(`tenant == "x"`); err == nil {
			t.Error("expected error for unknown variable")
		}
	})

	t.Run("Source", func(t *testing.T) {
		filter, err := CompileFilter(`user_id > 100`)
		if err != nil {
			t.Fatalf("compile failed: %v", err)
		}
		if filter.Source() != `user_id > 100` {
			t.Errorf("unexpected source: %s", filter.Source())
		}

		var nilFilter *Filter
		if nilFilter.Source() != "" {
			t.Error("nil filter source should be empty")
		}
	})
}
