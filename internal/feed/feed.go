package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opensource-finance/heron/internal/domain"
)

// Feed produces the list of users one analysis run will cover.
type Feed struct {
	warehouse domain.Warehouse
	filter    *Filter
	logger    *slog.Logger
}

// New creates a feed over the warehouse alert tables. The filter may be
// nil to accept every flagged user.
func New(warehouse domain.Warehouse, filter *Filter, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		warehouse: warehouse,
		filter:    filter,
		logger:    logger,
	}
}

// Pull returns the flagged users for the lookback window, newest first,
// after applying the filter. When userID is non-zero the result is
// restricted to that user's alerts.
func (f *Feed) Pull(ctx context.Context, days int, userID int64) ([]domain.FlaggedUser, error) {
	users, err := f.warehouse.FlaggedUsers(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to pull flagged users: %w", err)
	}

	out := make([]domain.FlaggedUser, 0, len(users))
	for _, user := range users {
		if userID != 0 && user.UserID != userID {
			continue
		}
		if !f.filter.Accept(user) {
			f.logger.Debug("flagged user filtered out",
				"user_id", user.UserID,
				"alert_type", string(user.AlertType))
			continue
		}
		out = append(out, user)
	}

	f.logger.Info("alert feed pulled",
		"window_days", days,
		"flagged", len(users),
		"accepted", len(out))

	return out, nil
}
