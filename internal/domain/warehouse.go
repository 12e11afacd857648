package domain

import (
	"context"
)

// Warehouse is the read-only analytics store the dossier is assembled
// from. Each method issues one parameterized read by user_id and returns
// column-keyed rows in a stable order. Implementations live in
// internal/warehouse; tests inject fakes.
//
// Slice fetches are independently fault-tolerant at the assembler level: a
// method returning an error yields an empty slice in the dossier, never a
// failed analysis.
type Warehouse interface {
	// FlaggedUsers returns the users flagged for analysis within the last
	// `days` days, most recent alerts first.
	FlaggedUsers(ctx context.Context, days int) ([]FlaggedUser, error)

	// UserRole resolves merchant vs cardholder for a user.
	UserRole(ctx context.Context, userID int64) (Role, error)

	// Profile returns the single merchant/cardholder report row.
	Profile(ctx context.Context, userID int64, role Role) (Record, error)

	PixConcentration(ctx context.Context, userID int64) ([]Record, error)
	IssuingConcentration(ctx context.Context, userID int64, role Role) ([]Record, error)
	OffenseHistory(ctx context.Context, userID int64) ([]Record, error)
	Contacts(ctx context.Context, userID int64) ([]Record, error)
	Devices(ctx context.Context, userID int64, role Role) ([]Record, error)
	Lawsuits(ctx context.Context, userID int64) ([]Record, error)
	BusinessData(ctx context.Context, userID int64) ([]Record, error)
	PrisonTransactions(ctx context.Context, userID int64) ([]Record, error)
	SanctionsHistory(ctx context.Context, userID int64) ([]Record, error)
	DeniedPixTransfers(ctx context.Context, userID int64) ([]Record, error)

	// Merchant-only slices.
	CardholderConcentration(ctx context.Context, merchantID int64) ([]Record, error)
	ProductsOnline(ctx context.Context, userID int64) ([]Record, error)
	DeniedTransactions(ctx context.Context, merchantID int64) ([]Record, error)

	// Cross-reference tables consumed by alert-specific prompt blocks.
	BettingHouses(ctx context.Context, userID int64) ([]Record, error)
	PepTransactions(ctx context.Context, userID int64) ([]Record, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}
