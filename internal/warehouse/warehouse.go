// Package warehouse provides SQL-backed access to the analytics store the
// dossiers are assembled from. All reads are parameterized by user_id;
// the package never writes to the warehouse.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/opensource-finance/heron/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLWarehouse implements domain.Warehouse using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLWarehouse struct {
	db     *sql.DB
	driver string
}

// New creates a new warehouse client based on configuration.
func New(cfg domain.WarehouseConfig) (domain.Warehouse, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	w := &SQLWarehouse{
		db:     db,
		driver: cfg.Driver,
	}

	// SQLite mode owns its schema (local runs, tests). Postgres mirrors
	// are provisioned by the warehouse sync jobs, not by this client.
	if cfg.Driver == "sqlite" {
		if err := w.migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create mirror schema: %w", err)
		}
	}

	return w, nil
}

func (w *SQLWarehouse) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := w.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// FlaggedUsers returns users flagged within the last `days` days, newest
// alerts first. Score and features are only present for AI-model alerts.
func (w *SQLWarehouse) FlaggedUsers(ctx context.Context, days int) ([]domain.FlaggedUser, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}

	query := `
		SELECT user_id, alert_date, alert_type, score, features
		FROM flagged_alerts
		WHERE created_at >= ?
		ORDER BY created_at DESC, alert_type
	`

	rows, err := w.db.QueryContext(ctx, w.rebind(query), cutoff(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.FlaggedUser
	for rows.Next() {
		var u domain.FlaggedUser
		var score sql.NullFloat64
		var features sql.NullString

		if err := rows.Scan(&u.UserID, &u.AlertDate, &u.AlertType, &score, &features); err != nil {
			return nil, err
		}
		if score.Valid {
			v := score.Float64
			u.Score = &v
		}
		u.Features = features.String
		users = append(users, u)
	}

	return users, rows.Err()
}

// UserRole resolves merchant vs cardholder. Onboarding merchants count as
// merchants; every other role falls back to cardholder.
func (w *SQLWarehouse) UserRole(ctx context.Context, userID int64) (domain.Role, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	query := `SELECT role FROM users WHERE id = ?`

	var role string
	err := w.db.QueryRowContext(ctx, w.rebind(query), userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	switch role {
	case "merchant", "onboarding_merchant":
		return domain.RoleMerchant, nil
	default:
		return domain.RoleCardholder, nil
	}
}

// Profile returns the single report row for the user's role.
func (w *SQLWarehouse) Profile(ctx context.Context, userID int64, role domain.Role) (domain.Record, error) {
	table := "cardholder_report"
	if role == domain.RoleMerchant {
		table = "merchant_report"
	}

	records, err := w.queryRecords(ctx,
		`SELECT * FROM `+table+` WHERE user_id = ? LIMIT 1`, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return domain.Record{}, nil
	}
	return records[0], nil
}

// PixConcentration returns PIX counterparty rows, both directions mixed;
// the assembler splits them on transaction_type.
func (w *SQLWarehouse) PixConcentration(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM pix_concentration
		WHERE user_id = ?
		ORDER BY transaction_type, pix_amount DESC
	`, userID)
}

func (w *SQLWarehouse) IssuingConcentration(ctx context.Context, userID int64, role domain.Role) ([]domain.Record, error) {
	if role == domain.RoleMerchant {
		return w.queryRecords(ctx, `
			SELECT * FROM issuing_payments
			WHERE user_id = ?
			ORDER BY total_amount DESC
		`, userID)
	}
	return w.queryRecords(ctx, `
		SELECT * FROM issuing_concentration
		WHERE user_id = ?
		ORDER BY total_amount DESC
	`, userID)
}

func (w *SQLWarehouse) OffenseHistory(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM offense_history
		WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
}

func (w *SQLWarehouse) Contacts(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM contacts
		WHERE user_id = ?
		ORDER BY name
	`, userID)
}

func (w *SQLWarehouse) Devices(ctx context.Context, userID int64, role domain.Role) ([]domain.Record, error) {
	// Cardholder devices come from mobile login history, merchants from
	// the acquiring device registry; the mirror flattens both into one
	// table with a source column.
	return w.queryRecords(ctx, `
		SELECT * FROM user_devices
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
}

func (w *SQLWarehouse) Lawsuits(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM lawsuits
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) BusinessData(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM business_relationships
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) PrisonTransactions(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM prison_transactions
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) SanctionsHistory(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM sanctions_history
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) DeniedPixTransfers(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM denied_pix_transfers
		WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
}

func (w *SQLWarehouse) CardholderConcentration(ctx context.Context, merchantID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM cardholder_concentration
		WHERE merchant_id = ?
		ORDER BY total_approved_by_ch DESC
	`, merchantID)
}

func (w *SQLWarehouse) ProductsOnline(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM products_online
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) DeniedTransactions(ctx context.Context, merchantID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM denied_transactions
		WHERE merchant_id = ?
		ORDER BY card_number
	`, merchantID)
}

func (w *SQLWarehouse) BettingHouses(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM betting_transactions
		WHERE user_id = ?
		ORDER BY id
	`, userID)
}

func (w *SQLWarehouse) PepTransactions(ctx context.Context, userID int64) ([]domain.Record, error) {
	return w.queryRecords(ctx, `
		SELECT * FROM pep_transactions
		WHERE user_id = ?
		ORDER BY pep_name
	`, userID)
}

// Ping checks warehouse connectivity.
func (w *SQLWarehouse) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// Close closes the database connection.
func (w *SQLWarehouse) Close() error {
	return w.db.Close()
}

// queryRecords runs a read query and scans every row into a column-keyed
// Record, preserving row order. Raw driver values are kept as-is; the
// dossier assembler owns normalization.
func (w *SQLWarehouse) queryRecords(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := w.db.QueryContext(ctx, w.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []domain.Record{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(domain.Record, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (w *SQLWarehouse) rebind(query string) string {
	if w.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
