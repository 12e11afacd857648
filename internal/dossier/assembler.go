// Package dossier assembles the per-user evidentiary record the analysis
// prompt is rendered from.
package dossier

import (
	"context"
	"log/slog"

	"github.com/opensource-finance/heron/internal/domain"
)

// Assembler builds dossiers from the warehouse. Slice fetches are
// independently fault-tolerant: a failed fetch is logged and yields an
// empty slice, never a failed build. A dossier with zero evidence is a
// valid output meaning "nothing found".
type Assembler struct {
	warehouse domain.Warehouse
	logger    *slog.Logger
}

// NewAssembler creates an assembler reading from the given warehouse.
func NewAssembler(wh domain.Warehouse, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		warehouse: wh,
		logger:    logger,
	}
}

// Build assembles the complete dossier for one user. Every slice key is
// present in the result; absence is an empty slice.
func (a *Assembler) Build(ctx context.Context, userID int64, role domain.Role) (*domain.Dossier, error) {
	d := domain.NewDossier(userID, role)

	profile, err := a.warehouse.Profile(ctx, userID, role)
	if err != nil {
		a.logSliceFailure(userID, "profile", err)
	} else if profile != nil {
		d.Profile = normalizeRecord(profile)
	}

	a.buildPixVolumes(ctx, d)

	d.IssuingConcentration = a.fetchSlice(ctx, userID, "issuing_concentration", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.IssuingConcentration(ctx, userID, role)
	})
	d.OffenseHistory = a.fetchSlice(ctx, userID, "offense_history", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.OffenseHistory(ctx, userID)
	})
	d.Contacts = a.fetchSlice(ctx, userID, "contacts", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.Contacts(ctx, userID)
	})
	d.Devices = a.fetchSlice(ctx, userID, "devices", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.Devices(ctx, userID, role)
	})
	d.Lawsuits = a.fetchSlice(ctx, userID, "lawsuits", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.Lawsuits(ctx, userID)
	})
	d.BusinessData = a.fetchSlice(ctx, userID, "business_data", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.BusinessData(ctx, userID)
	})
	d.PrisonTransactions = a.fetchSlice(ctx, userID, "prison_transactions", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.PrisonTransactions(ctx, userID)
	})
	d.SanctionsHistory = a.fetchSlice(ctx, userID, "sanctions_history", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.SanctionsHistory(ctx, userID)
	})
	d.DeniedPixTransfers = a.fetchSlice(ctx, userID, "denied_pix_transactions", func(ctx context.Context) ([]domain.Record, error) {
		return a.warehouse.DeniedPixTransfers(ctx, userID)
	})

	if role == domain.RoleMerchant {
		d.CardholderConcentration = a.fetchSlice(ctx, userID, "cardholder_concentration", func(ctx context.Context) ([]domain.Record, error) {
			return a.warehouse.CardholderConcentration(ctx, userID)
		})
		d.ProductsOnline = a.fetchSlice(ctx, userID, "products_online", func(ctx context.Context) ([]domain.Record, error) {
			return a.warehouse.ProductsOnline(ctx, userID)
		})
		d.DeniedTransactions = a.fetchSlice(ctx, userID, "denied_transactions", func(ctx context.Context) ([]domain.Record, error) {
			return a.warehouse.DeniedTransactions(ctx, userID)
		})
	}

	return d, nil
}

// buildPixVolumes splits PIX concentration rows by direction and derives
// the four volume sums, including the atypical-hours sub-totals.
func (a *Assembler) buildPixVolumes(ctx context.Context, d *domain.Dossier) {
	rows, err := a.warehouse.PixConcentration(ctx, d.UserID)
	if err != nil {
		a.logSliceFailure(d.UserID, "pix_concentration", err)
		return
	}

	for _, row := range rows {
		record := normalizeRecord(row)
		amount := asFloat(record["pix_amount"])
		atypical := asFloat(record["pix_amount_atypical_hours"])

		switch record["transaction_type"] {
		case "Cash In":
			d.PixCashIn = append(d.PixCashIn, record)
			d.TotalCashIn += amount
			d.TotalCashInAtypical += atypical
		case "Cash Out":
			d.PixCashOut = append(d.PixCashOut, record)
			d.TotalCashOut += amount
			d.TotalCashOutAtypical += atypical
		}
	}
}

type sliceFetch func(ctx context.Context) ([]domain.Record, error)

func (a *Assembler) fetchSlice(ctx context.Context, userID int64, name string, fetch sliceFetch) []domain.Record {
	records, err := fetch(ctx)
	if err != nil {
		a.logSliceFailure(userID, name, err)
		return []domain.Record{}
	}
	return normalizeRecords(records)
}

func (a *Assembler) logSliceFailure(userID int64, slice string, err error) {
	a.logger.Warn("dossier slice fetch failed",
		"user_id", userID,
		"slice", slice,
		"error", err,
	)
}
