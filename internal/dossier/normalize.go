package dossier

import (
	"strconv"
	"time"

	"github.com/opensource-finance/heron/internal/domain"
)

// Warehouse drivers disagree on how they surface decimals, timestamps and
// blobs. Normalization flattens every value into a small set of shapes
// (float64, int64, string, bool, nil) so the same evidence always
// serializes to the same bytes.

// numericColumns are the currency and score columns of the mirror schema.
// lib/pq scans NUMERIC into []byte, so on the Postgres path these arrive
// as decimal strings and must be coerced back to float64.
var numericColumns = map[string]bool{
	"amount":                    true,
	"declared_income":           true,
	"match_score":               true,
	"monthly_revenue":           true,
	"pix_amount":                true,
	"pix_amount_atypical_hours": true,
	"price":                     true,
	"score":                     true,
	"total_amount":              true,
	"total_approved_by_ch":      true,
}

func normalizeRecord(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		nv := normalizeValue(v)
		if s, ok := nv.(string); ok && numericColumns[k] {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				nv = f
			}
		}
		out[k] = nv
	}
	return out
}

func normalizeRecords(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		out = append(out, normalizeRecord(r))
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint64:
		return int64(t)
	case bool:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		return t
	case domain.Record:
		return normalizeRecord(t)
	case map[string]any:
		return normalizeRecord(domain.Record(t))
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, normalizeValue(e))
		}
		return out
	default:
		return t
	}
}

// asFloat reads a numeric column leniently; non-numeric values count as 0.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case []byte:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	default:
		return 0
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
