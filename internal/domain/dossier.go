package domain

// Record is one warehouse row, keyed by column name. Values are already
// normalized by the assembler: decimals as float64, timestamps as ISO-8601
// strings. encoding/json marshals map keys in sorted order, which is what
// makes Record serialization deterministic.
type Record map[string]any

// Dossier is the aggregate evidentiary record for one user. Every slice is
// always non-nil; callers branch on emptiness, never on presence. Built
// fresh per analysis call.
type Dossier struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`

	// Profile is the merchant_report/cardholder_report row. Empty map when
	// the warehouse has no profile for the user.
	Profile Record `json:"profile"`

	// PIX volume sums, split by direction and again by atypical hours.
	TotalCashIn          float64 `json:"total_cash_in"`
	TotalCashOut         float64 `json:"total_cash_out"`
	TotalCashInAtypical  float64 `json:"total_cash_in_atypical"`
	TotalCashOutAtypical float64 `json:"total_cash_out_atypical"`

	IssuingConcentration []Record `json:"issuing_concentration"`
	PixCashIn            []Record `json:"pix_cash_in"`
	PixCashOut           []Record `json:"pix_cash_out"`
	OffenseHistory       []Record `json:"offense_history"`
	Contacts             []Record `json:"contacts"`
	Devices              []Record `json:"devices"`
	Lawsuits             []Record `json:"lawsuits"`
	BusinessData         []Record `json:"business_data"`
	PrisonTransactions   []Record `json:"prison_transactions"`
	SanctionsHistory     []Record `json:"sanctions_history"`
	DeniedPixTransfers   []Record `json:"denied_pix_transactions"`

	// Merchant-only slices; empty for cardholders.
	CardholderConcentration []Record `json:"cardholder_concentration"`
	ProductsOnline          []Record `json:"products_online"`
	DeniedTransactions      []Record `json:"denied_transactions"`
}

// NewDossier returns a dossier with every slice initialized empty, so a
// user with zero evidence still yields a complete, well-formed record.
func NewDossier(userID int64, role Role) *Dossier {
	return &Dossier{
		UserID:                  userID,
		Role:                    role,
		Profile:                 Record{},
		IssuingConcentration:    []Record{},
		PixCashIn:               []Record{},
		PixCashOut:              []Record{},
		OffenseHistory:          []Record{},
		Contacts:                []Record{},
		Devices:                 []Record{},
		Lawsuits:                []Record{},
		BusinessData:            []Record{},
		PrisonTransactions:      []Record{},
		SanctionsHistory:        []Record{},
		DeniedPixTransfers:      []Record{},
		CardholderConcentration: []Record{},
		ProductsOnline:          []Record{},
		DeniedTransactions:      []Record{},
	}
}

// Empty reports whether the dossier holds no evidence at all. An empty
// dossier is a valid analysis input, not an error.
func (d *Dossier) Empty() bool {
	return len(d.Profile) == 0 &&
		len(d.IssuingConcentration) == 0 &&
		len(d.PixCashIn) == 0 &&
		len(d.PixCashOut) == 0 &&
		len(d.OffenseHistory) == 0 &&
		len(d.Contacts) == 0 &&
		len(d.Devices) == 0 &&
		len(d.Lawsuits) == 0 &&
		len(d.BusinessData) == 0 &&
		len(d.PrisonTransactions) == 0 &&
		len(d.SanctionsHistory) == 0 &&
		len(d.DeniedPixTransfers) == 0 &&
		len(d.CardholderConcentration) == 0 &&
		len(d.ProductsOnline) == 0 &&
		len(d.DeniedTransactions) == 0
}
