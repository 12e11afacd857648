package domain

// Role classifies the account holder for dossier assembly. A merchant
// dossier carries acquiring-side slices (cardholder concentration, online
// store, denied card transactions) that a plain cardholder dossier omits.
type Role string

const (
	RoleMerchant   Role = "merchant"
	RoleCardholder Role = "cardholder"
)

// Label is the human-facing name used inside the prompt document.
func (r Role) Label() string {
	if r == RoleMerchant {
		return "Merchant"
	}
	return "Cardholder"
}

// AlertType identifies which monitoring rule flagged a user. The set is
// closed: each member owns an instruction template appended to the prompt.
// Feed rows may carry alert-type strings outside this set; those analyses
// still run, they just get no alert-specific instruction block.
type AlertType string

const (
	AlertBettingHouses       AlertType = "betting_houses_alert [BR]"
	AlertGovernmentCards     AlertType = "goverment_corporate_cards_alert [BR]"
	AlertCardholderPix       AlertType = "ch_alert [BR]"
	AlertMerchantPix         AlertType = "pix_merchant_alert [BR]"
	AlertInternationalCards  AlertType = "international_cards_alert [BR]"
	AlertBankSlips           AlertType = "bank_slips_alert [BR]"
	AlertGAFI                AlertType = "gafi_alert [US]"
	AlertPepPix              AlertType = "pep_pix_alert [BR]"
	AlertAIModel             AlertType = "AI Alert"
	AlertIssuingTransactions AlertType = "Issuing Transactions Alert"
)

// Known reports whether the alert type belongs to the closed template set.
func (a AlertType) Known() bool {
	switch a {
	case AlertBettingHouses, AlertGovernmentCards, AlertCardholderPix,
		AlertMerchantPix, AlertInternationalCards, AlertBankSlips,
		AlertGAFI, AlertPepPix, AlertAIModel, AlertIssuingTransactions:
		return true
	}
	return false
}

// FlaggedUser is one case pulled from the alert feed. Immutable for the
// duration of one analysis pass.
type FlaggedUser struct {
	UserID    int64     `json:"user_id"`
	AlertType AlertType `json:"alert_type"`
	AlertDate string    `json:"alert_date"`

	// Score and Features are only populated for the AI-model alert type.
	// Features is free text describing the anomaly signals the model saw.
	Score    *float64 `json:"score,omitempty"`
	Features string   `json:"features,omitempty"`
}
