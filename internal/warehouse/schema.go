package warehouse

import "time"

// Schema definitions for the local warehouse mirror.
// Compatible with both SQLite and PostgreSQL. Production reads hit the
// synced postgres mirror; SQLite is for local runs and tests.

const schemaFlaggedAlerts = `
CREATE TABLE IF NOT EXISTS flagged_alerts (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    alert_type TEXT NOT NULL,
    alert_date TEXT NOT NULL,
    score REAL,
    features TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_flagged_alerts_created ON flagged_alerts(created_at);
CREATE INDEX IF NOT EXISTS idx_flagged_alerts_user ON flagged_alerts(user_id);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    role TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaReports = `
CREATE TABLE IF NOT EXISTS merchant_report (
    user_id INTEGER PRIMARY KEY,
    legal_name TEXT,
    trade_name TEXT,
    document_number TEXT,
    mcc TEXT,
    business_description TEXT,
    monthly_revenue REAL,
    created_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cardholder_report (
    user_id INTEGER PRIMARY KEY,
    full_name TEXT,
    document_number TEXT,
    declared_income REAL,
    occupation TEXT,
    created_at TIMESTAMP
);
`

const schemaConcentrations = `
CREATE TABLE IF NOT EXISTS pix_concentration (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    transaction_type TEXT NOT NULL,
    counterparty_name TEXT,
    counterparty_document TEXT,
    pix_amount REAL NOT NULL DEFAULT 0,
    pix_amount_atypical_hours REAL NOT NULL DEFAULT 0,
    transaction_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_pix_concentration_user ON pix_concentration(user_id);

CREATE TABLE IF NOT EXISTS issuing_concentration (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    merchant_name TEXT,
    card_bin TEXT,
    total_amount REAL,
    transaction_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_issuing_concentration_user ON issuing_concentration(user_id);

CREATE TABLE IF NOT EXISTS issuing_payments (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    merchant_name TEXT,
    card_bin TEXT,
    total_amount REAL,
    transaction_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_issuing_payments_user ON issuing_payments(user_id);

CREATE TABLE IF NOT EXISTS cardholder_concentration (
    id INTEGER PRIMARY KEY,
    merchant_id INTEGER NOT NULL,
    cardholder_name TEXT,
    card_number TEXT,
    total_approved_by_ch REAL,
    transaction_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_cardholder_concentration_merchant ON cardholder_concentration(merchant_id);
`

const schemaHistory = `
CREATE TABLE IF NOT EXISTS offense_history (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    offense_name TEXT,
    conclusion TEXT,
    priority TEXT,
    analyst TEXT,
    description TEXT,
    concluded_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_offense_history_user ON offense_history(user_id);

CREATE TABLE IF NOT EXISTS lawsuits (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    lawsuit_number TEXT,
    court TEXT,
    subject TEXT,
    status TEXT
);

CREATE INDEX IF NOT EXISTS idx_lawsuits_user ON lawsuits(user_id);

CREATE TABLE IF NOT EXISTS prison_transactions (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    facility_name TEXT,
    counterparty_name TEXT,
    amount REAL,
    transaction_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_prison_transactions_user ON prison_transactions(user_id);

CREATE TABLE IF NOT EXISTS sanctions_history (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    list_name TEXT,
    matched_name TEXT,
    match_score REAL,
    listed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_sanctions_history_user ON sanctions_history(user_id);
`

const schemaRelationships = `
CREATE TABLE IF NOT EXISTS contacts (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    name TEXT,
    phone_number TEXT,
    email TEXT
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);

CREATE TABLE IF NOT EXISTS user_devices (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    device_model TEXT,
    source TEXT,
    created_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_user_devices_user ON user_devices(user_id);

CREATE TABLE IF NOT EXISTS business_relationships (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    partner_name TEXT,
    partner_document TEXT,
    relationship TEXT
);

CREATE INDEX IF NOT EXISTS idx_business_relationships_user ON business_relationships(user_id);
`

const schemaDenied = `
CREATE TABLE IF NOT EXISTS denied_transactions (
    id INTEGER PRIMARY KEY,
    merchant_id INTEGER NOT NULL,
    card_number TEXT,
    denial_reason TEXT,
    amount REAL,
    transaction_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_denied_transactions_merchant ON denied_transactions(merchant_id);

CREATE TABLE IF NOT EXISTS denied_pix_transfers (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    risk_check TEXT,
    counterparty_name TEXT,
    amount REAL,
    transaction_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_denied_pix_transfers_user ON denied_pix_transfers(user_id);
`

const schemaCatalogs = `
CREATE TABLE IF NOT EXISTS products_online (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    product_name TEXT,
    price REAL,
    url TEXT
);

CREATE INDEX IF NOT EXISTS idx_products_online_user ON products_online(user_id);

CREATE TABLE IF NOT EXISTS betting_transactions (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    betting_house TEXT,
    transaction_type TEXT,
    amount REAL,
    transaction_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_betting_transactions_user ON betting_transactions(user_id);

CREATE TABLE IF NOT EXISTS pep_transactions (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    pep_name TEXT,
    job_description TEXT,
    agencies TEXT,
    document_number TEXT,
    amount REAL,
    transaction_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_pep_transactions_user ON pep_transactions(user_id);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaFlaggedAlerts,
		schemaUsers,
		schemaReports,
		schemaConcentrations,
		schemaHistory,
		schemaRelationships,
		schemaDenied,
		schemaCatalogs,
	}
}

// cutoff returns the earliest created_at still inside the lookback window.
func cutoff(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}
