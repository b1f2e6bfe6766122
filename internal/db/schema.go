package db

import "database/sql"

// SchemaSQL is the complete schema for fresh rewards ledgers.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// use this schema via GetSchemaSQL(), and migrations_test.go checks that
// running every migration from an empty database yields the same columns.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run the db and sqlite adapter tests to verify alignment
//
// Unsigned 64-bit quantities are stored as the two's-complement bit pattern
// of an INTEGER column; identities are base58 text, digests 0x-hex text.
const SchemaSQL = `
-- Governance singleton, one row per deployment
CREATE TABLE IF NOT EXISTS governance (
	deployment TEXT PRIMARY KEY,
	manager TEXT NOT NULL,
	proposed_manager TEXT,
	agent TEXT NOT NULL,
	current_epoch_nr INTEGER NOT NULL DEFAULT 0,
	current_approved_epoch INTEGER NOT NULL DEFAULT 0,
	epoch_length INTEGER NOT NULL DEFAULT 0,
	is_paused INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Epochs, addressed by key derived from (deployment, epoch_nr)
CREATE TABLE IF NOT EXISTS epochs (
	key TEXT PRIMARY KEY,
	deployment TEXT NOT NULL,
	epoch_nr INTEGER NOT NULL,
	merkle_root TEXT NOT NULL,
	is_approved INTEGER NOT NULL DEFAULT 0,
	asset_id TEXT NOT NULL,
	escrow TEXT NOT NULL,
	total_amount_claimed INTEGER NOT NULL DEFAULT 0,
	num_nodes_claimed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	approved_at DATETIME,
	max_total_claim INTEGER NOT NULL DEFAULT 0,
	max_num_nodes INTEGER NOT NULL DEFAULT 0,
	funded_amount INTEGER NOT NULL DEFAULT 0,
	UNIQUE (deployment, epoch_nr),
	FOREIGN KEY (deployment) REFERENCES governance(deployment)
);

CREATE INDEX IF NOT EXISTS idx_epochs_deployment ON epochs(deployment, epoch_nr);

-- Claims, addressed by key derived from (deployment, epoch_nr, leaf_index).
-- The primary key is the anti-replay guard.
CREATE TABLE IF NOT EXISTS claims (
	key TEXT PRIMARY KEY,
	deployment TEXT NOT NULL,
	epoch_nr INTEGER NOT NULL,
	leaf_index INTEGER NOT NULL,
	is_claimed INTEGER NOT NULL DEFAULT 1,
	receiver TEXT NOT NULL,
	amount INTEGER NOT NULL,
	claimed_at DATETIME NOT NULL,
	UNIQUE (deployment, epoch_nr, leaf_index)
);

CREATE INDEX IF NOT EXISTS idx_claims_epoch ON claims(deployment, epoch_nr);

-- Asset ledger (external collaborator of the distributor)
CREATE TABLE IF NOT EXISTS assets (
	id TEXT PRIMARY KEY,
	decimals INTEGER NOT NULL CHECK(decimals BETWEEN 0 AND 19),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS asset_accounts (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	asset_id TEXT NOT NULL,
	balance INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (asset_id) REFERENCES assets(id)
);

CREATE INDEX IF NOT EXISTS idx_asset_accounts_owner ON asset_accounts(owner, asset_id);

-- Notification outbox, written in the same transaction as the state change
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	deployment TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	published_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_events_pending ON events(published_at, created_at);
`

// InitSchema brings database up to date. A fresh database gets SchemaSQL
// directly with every migration marked as applied; an existing one runs
// any pending migrations.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
