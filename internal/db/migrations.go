package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_ledger",
		Up:      migrationV1,
	},
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	if err := createVersionTable(database); err != nil {
		return err
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func execAll(tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrationV1 creates the ledger as first released: governance, epochs,
// claims, the asset ledger and the notification outbox.
func migrationV1(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS governance (
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
		)`,
		`CREATE TABLE IF NOT EXISTS epochs (
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
		)`,
		`CREATE INDEX IF NOT EXISTS idx_epochs_deployment ON epochs(deployment, epoch_nr)`,
		`CREATE TABLE IF NOT EXISTS claims (
			key TEXT PRIMARY KEY,
			deployment TEXT NOT NULL,
			epoch_nr INTEGER NOT NULL,
			leaf_index INTEGER NOT NULL,
			is_claimed INTEGER NOT NULL DEFAULT 1,
			receiver TEXT NOT NULL,
			amount INTEGER NOT NULL,
			claimed_at DATETIME NOT NULL,
			UNIQUE (deployment, epoch_nr, leaf_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_epoch ON claims(deployment, epoch_nr)`,
		`CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			decimals INTEGER NOT NULL CHECK(decimals BETWEEN 0 AND 19),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS asset_accounts (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			asset_id TEXT NOT NULL,
			balance INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (asset_id) REFERENCES assets(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_accounts_owner ON asset_accounts(owner, asset_id)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			deployment TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			published_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_pending ON events(published_at, created_at)`,
	)
}
