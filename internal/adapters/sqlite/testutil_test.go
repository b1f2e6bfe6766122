// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/db"
)

var (
	testDeployment = identity.Identity{0xD0}
	testManager    = identity.Identity{0xA1}
	testAgent      = identity.Identity{0xA2}
	testNow        = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every transaction on the same :memory: database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedGovernance inserts the governance row for testDeployment.
func seedGovernance(t *testing.T, database *sql.DB, currentEpoch, approvedEpoch uint64) {
	t.Helper()
	_, err := database.Exec(
		`INSERT INTO governance (deployment, manager, agent, current_epoch_nr, current_approved_epoch, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		testDeployment.String(), testManager.String(), testAgent.String(), currentEpoch, approvedEpoch, testNow, testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed governance: %v", err)
	}
}

// seedEpoch inserts a draft epoch for testDeployment and returns its key.
func seedEpoch(t *testing.T, database *sql.DB, epochNr uint64, root merkle.Hash) identity.Identity {
	t.Helper()
	key := keys.EpochKey(testDeployment, epochNr)
	_, err := database.Exec(
		`INSERT INTO epochs (key, deployment, epoch_nr, merkle_root, asset_id, escrow, created_at)
		VALUES (?, ?, ?, ?, 'MINT', ?, ?)`,
		key.String(), testDeployment.String(), epochNr, root.String(), keys.EscrowAccount(key, "MINT").String(), testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed epoch: %v", err)
	}
	return key
}

// seedAsset registers an asset.
func seedAsset(t *testing.T, database *sql.DB, id string, decimals int) {
	t.Helper()
	if _, err := database.Exec("INSERT INTO assets (id, decimals) VALUES (?, ?)", id, decimals); err != nil {
		t.Fatalf("failed to seed asset: %v", err)
	}
}
