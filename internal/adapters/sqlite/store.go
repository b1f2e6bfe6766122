// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ports/secondary"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements secondary.Store on top of SQLite transactions.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite-backed store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithinTx runs fn inside a database transaction, committing only if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx secondary.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&tx{db: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// View runs fn inside a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(tx secondary.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	return fn(&tx{db: sqlTx})
}

type tx struct {
	db DBTX
}

func (t *tx) Governance() secondary.GovernanceRepository { return NewGovernanceRepository(t.db) }
func (t *tx) Epochs() secondary.EpochRepository         { return NewEpochRepository(t.db) }
func (t *tx) Claims() secondary.ClaimRepository         { return NewClaimRepository(t.db) }
func (t *tx) Assets() secondary.AssetLedger             { return NewAssetLedger(t.db) }
func (t *tx) Outbox() secondary.OutboxWriter            { return NewOutboxRepository(t.db) }

var _ secondary.Store = (*Store)(nil)

// isConstraintViolation reports whether err is a UNIQUE or PRIMARY KEY conflict.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// u64 and i64 map unsigned quantities onto SQLite's signed INTEGER by bit pattern.
func i64(v uint64) int64 { return int64(v) }
func u64(v int64) uint64 { return uint64(v) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIdentity(id identity.Identity) sql.NullString {
	if id.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func parseIdentity(s string) (identity.Identity, error) {
	var id identity.Identity
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return identity.Zero, err
	}
	return id, nil
}

type identityColumn struct {
	dst  *identity.Identity
	text string
}

// decodeIdentities decodes several base58 columns at once.
func decodeIdentities(cols ...identityColumn) error {
	for _, col := range cols {
		id, err := parseIdentity(col.text)
		if err != nil {
			return err
		}
		*col.dst = id
	}
	return nil
}

func parseRoot(s string) (merkle.Hash, error) {
	return merkle.ParseHash(s)
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
