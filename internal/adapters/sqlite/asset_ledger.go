package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ports/secondary"
)

// AssetLedger implements secondary.AssetLedger with SQLite. It is the
// persistent stand-in for the external value-transfer subsystem.
type AssetLedger struct {
	db DBTX
}

// NewAssetLedger creates a new SQLite asset ledger.
func NewAssetLedger(db DBTX) *AssetLedger {
	return &AssetLedger{db: db}
}

// GetAsset resolves an asset's metadata.
func (l *AssetLedger) GetAsset(ctx context.Context, assetID string) (*secondary.AssetRecord, error) {
	var decimals int
	err := l.db.QueryRowContext(ctx, "SELECT decimals FROM assets WHERE id = ?", assetID).Scan(&decimals)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: unknown asset %q", coreerrors.ErrInvalidMintAccount, assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &secondary.AssetRecord{ID: assetID, Decimals: uint8(decimals)}, nil
}

// GetAccount retrieves an asset account by its ID.
func (l *AssetLedger) GetAccount(ctx context.Context, accountID identity.Identity) (*secondary.AssetAccountRecord, error) {
	var (
		owner   string
		balance int64
	)
	record := &secondary.AssetAccountRecord{ID: accountID}
	err := l.db.QueryRowContext(ctx,
		"SELECT owner, asset_id, balance FROM asset_accounts WHERE id = ?",
		accountID.String(),
	).Scan(&owner, &record.AssetID, &balance)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: account %s", coreerrors.ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if record.Owner, err = parseIdentity(owner); err != nil {
		return nil, fmt.Errorf("failed to decode account owner: %w", err)
	}
	record.Balance = u64(balance)
	return record, nil
}

// GetOrCreateAccount resolves owner's default account for the asset.
func (l *AssetLedger) GetOrCreateAccount(ctx context.Context, owner identity.Identity, assetID string) (*secondary.AssetAccountRecord, error) {
	return l.OpenAccount(ctx, keys.AssetAccount(owner, assetID), owner, assetID)
}

// OpenAccount creates an account under accountID, or returns it if it
// already exists with the same owner and asset.
func (l *AssetLedger) OpenAccount(ctx context.Context, accountID, owner identity.Identity, assetID string) (*secondary.AssetAccountRecord, error) {
	if _, err := l.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}

	existing, err := l.GetAccount(ctx, accountID)
	switch {
	case err == nil:
		if existing.Owner != owner || existing.AssetID != assetID {
			return nil, fmt.Errorf("%w: account %s belongs to %s", coreerrors.ErrOwnerMismatch, accountID, existing.Owner)
		}
		return existing, nil
	case !errors.Is(err, coreerrors.ErrNotFound):
		return nil, err
	}

	_, err = l.db.ExecContext(ctx,
		"INSERT INTO asset_accounts (id, owner, asset_id, balance) VALUES (?, ?, ?, 0)",
		accountID.String(), owner.String(), assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &secondary.AssetAccountRecord{ID: accountID, Owner: owner, AssetID: assetID}, nil
}

// Transfer moves amount between two accounts of the same asset.
func (l *AssetLedger) Transfer(ctx context.Context, from, to identity.Identity, amount uint64, authority identity.Identity) error {
	if from == to {
		return fmt.Errorf("%w: %s", coreerrors.ErrSameAccount, from)
	}
	src, err := l.GetAccount(ctx, from)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := l.GetAccount(ctx, to)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if src.AssetID != dst.AssetID {
		return fmt.Errorf("%w: cannot transfer %q into %q account", coreerrors.ErrInvalidMintAccount, src.AssetID, dst.AssetID)
	}
	if src.Owner != authority {
		return fmt.Errorf("%w: %s cannot sign for account %s", coreerrors.ErrUnauthorized, authority, from)
	}
	if src.Balance < amount {
		return fmt.Errorf("%w: account %s holds %d, needs %d", coreerrors.ErrInsufficientFunds, from, src.Balance, amount)
	}
	if dst.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: account %s balance", coreerrors.ErrArithmeticOverflow, to)
	}

	if err := l.setBalance(ctx, from, src.Balance-amount); err != nil {
		return err
	}
	return l.setBalance(ctx, to, dst.Balance+amount)
}

// CreateAsset registers an asset with its decimal precision.
func (l *AssetLedger) CreateAsset(ctx context.Context, assetID string, decimals uint8) error {
	_, err := l.db.ExecContext(ctx, "INSERT INTO assets (id, decimals) VALUES (?, ?)", assetID, int(decimals))
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: asset %q already exists", coreerrors.ErrInvalidInput, assetID)
	}
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// Mint credits amount to owner's default account.
func (l *AssetLedger) Mint(ctx context.Context, owner identity.Identity, assetID string, amount uint64) (*secondary.AssetAccountRecord, error) {
	account, err := l.GetOrCreateAccount(ctx, owner, assetID)
	if err != nil {
		return nil, err
	}
	if account.Balance > math.MaxUint64-amount {
		return nil, fmt.Errorf("%w: account %s balance", coreerrors.ErrArithmeticOverflow, account.ID)
	}
	account.Balance += amount
	if err := l.setBalance(ctx, account.ID, account.Balance); err != nil {
		return nil, err
	}
	return account, nil
}

func (l *AssetLedger) setBalance(ctx context.Context, accountID identity.Identity, balance uint64) error {
	if _, err := l.db.ExecContext(ctx,
		"UPDATE asset_accounts SET balance = ? WHERE id = ?",
		i64(balance), accountID.String(),
	); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

var _ secondary.AssetLedger = (*AssetLedger)(nil)
