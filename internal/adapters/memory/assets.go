package memory

import (
	"context"
	"fmt"
	"math"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ports/secondary"
)

type assetLedger struct{ s *state }

func (l assetLedger) GetAsset(ctx context.Context, assetID string) (*secondary.AssetRecord, error) {
	asset, ok := l.s.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown asset %q", coreerrors.ErrInvalidMintAccount, assetID)
	}
	return &asset, nil
}

func (l assetLedger) GetAccount(ctx context.Context, accountID identity.Identity) (*secondary.AssetAccountRecord, error) {
	account, ok := l.s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", coreerrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (l assetLedger) GetOrCreateAccount(ctx context.Context, owner identity.Identity, assetID string) (*secondary.AssetAccountRecord, error) {
	return l.OpenAccount(ctx, keys.AssetAccount(owner, assetID), owner, assetID)
}

func (l assetLedger) OpenAccount(ctx context.Context, accountID, owner identity.Identity, assetID string) (*secondary.AssetAccountRecord, error) {
	if _, err := l.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}
	if account, ok := l.s.accounts[accountID]; ok {
		if account.Owner != owner || account.AssetID != assetID {
			return nil, fmt.Errorf("%w: account %s belongs to %s", coreerrors.ErrOwnerMismatch, accountID, account.Owner)
		}
		return &account, nil
	}
	account := secondary.AssetAccountRecord{ID: accountID, Owner: owner, AssetID: assetID}
	l.s.accounts[accountID] = account
	return &account, nil
}

func (l assetLedger) Transfer(ctx context.Context, from, to identity.Identity, amount uint64, authority identity.Identity) error {
	if from == to {
		return fmt.Errorf("%w: %s", coreerrors.ErrSameAccount, from)
	}
	src, ok := l.s.accounts[from]
	if !ok {
		return fmt.Errorf("%w: source account %s", coreerrors.ErrNotFound, from)
	}
	dst, ok := l.s.accounts[to]
	if !ok {
		return fmt.Errorf("%w: destination account %s", coreerrors.ErrNotFound, to)
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

	src.Balance -= amount
	dst.Balance += amount
	l.s.accounts[from] = src
	l.s.accounts[to] = dst
	return nil
}

func (l assetLedger) CreateAsset(ctx context.Context, assetID string, decimals uint8) error {
	if _, ok := l.s.assets[assetID]; ok {
		return fmt.Errorf("%w: asset %q already exists", coreerrors.ErrInvalidInput, assetID)
	}
	l.s.assets[assetID] = secondary.AssetRecord{ID: assetID, Decimals: decimals}
	return nil
}

func (l assetLedger) Mint(ctx context.Context, owner identity.Identity, assetID string, amount uint64) (*secondary.AssetAccountRecord, error) {
	account, err := l.GetOrCreateAccount(ctx, owner, assetID)
	if err != nil {
		return nil, err
	}
	if account.Balance > math.MaxUint64-amount {
		return nil, fmt.Errorf("%w: account %s balance", coreerrors.ErrArithmeticOverflow, account.ID)
	}
	account.Balance += amount
	l.s.accounts[account.ID] = *account
	return account, nil
}
