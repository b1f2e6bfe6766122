package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	coreepoch "github.com/example/rewards/internal/core/epoch"
	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

// AssetServiceImpl implements the AssetService interface.
type AssetServiceImpl struct {
	store  secondary.Store
	logger *slog.Logger
}

// NewAssetService creates a new AssetService with injected dependencies.
func NewAssetService(store secondary.Store, logger *slog.Logger) *AssetServiceImpl {
	return &AssetServiceImpl{store: store, logger: resolveLogger(logger)}
}

// CreateAsset registers a fungible asset.
func (s *AssetServiceImpl) CreateAsset(ctx context.Context, req primary.CreateAssetRequest) error {
	assetID := strings.TrimSpace(req.AssetID)
	if assetID == "" {
		return fmt.Errorf("%w: asset id is required", coreerrors.ErrInvalidInput)
	}
	if req.Decimals > coreepoch.MaxDecimals {
		return fmt.Errorf("%w: decimals must be at most %d", coreerrors.ErrInvalidInput, coreepoch.MaxDecimals)
	}

	err := s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		return tx.Assets().CreateAsset(ctx, assetID, req.Decimals)
	})
	if err != nil {
		return err
	}

	s.logger.Info("asset created", "asset", assetID, "decimals", req.Decimals)
	return nil
}

// Mint credits base units to an owner's account.
func (s *AssetServiceImpl) Mint(ctx context.Context, req primary.MintRequest) (*primary.AssetAccount, error) {
	if req.Owner.IsZero() {
		return nil, fmt.Errorf("%w: owner is required", coreerrors.ErrInvalidInput)
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", coreerrors.ErrInvalidInput)
	}

	var (
		account *secondary.AssetAccountRecord
		asset   *secondary.AssetRecord
	)
	err := s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		var err error
		if asset, err = tx.Assets().GetAsset(ctx, req.AssetID); err != nil {
			return err
		}
		account, err = tx.Assets().Mint(ctx, req.Owner, req.AssetID, req.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("asset minted", "asset", req.AssetID, "owner", req.Owner.String(), "amount", req.Amount)
	return accountToPort(account, asset.Decimals), nil
}

// Balance reports an owner's default account. An account that was never
// created reports a zero balance.
func (s *AssetServiceImpl) Balance(ctx context.Context, owner identity.Identity, assetID string) (*primary.AssetAccount, error) {
	var result *primary.AssetAccount
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		asset, err := tx.Assets().GetAsset(ctx, assetID)
		if err != nil {
			return err
		}
		accountID := keys.AssetAccount(owner, assetID)
		account, err := tx.Assets().GetAccount(ctx, accountID)
		if errors.Is(err, coreerrors.ErrNotFound) {
			account = &secondary.AssetAccountRecord{ID: accountID, Owner: owner, AssetID: assetID}
		} else if err != nil {
			return err
		}
		result = accountToPort(account, asset.Decimals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ primary.AssetService = (*AssetServiceImpl)(nil)
