package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/primary"
)

// AssetAdapter translates CLI operations to AssetService calls.
type AssetAdapter struct {
	service primary.AssetService
	out     io.Writer
}

// NewAssetAdapter creates a new AssetAdapter with the given service.
func NewAssetAdapter(service primary.AssetService, out io.Writer) *AssetAdapter {
	return &AssetAdapter{
		service: service,
		out:     out,
	}
}

// Create registers an asset.
func (a *AssetAdapter) Create(ctx context.Context, assetID string, decimals uint8) error {
	err := a.service.CreateAsset(ctx, primary.CreateAssetRequest{AssetID: assetID, Decimals: decimals})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created asset %s (%d decimals)\n", assetID, decimals)
	return nil
}

// Mint credits base units to an owner.
func (a *AssetAdapter) Mint(ctx context.Context, owner identity.Identity, assetID string, amount uint64) error {
	account, err := a.service.Mint(ctx, primary.MintRequest{Owner: owner, AssetID: assetID, Amount: amount})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Minted %d %s to %s (balance %d)\n", amount, assetID, owner, account.Balance)
	return nil
}

// Balance shows an owner's balance.
func (a *AssetAdapter) Balance(ctx context.Context, owner identity.Identity, assetID string) error {
	account, err := a.service.Balance(ctx, owner, assetID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	fmt.Fprintf(a.out, "%s %s: %d\n", owner, account.AssetID, account.Balance)
	return nil
}
