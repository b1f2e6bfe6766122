package primary

import (
	"context"

	"github.com/example/rewards/internal/core/identity"
)

// AssetService defines the primary port for provisioning assets outside the
// distributor's own operations (funding the manager, inspecting balances).
type AssetService interface {
	// CreateAsset registers a fungible asset.
	CreateAsset(ctx context.Context, req CreateAssetRequest) error

	// Mint credits base units to an owner's account.
	Mint(ctx context.Context, req MintRequest) (*AssetAccount, error)

	// Balance reports an owner's account for an asset. Unknown accounts report zero.
	Balance(ctx context.Context, owner identity.Identity, assetID string) (*AssetAccount, error)
}

// CreateAssetRequest contains parameters for registering an asset.
type CreateAssetRequest struct {
	AssetID  string
	Decimals uint8
}

// MintRequest contains parameters for minting.
type MintRequest struct {
	Owner   identity.Identity
	AssetID string
	Amount  uint64 // Base units
}

// AssetAccount represents an asset account at the port boundary.
type AssetAccount struct {
	ID       identity.Identity
	Owner    identity.Identity
	AssetID  string
	Decimals uint8
	Balance  uint64
}
