package secondary

import (
	"context"

	"github.com/example/rewards/internal/core/identity"
)

// AssetGateway defines the secondary port to the value-transfer subsystem.
// The distributor never keeps balances itself; it only instructs transfers.
type AssetGateway interface {
	// GetAsset resolves an asset's metadata. Returns an error wrapping
	// ErrInvalidMintAccount when the asset is unknown.
	GetAsset(ctx context.Context, assetID string) (*AssetRecord, error)

	// GetAccount retrieves an asset account by its ID.
	// Returns an error wrapping ErrNotFound when absent.
	GetAccount(ctx context.Context, accountID identity.Identity) (*AssetAccountRecord, error)

	// GetOrCreateAccount resolves the asset account for owner, creating it
	// with a zero balance on first use.
	GetOrCreateAccount(ctx context.Context, owner identity.Identity, assetID string) (*AssetAccountRecord, error)

	// OpenAccount creates an account under an explicit ID (used for escrows).
	OpenAccount(ctx context.Context, accountID, owner identity.Identity, assetID string) (*AssetAccountRecord, error)

	// Transfer moves amount between two accounts of the same asset. The
	// authority must own the source account.
	Transfer(ctx context.Context, from, to identity.Identity, amount uint64, authority identity.Identity) error
}

// AssetAdmin defines the secondary port for asset provisioning.
// Only tooling uses it; distributor operations never mint.
type AssetAdmin interface {
	// CreateAsset registers an asset with its decimal precision.
	CreateAsset(ctx context.Context, assetID string, decimals uint8) error

	// Mint credits amount to owner's account for the asset.
	Mint(ctx context.Context, owner identity.Identity, assetID string, amount uint64) (*AssetAccountRecord, error)
}

// AssetRecord represents a fungible asset.
type AssetRecord struct {
	ID       string
	Decimals uint8
}

// AssetAccountRecord represents an asset-holding account.
type AssetAccountRecord struct {
	ID      identity.Identity
	Owner   identity.Identity
	AssetID string
	Balance uint64
}

// AssetLedger is the transactional view of the asset subsystem.
type AssetLedger interface {
	AssetGateway
	AssetAdmin
}
