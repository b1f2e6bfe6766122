package primary

import (
	"context"
	"time"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// EpochService defines the primary port for the epoch lifecycle.
type EpochService interface {
	// AddEpoch creates the next draft epoch. Agent only.
	AddEpoch(ctx context.Context, req AddEpochRequest) (*Epoch, error)

	// CorrectEpoch overwrites the root (and optionally the asset) of a draft. Agent only.
	CorrectEpoch(ctx context.Context, req CorrectEpochRequest) (*Epoch, error)

	// ApproveEpoch funds the escrow and irreversibly approves the current draft. Manager only.
	ApproveEpoch(ctx context.Context, req ApproveEpochRequest) (*Epoch, error)

	// GetEpoch retrieves an epoch by number.
	GetEpoch(ctx context.Context, deployment identity.Identity, epochNr uint64) (*Epoch, error)

	// ListEpochs lists epochs ordered by number.
	ListEpochs(ctx context.Context, filters EpochFilters) ([]*Epoch, error)
}

// AddEpochRequest contains parameters for creating a draft epoch.
type AddEpochRequest struct {
	Deployment  identity.Identity
	Root        merkle.Hash
	AssetID     string
	MaxNumNodes uint64 // Optional, 0 means unbounded
}

// CorrectEpochRequest contains parameters for correcting a draft epoch.
type CorrectEpochRequest struct {
	Deployment identity.Identity
	EpochNr    uint64
	Root       merkle.Hash
	AssetID    string // Optional, empty keeps the current asset
}

// ApproveEpochRequest contains parameters for approving an epoch.
type ApproveEpochRequest struct {
	Deployment    identity.Identity
	EpochNr       uint64
	FundingAmount uint64 // Whole tokens, scaled by the asset's decimals
}

// EpochFilters contains filter options for listing epochs.
type EpochFilters struct {
	Deployment   identity.Identity
	ApprovedOnly bool
	Limit        int
}

// Epoch represents an epoch at the port boundary.
type Epoch struct {
	Key                identity.Identity
	Deployment         identity.Identity
	EpochNr            uint64
	MerkleRoot         merkle.Hash
	IsApproved         bool
	AssetID            string
	Escrow             identity.Identity
	TotalAmountClaimed uint64
	NumNodesClaimed    uint64
	MaxTotalClaim      uint64
	MaxNumNodes        uint64
	FundedAmount       uint64
	CreatedAt          time.Time
	ApprovedAt         time.Time
}
