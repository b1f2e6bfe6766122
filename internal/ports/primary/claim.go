package primary

import (
	"context"
	"time"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// ClaimService defines the primary port for Merkle claims.
type ClaimService interface {
	// Claim pays out one entitlement to the caller, exactly once.
	Claim(ctx context.Context, req ClaimRequest) (*ClaimResponse, error)

	// GetClaimStatus reports whether an entitlement has been paid out.
	// Callers use it before resubmitting a claim.
	GetClaimStatus(ctx context.Context, req ClaimStatusRequest) (*ClaimStatus, error)

	// ListClaims lists the payouts of one epoch ordered by leaf index.
	ListClaims(ctx context.Context, deployment identity.Identity, epochNr uint64) ([]*Claim, error)
}

// ClaimRequest contains parameters for claiming an entitlement.
// The receiver is the caller.
type ClaimRequest struct {
	Deployment  identity.Identity
	EpochNr     uint64
	LeafIndex   uint64
	Amount      uint64
	Proof       []merkle.Hash
	AssetID     string
	Destination identity.Identity // Optional, defaults to the receiver's asset account
}

// ClaimResponse contains the result of a successful claim.
type ClaimResponse struct {
	Claim       *Claim
	Destination identity.Identity
}

// ClaimStatusRequest identifies one entitlement.
type ClaimStatusRequest struct {
	Deployment identity.Identity
	EpochNr    uint64
	LeafIndex  uint64
}

// ClaimStatus reports the payout state of one entitlement.
type ClaimStatus struct {
	Key     identity.Identity
	Claimed bool
	Claim   *Claim // nil when not claimed
}

// Claim represents a payout record at the port boundary.
type Claim struct {
	Key        identity.Identity
	Deployment identity.Identity
	EpochNr    uint64
	LeafIndex  uint64
	IsClaimed  bool
	Receiver   identity.Identity
	Amount     uint64
	ClaimedAt  time.Time
}
