// Package claim contains the pure business rules for Merkle claims.
// The guard verifies the inclusion proof itself so the whole decision
// is a single pure evaluation over a snapshot of state.
package claim

import (
	"fmt"
	"math"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Kind, r.Reason)
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// ClaimContext provides context for claim guards.
type ClaimContext struct {
	IsPaused bool

	EpochNr            uint64
	EpochExists        bool
	IsApproved         bool
	EpochAsset         string
	Root               merkle.Hash
	TotalAmountClaimed uint64
	NumNodesClaimed    uint64
	MaxTotalClaim      uint64
	MaxNumNodes        uint64 // 0 means unbounded

	RequestedAsset string
	LeafIndex      uint64
	Receiver       identity.Identity
	Amount         uint64
	Proof          []merkle.Hash
	AlreadyClaimed bool

	Source           identity.Identity
	Destination      identity.Identity
	DestinationOwner identity.Identity
}

// CanClaim evaluates whether an entitlement can be paid out.
// Rules, in order:
// - Program must not be paused
// - Epoch must exist and be approved
// - Requested asset must match the epoch's asset
// - No claim may exist yet for (epoch, leaf index)
// - Proof must verify against the epoch root
// - Destination must be owned by the receiver and differ from the escrow
// - Cumulative totals must stay within the epoch's bounds
func CanClaim(ctx ClaimContext) GuardResult {
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	if !ctx.EpochExists {
		return deny(coreerrors.ErrInvalidEpochNr, "epoch %d not found", ctx.EpochNr)
	}
	if !ctx.IsApproved {
		return deny(coreerrors.ErrEpochShouldBeApproved, "epoch %d is not approved", ctx.EpochNr)
	}
	if ctx.RequestedAsset != ctx.EpochAsset {
		return deny(coreerrors.ErrInvalidMintAccount, "asset %q does not match epoch asset %q", ctx.RequestedAsset, ctx.EpochAsset)
	}
	if ctx.AlreadyClaimed {
		return deny(coreerrors.ErrDropAlreadyClaimed, "leaf %d of epoch %d already claimed", ctx.LeafIndex, ctx.EpochNr)
	}

	leaf := merkle.LeafHash(ctx.LeafIndex, ctx.Receiver, ctx.Amount)
	if !merkle.Verify(ctx.Proof, ctx.Root, leaf) {
		return deny(coreerrors.ErrInvalidProof, "proof for leaf %d does not match epoch %d root", ctx.LeafIndex, ctx.EpochNr)
	}

	if ctx.DestinationOwner != ctx.Receiver {
		return deny(coreerrors.ErrOwnerMismatch, "destination %s is owned by %s, not %s", ctx.Destination, ctx.DestinationOwner, ctx.Receiver)
	}
	if ctx.Source == ctx.Destination {
		return deny(coreerrors.ErrSameAccount, "destination %s is the epoch escrow", ctx.Destination)
	}

	if ctx.Amount > math.MaxUint64-ctx.TotalAmountClaimed || ctx.TotalAmountClaimed+ctx.Amount > ctx.MaxTotalClaim {
		return deny(coreerrors.ErrExceededMaxClaim, "claiming %d would exceed epoch %d allocation (%d of %d claimed)",
			ctx.Amount, ctx.EpochNr, ctx.TotalAmountClaimed, ctx.MaxTotalClaim)
	}
	if ctx.MaxNumNodes != 0 && ctx.NumNodesClaimed >= ctx.MaxNumNodes {
		return deny(coreerrors.ErrExceededMaxNumNodes, "epoch %d already has %d of %d claims", ctx.EpochNr, ctx.NumNodesClaimed, ctx.MaxNumNodes)
	}

	return GuardResult{Allowed: true}
}
