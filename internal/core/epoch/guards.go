// Package epoch contains the pure business rules for the epoch lifecycle:
// draft creation, correction while draft, and the one-way approval commit.
package epoch

import (
	"fmt"
	"math"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// MaxDecimals bounds the precision of an asset; 10^19 overflows uint64.
const MaxDecimals = 19

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

// AddEpochContext provides context for draft creation guards.
type AddEpochContext struct {
	Caller               identity.Identity
	Agent                identity.Identity
	IsPaused             bool
	CurrentEpochNr       uint64
	CurrentApprovedEpoch uint64
	Root                 merkle.Hash
	AssetID              string
}

// CorrectEpochContext provides context for draft correction guards.
type CorrectEpochContext struct {
	Caller      identity.Identity
	Agent       identity.Identity
	IsPaused    bool
	EpochNr     uint64
	EpochExists bool
	IsApproved  bool
	Root        merkle.Hash
}

// ApproveEpochContext provides context for approval guards.
type ApproveEpochContext struct {
	Caller         identity.Identity
	Manager        identity.Identity
	IsPaused       bool
	EpochNr        uint64
	EpochExists    bool
	IsApproved     bool
	CurrentEpochNr uint64
	FundingAmount  uint64
}

// CanAddEpoch evaluates whether a new draft epoch can be created.
// Rules:
// - Caller must be the agent
// - Program must not be paused
// - The previous epoch must be approved (skipped for the first epoch)
// - Root and asset must be set
func CanAddEpoch(ctx AddEpochContext) GuardResult {
	if ctx.Caller != ctx.Agent {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the agent", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	if ctx.CurrentEpochNr != 0 && ctx.CurrentApprovedEpoch != ctx.CurrentEpochNr {
		return deny(coreerrors.ErrPreviousEpochIsNotApproved,
			"epoch %d is still a draft (last approved: %d)", ctx.CurrentEpochNr, ctx.CurrentApprovedEpoch)
	}
	if ctx.CurrentEpochNr == math.MaxUint64 {
		return deny(coreerrors.ErrArithmeticOverflow, "epoch number space exhausted")
	}
	if ctx.Root.IsZero() {
		return deny(coreerrors.ErrInvalidInput, "merkle root is required")
	}
	if ctx.AssetID == "" {
		return deny(coreerrors.ErrInvalidInput, "asset is required")
	}
	return GuardResult{Allowed: true}
}

// CanCorrectEpoch evaluates whether a draft epoch's root can be overwritten.
// Rules:
// - Caller must be the agent
// - Program must not be paused
// - Epoch must exist and still be a draft
func CanCorrectEpoch(ctx CorrectEpochContext) GuardResult {
	if ctx.Caller != ctx.Agent {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the agent", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	if !ctx.EpochExists {
		return deny(coreerrors.ErrInvalidEpochNr, "epoch %d not found", ctx.EpochNr)
	}
	if ctx.IsApproved {
		return deny(coreerrors.ErrEpochShouldNotBeApproved, "epoch %d is already approved", ctx.EpochNr)
	}
	if ctx.Root.IsZero() {
		return deny(coreerrors.ErrInvalidInput, "merkle root is required")
	}
	return GuardResult{Allowed: true}
}

// CanApproveEpoch evaluates whether the current draft can be funded and approved.
// Rules:
// - Caller must be the manager
// - Program must not be paused
// - Epoch must exist, must not be approved, and must be the current draft
// - Funding must be positive
func CanApproveEpoch(ctx ApproveEpochContext) GuardResult {
	if ctx.Caller != ctx.Manager {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the manager", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	if !ctx.EpochExists {
		return deny(coreerrors.ErrInvalidEpochNr, "epoch %d not found", ctx.EpochNr)
	}
	if ctx.IsApproved {
		return deny(coreerrors.ErrEpochShouldNotBeApproved, "epoch %d is already approved", ctx.EpochNr)
	}
	if ctx.EpochNr != ctx.CurrentEpochNr {
		return deny(coreerrors.ErrInvalidEpochNr, "epoch %d is not the current draft %d", ctx.EpochNr, ctx.CurrentEpochNr)
	}
	if ctx.FundingAmount == 0 {
		return deny(coreerrors.ErrInvalidInput, "funding amount must be positive")
	}
	return GuardResult{Allowed: true}
}

// ScaleFunding converts a whole-token funding amount into base units.
func ScaleFunding(amount uint64, decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: %d decimals", coreerrors.ErrArithmeticOverflow, decimals)
	}
	scaled := amount
	for i := uint8(0); i < decimals; i++ {
		if scaled > math.MaxUint64/10 {
			return 0, fmt.Errorf("%w: %d * 10^%d", coreerrors.ErrArithmeticOverflow, amount, decimals)
		}
		scaled *= 10
	}
	return scaled, nil
}
