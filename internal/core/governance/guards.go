// Package governance contains the pure business rules for the governance record:
// manager/agent roles, two-phase manager transfer and the pause switch.
// Guards are pure functions that evaluate preconditions without side effects.
package governance

import (
	"fmt"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    error
}

// Error converts the guard result to an error if not allowed.
// The returned error wraps Kind so callers can match it with errors.Is.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Kind, r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// InitializeContext provides context for deployment initialization guards.
type InitializeContext struct {
	Deployment identity.Identity
	Exists     bool
	Agent      identity.Identity
}

// ManagerActionContext provides context for manager-only guards.
type ManagerActionContext struct {
	Caller   identity.Identity
	Manager  identity.Identity
	IsPaused bool
}

// AcceptManagerContext provides context for the second phase of a manager transfer.
type AcceptManagerContext struct {
	Caller          identity.Identity
	ProposedManager identity.Identity
	IsPaused        bool
}

// CanInitialize evaluates whether a deployment can be initialized.
// Rules:
// - Deployment must not already exist
// - Agent must be set
func CanInitialize(ctx InitializeContext) GuardResult {
	if ctx.Exists {
		return deny(coreerrors.ErrAlreadyInitialized, "deployment %s already initialized", ctx.Deployment)
	}
	if ctx.Agent.IsZero() {
		return deny(coreerrors.ErrInvalidInput, "agent is required")
	}
	return allow()
}

// checkManager is the shared authority + pause gate for manager operations.
func checkManager(ctx ManagerActionContext) GuardResult {
	if ctx.Caller != ctx.Manager {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the manager", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	return allow()
}

// CanProposeManager evaluates whether candidate can be proposed as the next manager.
// Rules:
// - Caller must be the manager
// - Program must not be paused
// - Candidate must be set
func CanProposeManager(ctx ManagerActionContext, candidate identity.Identity) GuardResult {
	if r := checkManager(ctx); !r.Allowed {
		return r
	}
	if candidate.IsZero() {
		return deny(coreerrors.ErrInvalidInput, "proposed manager is required")
	}
	return allow()
}

// CanAcceptManager evaluates whether the caller can take over as manager.
// Rules:
// - A proposal must be pending and the caller must be the proposed manager
// - Program must not be paused
func CanAcceptManager(ctx AcceptManagerContext) GuardResult {
	if ctx.ProposedManager.IsZero() || ctx.Caller != ctx.ProposedManager {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the proposed manager", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is paused")
	}
	return allow()
}

// CanChangeAgent evaluates whether the agent can be replaced.
// Rules:
// - Caller must be the manager
// - Program must not be paused
// - New agent must be set
func CanChangeAgent(ctx ManagerActionContext, newAgent identity.Identity) GuardResult {
	if r := checkManager(ctx); !r.Allowed {
		return r
	}
	if newAgent.IsZero() {
		return deny(coreerrors.ErrInvalidInput, "new agent is required")
	}
	return allow()
}

// CanSetEpochLength evaluates whether the advisory epoch length can be changed.
func CanSetEpochLength(ctx ManagerActionContext) GuardResult {
	return checkManager(ctx)
}

// CanPause evaluates whether the program can be paused.
// Rules:
// - Caller must be the manager
// - Program must be active
func CanPause(ctx ManagerActionContext) GuardResult {
	if ctx.Caller != ctx.Manager {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the manager", ctx.Caller)
	}
	if ctx.IsPaused {
		return deny(coreerrors.ErrShouldNotBePaused, "program is already paused")
	}
	return allow()
}

// CanUnpause evaluates whether the program can be unpaused.
// Rules:
// - Caller must be the manager
// - Program must be paused
func CanUnpause(ctx ManagerActionContext) GuardResult {
	if ctx.Caller != ctx.Manager {
		return deny(coreerrors.ErrUnauthorized, "caller %s is not the manager", ctx.Caller)
	}
	if !ctx.IsPaused {
		return deny(coreerrors.ErrShouldBePaused, "program is not paused")
	}
	return allow()
}
