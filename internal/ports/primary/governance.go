package primary

import (
	"context"
	"time"

	"github.com/example/rewards/internal/core/identity"
)

// GovernanceService defines the primary port for the governance record.
// The caller identity is taken from the context (see ctxutil).
type GovernanceService interface {
	// Initialize creates the governance record with the caller as manager.
	Initialize(ctx context.Context, req InitializeRequest) (*Governance, error)

	// ProposeManager starts a two-phase manager transfer.
	ProposeManager(ctx context.Context, req ProposeManagerRequest) error

	// AcceptManager completes a pending manager transfer.
	AcceptManager(ctx context.Context, deployment identity.Identity) error

	// ChangeAgent replaces the operational agent.
	ChangeAgent(ctx context.Context, req ChangeAgentRequest) error

	// SetEpochLength updates the advisory epoch cadence.
	SetEpochLength(ctx context.Context, req SetEpochLengthRequest) error

	// Pause stops every mutating operation except Unpause.
	Pause(ctx context.Context, deployment identity.Identity) error

	// Unpause resumes normal operation.
	Unpause(ctx context.Context, deployment identity.Identity) error

	// GetGovernance retrieves the governance record.
	GetGovernance(ctx context.Context, deployment identity.Identity) (*Governance, error)
}

// InitializeRequest contains parameters for initializing a deployment.
type InitializeRequest struct {
	Deployment  identity.Identity
	Agent       identity.Identity
	EpochLength uint64 // Advisory only
}

// ProposeManagerRequest contains parameters for proposing a new manager.
type ProposeManagerRequest struct {
	Deployment identity.Identity
	Candidate  identity.Identity
}

// ChangeAgentRequest contains parameters for replacing the agent.
type ChangeAgentRequest struct {
	Deployment identity.Identity
	NewAgent   identity.Identity
}

// SetEpochLengthRequest contains parameters for changing the epoch cadence.
type SetEpochLengthRequest struct {
	Deployment  identity.Identity
	EpochLength uint64
}

// Governance represents the governance record at the port boundary.
type Governance struct {
	Deployment           identity.Identity
	Manager              identity.Identity
	ProposedManager      identity.Identity
	Agent                identity.Identity
	CurrentEpochNr       uint64
	CurrentApprovedEpoch uint64
	EpochLength          uint64
	IsPaused             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
