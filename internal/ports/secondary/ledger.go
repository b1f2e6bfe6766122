package secondary

import (
	"context"
	"time"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// Store defines the secondary port for transactional ledger persistence.
// Every public operation runs inside exactly one WithinTx call.
type Store interface {
	// WithinTx runs fn against a consistent snapshot. If fn returns nil, every
	// write made through tx is applied atomically; otherwise none is.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn against a read-only snapshot.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Governance() GovernanceRepository
	Epochs() EpochRepository
	Claims() ClaimRepository
	Assets() AssetLedger
	Outbox() OutboxWriter
}

// GovernanceRepository defines the secondary port for the singleton governance record.
type GovernanceRepository interface {
	// Get retrieves the governance record for a deployment.
	// Returns an error wrapping ErrNotFound when the deployment is not initialized.
	Get(ctx context.Context, deployment identity.Identity) (*GovernanceRecord, error)

	// Exists checks whether a deployment has been initialized.
	Exists(ctx context.Context, deployment identity.Identity) (bool, error)

	// Create persists a new governance record.
	Create(ctx context.Context, record *GovernanceRecord) error

	// Update overwrites the mutable governance fields.
	Update(ctx context.Context, record *GovernanceRecord) error
}

// GovernanceRecord represents the governance singleton as stored in persistence.
type GovernanceRecord struct {
	Deployment           identity.Identity
	Manager              identity.Identity
	ProposedManager      identity.Identity // Zero means no transfer pending
	Agent                identity.Identity
	CurrentEpochNr       uint64
	CurrentApprovedEpoch uint64
	EpochLength          uint64
	IsPaused             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EpochRepository defines the secondary port for epoch persistence.
type EpochRepository interface {
	// Get retrieves an epoch by its derived key.
	// Returns an error wrapping ErrNotFound when absent.
	Get(ctx context.Context, key identity.Identity) (*EpochRecord, error)

	// Exists checks whether an epoch exists under key.
	Exists(ctx context.Context, key identity.Identity) (bool, error)

	// Create persists a new epoch. Fails if the key is taken.
	Create(ctx context.Context, record *EpochRecord) error

	// Update overwrites the mutable epoch fields.
	Update(ctx context.Context, record *EpochRecord) error

	// List retrieves epochs of a deployment ordered by epoch number.
	List(ctx context.Context, filters EpochFilters) ([]*EpochRecord, error)
}

// EpochRecord represents an epoch as stored in persistence.
type EpochRecord struct {
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
	MaxNumNodes        uint64 // 0 means unbounded
	FundedAmount       uint64
	CreatedAt          time.Time
	ApprovedAt         time.Time // Zero while draft
}

// EpochFilters contains filter options for querying epochs.
type EpochFilters struct {
	Deployment   identity.Identity
	ApprovedOnly bool
	Limit        int
}

// ClaimRepository defines the secondary port for claim records.
type ClaimRepository interface {
	// Get retrieves a claim by its derived key.
	// Returns an error wrapping ErrNotFound when absent.
	Get(ctx context.Context, key identity.Identity) (*ClaimRecord, error)

	// Exists checks whether a claim exists under key.
	Exists(ctx context.Context, key identity.Identity) (bool, error)

	// Create persists a claim. First writer wins: a second Create for the
	// same key fails with an error wrapping ErrDropAlreadyClaimed.
	Create(ctx context.Context, record *ClaimRecord) error

	// ListByEpoch retrieves the claims of one epoch ordered by leaf index.
	ListByEpoch(ctx context.Context, deployment identity.Identity, epochNr uint64) ([]*ClaimRecord, error)
}

// ClaimRecord represents a claim as stored in persistence. It is never
// updated or deleted once created.
type ClaimRecord struct {
	Key        identity.Identity
	Deployment identity.Identity
	EpochNr    uint64
	LeafIndex  uint64
	IsClaimed  bool
	Receiver   identity.Identity
	ClaimedAt  time.Time
	Amount     uint64
}

// Clock abstracts wall-clock time.
type Clock interface {
	Now() time.Time
}
