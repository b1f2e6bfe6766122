package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

// GovernanceRepository implements secondary.GovernanceRepository with SQLite.
type GovernanceRepository struct {
	db DBTX
}

// NewGovernanceRepository creates a new SQLite governance repository.
func NewGovernanceRepository(db DBTX) *GovernanceRepository {
	return &GovernanceRepository{db: db}
}

// Get retrieves the governance record of a deployment.
func (r *GovernanceRepository) Get(ctx context.Context, deployment identity.Identity) (*secondary.GovernanceRecord, error) {
	var (
		manager, agent       string
		proposed             sql.NullString
		epochNr, approved    int64
		epochLength          int64
		isPaused             int
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT manager, proposed_manager, agent, current_epoch_nr, current_approved_epoch,
			epoch_length, is_paused, created_at, updated_at
		FROM governance WHERE deployment = ?`,
		deployment.String(),
	).Scan(&manager, &proposed, &agent, &epochNr, &approved, &epochLength, &isPaused, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: governance %s", coreerrors.ErrNotFound, deployment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get governance: %w", err)
	}

	record := &secondary.GovernanceRecord{
		Deployment:           deployment,
		CurrentEpochNr:       u64(epochNr),
		CurrentApprovedEpoch: u64(approved),
		EpochLength:          u64(epochLength),
		IsPaused:             isPaused == 1,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}
	if err := decodeIdentities(
		identityColumn{&record.Manager, manager},
		identityColumn{&record.Agent, agent},
		identityColumn{&record.ProposedManager, proposed.String},
	); err != nil {
		return nil, fmt.Errorf("failed to decode governance: %w", err)
	}

	return record, nil
}

// Exists checks whether a deployment has been initialized.
func (r *GovernanceRepository) Exists(ctx context.Context, deployment identity.Identity) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM governance WHERE deployment = ?", deployment.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check governance: %w", err)
	}
	return count > 0, nil
}

// Create persists a new governance record.
func (r *GovernanceRepository) Create(ctx context.Context, record *secondary.GovernanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO governance (deployment, manager, proposed_manager, agent, current_epoch_nr,
			current_approved_epoch, epoch_length, is_paused, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Deployment.String(),
		record.Manager.String(),
		nullIdentity(record.ProposedManager),
		record.Agent.String(),
		i64(record.CurrentEpochNr),
		i64(record.CurrentApprovedEpoch),
		i64(record.EpochLength),
		boolInt(record.IsPaused),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: deployment %s", coreerrors.ErrAlreadyInitialized, record.Deployment)
	}
	if err != nil {
		return fmt.Errorf("failed to create governance: %w", err)
	}
	return nil
}

// Update overwrites the mutable governance fields.
func (r *GovernanceRepository) Update(ctx context.Context, record *secondary.GovernanceRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE governance SET manager = ?, proposed_manager = ?, agent = ?, current_epoch_nr = ?,
			current_approved_epoch = ?, epoch_length = ?, is_paused = ?, updated_at = ?
		WHERE deployment = ?`,
		record.Manager.String(),
		nullIdentity(record.ProposedManager),
		record.Agent.String(),
		i64(record.CurrentEpochNr),
		i64(record.CurrentApprovedEpoch),
		i64(record.EpochLength),
		boolInt(record.IsPaused),
		record.UpdatedAt,
		record.Deployment.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update governance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: governance %s", coreerrors.ErrNotFound, record.Deployment)
	}
	return nil
}

var _ secondary.GovernanceRepository = (*GovernanceRepository)(nil)
