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

// ClaimRepository implements secondary.ClaimRepository with SQLite.
// The primary key on the derived claim key makes Create first-writer-wins.
type ClaimRepository struct {
	db DBTX
}

// NewClaimRepository creates a new SQLite claim repository.
func NewClaimRepository(db DBTX) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = "key, deployment, epoch_nr, leaf_index, is_claimed, receiver, amount, claimed_at"

func scanClaim(row rowScanner) (*secondary.ClaimRecord, error) {
	var (
		key, deployment, receiver string
		epochNr, leaf, amount     int64
		isClaimed                 int
		claimedAt                 time.Time
	)
	if err := row.Scan(&key, &deployment, &epochNr, &leaf, &isClaimed, &receiver, &amount, &claimedAt); err != nil {
		return nil, err
	}

	record := &secondary.ClaimRecord{
		EpochNr:   u64(epochNr),
		LeafIndex: u64(leaf),
		IsClaimed: isClaimed == 1,
		Amount:    u64(amount),
		ClaimedAt: claimedAt,
	}
	if err := decodeIdentities(
		identityColumn{&record.Key, key},
		identityColumn{&record.Deployment, deployment},
		identityColumn{&record.Receiver, receiver},
	); err != nil {
		return nil, fmt.Errorf("failed to decode claim: %w", err)
	}
	return record, nil
}

// Get retrieves a claim by its derived key.
func (r *ClaimRepository) Get(ctx context.Context, key identity.Identity) (*secondary.ClaimRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+claimColumns+" FROM claims WHERE key = ?", key.String())
	record, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: claim %s", coreerrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return record, nil
}

// Exists checks whether a claim exists under key.
func (r *ClaimRepository) Exists(ctx context.Context, key identity.Identity) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM claims WHERE key = ?", key.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check claim: %w", err)
	}
	return count > 0, nil
}

// Create persists a claim, failing with ErrDropAlreadyClaimed on a second write.
func (r *ClaimRepository) Create(ctx context.Context, record *secondary.ClaimRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO claims ("+claimColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		record.Key.String(),
		record.Deployment.String(),
		i64(record.EpochNr),
		i64(record.LeafIndex),
		boolInt(record.IsClaimed),
		record.Receiver.String(),
		i64(record.Amount),
		record.ClaimedAt,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: leaf %d of epoch %d", coreerrors.ErrDropAlreadyClaimed, record.LeafIndex, record.EpochNr)
	}
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

// ListByEpoch retrieves the claims of one epoch ordered by leaf index.
func (r *ClaimRepository) ListByEpoch(ctx context.Context, deployment identity.Identity, epochNr uint64) ([]*secondary.ClaimRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+claimColumns+" FROM claims WHERE deployment = ? AND epoch_nr = ? ORDER BY leaf_index ASC",
		deployment.String(), i64(epochNr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*secondary.ClaimRecord
	for rows.Next() {
		record, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, record)
	}
	return claims, rows.Err()
}

var _ secondary.ClaimRepository = (*ClaimRepository)(nil)
