package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

// EpochRepository implements secondary.EpochRepository with SQLite.
type EpochRepository struct {
	db DBTX
}

// NewEpochRepository creates a new SQLite epoch repository.
func NewEpochRepository(db DBTX) *EpochRepository {
	return &EpochRepository{db: db}
}

const epochColumns = `key, deployment, epoch_nr, merkle_root, is_approved, asset_id, escrow,
	total_amount_claimed, num_nodes_claimed, max_total_claim, max_num_nodes, funded_amount,
	created_at, approved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpoch(row rowScanner) (*secondary.EpochRecord, error) {
	var (
		key, deployment, root, escrow string
		epochNr                       int64
		isApproved                    int
		total, nodes                  int64
		maxTotal, maxNodes, funded    int64
		createdAt                     time.Time
		approvedAt                    sql.NullTime
	)

	record := &secondary.EpochRecord{}
	err := row.Scan(&key, &deployment, &epochNr, &root, &isApproved, &record.AssetID, &escrow,
		&total, &nodes, &maxTotal, &maxNodes, &funded, &createdAt, &approvedAt)
	if err != nil {
		return nil, err
	}

	if err := decodeIdentities(
		identityColumn{&record.Key, key},
		identityColumn{&record.Deployment, deployment},
		identityColumn{&record.Escrow, escrow},
	); err != nil {
		return nil, fmt.Errorf("failed to decode epoch: %w", err)
	}
	if record.MerkleRoot, err = parseRoot(root); err != nil {
		return nil, fmt.Errorf("failed to decode epoch root: %w", err)
	}

	record.EpochNr = u64(epochNr)
	record.IsApproved = isApproved == 1
	record.TotalAmountClaimed = u64(total)
	record.NumNodesClaimed = u64(nodes)
	record.MaxTotalClaim = u64(maxTotal)
	record.MaxNumNodes = u64(maxNodes)
	record.FundedAmount = u64(funded)
	record.CreatedAt = createdAt
	if approvedAt.Valid {
		record.ApprovedAt = approvedAt.Time
	}
	return record, nil
}

// Get retrieves an epoch by its derived key.
func (r *EpochRepository) Get(ctx context.Context, key identity.Identity) (*secondary.EpochRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+epochColumns+" FROM epochs WHERE key = ?", key.String())
	record, err := scanEpoch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: epoch %s", coreerrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}
	return record, nil
}

// Exists checks whether an epoch exists under key.
func (r *EpochRepository) Exists(ctx context.Context, key identity.Identity) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM epochs WHERE key = ?", key.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check epoch: %w", err)
	}
	return count > 0, nil
}

// Create persists a new epoch.
func (r *EpochRepository) Create(ctx context.Context, record *secondary.EpochRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO epochs ("+epochColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.Key.String(),
		record.Deployment.String(),
		i64(record.EpochNr),
		record.MerkleRoot.String(),
		boolInt(record.IsApproved),
		record.AssetID,
		record.Escrow.String(),
		i64(record.TotalAmountClaimed),
		i64(record.NumNodesClaimed),
		i64(record.MaxTotalClaim),
		i64(record.MaxNumNodes),
		i64(record.FundedAmount),
		record.CreatedAt,
		nullTime(record.ApprovedAt),
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: epoch %d already exists", coreerrors.ErrInvalidEpochNr, record.EpochNr)
	}
	if err != nil {
		return fmt.Errorf("failed to create epoch: %w", err)
	}
	return nil
}

// Update overwrites the mutable epoch fields.
func (r *EpochRepository) Update(ctx context.Context, record *secondary.EpochRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE epochs SET merkle_root = ?, is_approved = ?, asset_id = ?, escrow = ?,
			total_amount_claimed = ?, num_nodes_claimed = ?, max_total_claim = ?, max_num_nodes = ?,
			funded_amount = ?, approved_at = ?
		WHERE key = ?`,
		record.MerkleRoot.String(),
		boolInt(record.IsApproved),
		record.AssetID,
		record.Escrow.String(),
		i64(record.TotalAmountClaimed),
		i64(record.NumNodesClaimed),
		i64(record.MaxTotalClaim),
		i64(record.MaxNumNodes),
		i64(record.FundedAmount),
		nullTime(record.ApprovedAt),
		record.Key.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update epoch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: epoch %s", coreerrors.ErrNotFound, record.Key)
	}
	return nil
}

// List retrieves epochs of a deployment ordered by epoch number.
func (r *EpochRepository) List(ctx context.Context, filters secondary.EpochFilters) ([]*secondary.EpochRecord, error) {
	query := "SELECT " + epochColumns + " FROM epochs WHERE deployment = ?"
	args := []any{filters.Deployment.String()}

	var conditions []string
	if filters.ApprovedOnly {
		conditions = append(conditions, "is_approved = 1")
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY epoch_nr ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list epochs: %w", err)
	}
	defer rows.Close()

	var epochs []*secondary.EpochRecord
	for rows.Next() {
		record, err := scanEpoch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan epoch: %w", err)
		}
		epochs = append(epochs, record)
	}
	return epochs, rows.Err()
}

var _ secondary.EpochRepository = (*EpochRepository)(nil)
