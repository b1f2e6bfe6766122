package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/ports/secondary"
)

// OutboxRepository implements secondary.OutboxWriter and
// secondary.OutboxRepository with SQLite.
type OutboxRepository struct {
	db DBTX
}

// NewOutboxRepository creates a new SQLite outbox repository.
func NewOutboxRepository(db DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Append persists a message. Inside a transaction it commits with the state change.
func (r *OutboxRepository) Append(ctx context.Context, message *secondary.OutboxMessage) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO events (id, deployment, event_type, payload, created_at) VALUES (?, ?, ?, ?, ?)",
		message.ID, message.Deployment.String(), message.EventType, string(message.Payload), message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// List retrieves messages matching the filters, oldest first.
func (r *OutboxRepository) List(ctx context.Context, filters secondary.OutboxFilters) ([]*secondary.OutboxMessage, error) {
	query := "SELECT id, deployment, event_type, payload, created_at, published_at FROM events"
	var (
		conditions []string
		args       []any
	)
	if !filters.Deployment.IsZero() {
		conditions = append(conditions, "deployment = ?")
		args = append(args, filters.Deployment.String())
	}
	if filters.EventType != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, filters.EventType)
	}
	if filters.PendingOnly {
		conditions = append(conditions, "published_at IS NULL")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, rowid ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.OutboxMessage
	for rows.Next() {
		var (
			deployment  string
			payload     string
			publishedAt sql.NullTime
		)
		m := &secondary.OutboxMessage{}
		if err := rows.Scan(&m.ID, &deployment, &m.EventType, &payload, &m.CreatedAt, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if m.Deployment, err = parseIdentity(deployment); err != nil {
			return nil, fmt.Errorf("failed to decode event deployment: %w", err)
		}
		m.Payload = []byte(payload)
		if publishedAt.Valid {
			m.PublishedAt = publishedAt.Time
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkPublished acknowledges a message.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, "UPDATE events SET published_at = ? WHERE id = ?", publishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark event published: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: event %s", coreerrors.ErrNotFound, id)
	}
	return nil
}

var (
	_ secondary.OutboxWriter     = (*OutboxRepository)(nil)
	_ secondary.OutboxRepository = (*OutboxRepository)(nil)
)
