package secondary

import (
	"context"
	"time"

	"github.com/example/rewards/internal/core/identity"
)

// OutboxWriter appends notifications inside the current transaction.
type OutboxWriter interface {
	Append(ctx context.Context, message *OutboxMessage) error
}

// OutboxRepository reads and acknowledges persisted notifications.
type OutboxRepository interface {
	// List retrieves messages matching the filters, oldest first.
	List(ctx context.Context, filters OutboxFilters) ([]*OutboxMessage, error)

	// MarkPublished acknowledges a message.
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// OutboxMessage is a notification row persisted with the state change it describes.
type OutboxMessage struct {
	ID          string
	Deployment  identity.Identity
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt time.Time // Zero while pending
}

// OutboxFilters contains filter options for querying messages.
type OutboxFilters struct {
	Deployment  identity.Identity
	EventType   string
	PendingOnly bool
	Limit       int
}
