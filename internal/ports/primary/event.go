package primary

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/rewards/internal/core/identity"
)

// EventService defines the primary port for reading the notification outbox.
type EventService interface {
	// ListEvents lists notifications, oldest first.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)

	// MarkPublished acknowledges a notification.
	MarkPublished(ctx context.Context, eventID string) error
}

// EventFilters contains filter options for listing notifications.
type EventFilters struct {
	Deployment  identity.Identity
	EventType   string
	PendingOnly bool
	Limit       int
}

// Event represents a persisted notification at the port boundary.
type Event struct {
	ID          string
	Deployment  identity.Identity
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
	PublishedAt time.Time
}
