package app

import (
	"context"
	"fmt"
	"strings"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

// EventServiceImpl implements the EventService interface.
type EventServiceImpl struct {
	outbox secondary.OutboxRepository
	clock  secondary.Clock
}

// NewEventService creates a new EventService with injected dependencies.
func NewEventService(outbox secondary.OutboxRepository, clock secondary.Clock) *EventServiceImpl {
	return &EventServiceImpl{outbox: outbox, clock: resolveClock(clock)}
}

// ListEvents lists notifications, oldest first.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	messages, err := s.outbox.List(ctx, secondary.OutboxFilters{
		Deployment:  filters.Deployment,
		EventType:   filters.EventType,
		PendingOnly: filters.PendingOnly,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]*primary.Event, len(messages))
	for i, m := range messages {
		out[i] = eventToPort(m)
	}
	return out, nil
}

// MarkPublished acknowledges a notification.
func (s *EventServiceImpl) MarkPublished(ctx context.Context, eventID string) error {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", coreerrors.ErrInvalidInput)
	}
	return s.outbox.MarkPublished(ctx, eventID, s.clock.Now())
}

var _ primary.EventService = (*EventServiceImpl)(nil)
