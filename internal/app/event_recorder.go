package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/rewards/internal/core/events"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

// EventRecorder persists notifications inside the caller's transaction.
// This is the only place core events become outbox rows.
type EventRecorder interface {
	Record(ctx context.Context, tx secondary.Tx, deployment identity.Identity, evs ...events.Event) error
}

// OutboxEventRecorder implements EventRecorder on top of the transactional outbox.
type OutboxEventRecorder struct {
	clock secondary.Clock
	newID func() string
}

// NewEventRecorder creates a new OutboxEventRecorder.
func NewEventRecorder(clock secondary.Clock) *OutboxEventRecorder {
	return &OutboxEventRecorder{clock: resolveClock(clock), newID: uuid.NewString}
}

// Record appends each event, in order, to the transaction's outbox.
func (r *OutboxEventRecorder) Record(ctx context.Context, tx secondary.Tx, deployment identity.Identity, evs ...events.Event) error {
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", ev.EventType(), err)
		}
		msg := &secondary.OutboxMessage{
			ID:         r.newID(),
			Deployment: deployment,
			EventType:  ev.EventType(),
			Payload:    payload,
			CreatedAt:  r.clock.Now(),
		}
		if err := tx.Outbox().Append(ctx, msg); err != nil {
			return fmt.Errorf("failed to record %s event: %w", ev.EventType(), err)
		}
	}
	return nil
}
