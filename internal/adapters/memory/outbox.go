package memory

import (
	"context"
	"fmt"
	"time"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/ports/secondary"
)

type outboxWriter struct{ s *state }

func (w outboxWriter) Append(ctx context.Context, message *secondary.OutboxMessage) error {
	w.s.outbox = append(w.s.outbox, *message)
	return nil
}

// List retrieves committed outbox messages, oldest first.
func (s *Store) List(ctx context.Context, filters secondary.OutboxFilters) ([]*secondary.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*secondary.OutboxMessage
	for _, m := range s.current.outbox {
		if !filters.Deployment.IsZero() && m.Deployment != filters.Deployment {
			continue
		}
		if filters.EventType != "" && m.EventType != filters.EventType {
			continue
		}
		if filters.PendingOnly && !m.PublishedAt.IsZero() {
			continue
		}
		out = append(out, &m)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

// MarkPublished acknowledges a committed outbox message.
func (s *Store) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.current.outbox {
		if s.current.outbox[i].ID == id {
			s.current.outbox[i].PublishedAt = publishedAt
			return nil
		}
	}
	return fmt.Errorf("%w: event %s", coreerrors.ErrNotFound, id)
}
