package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/rewards/internal/ports/primary"
)

// EventAdapter translates CLI operations to EventService calls.
type EventAdapter struct {
	service primary.EventService
	out     io.Writer
}

// NewEventAdapter creates a new EventAdapter with the given service.
func NewEventAdapter(service primary.EventService, out io.Writer) *EventAdapter {
	return &EventAdapter{
		service: service,
		out:     out,
	}
}

// List lists notifications.
func (a *EventAdapter) List(ctx context.Context, filters primary.EventFilters) error {
	evs, err := a.service.ListEvents(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if len(evs) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCREATED\tSTATE\tPAYLOAD")
	for _, ev := range evs {
		state := color.New(color.FgYellow).Sprint("pending")
		if !ev.PublishedAt.IsZero() {
			state = color.New(color.FgGreen).Sprint("published")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ev.ID, ev.EventType, ev.CreatedAt.Format("2006-01-02 15:04:05"), state, ev.Payload)
	}
	return w.Flush()
}

// Ack marks a notification as published.
func (a *EventAdapter) Ack(ctx context.Context, eventID string) error {
	if err := a.service.MarkPublished(ctx, eventID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Event %s acknowledged\n", eventID)
	return nil
}
