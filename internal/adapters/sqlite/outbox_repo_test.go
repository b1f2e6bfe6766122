package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/rewards/internal/adapters/sqlite"
	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

func TestOutboxRepository_AppendListAck(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewOutboxRepository(db)
	ctx := context.Background()

	other := identity.Identity{0xD1}
	messages := []*secondary.OutboxMessage{
		{ID: "e1", Deployment: testDeployment, EventType: "initialized", Payload: []byte(`{"a":1}`), CreatedAt: testNow},
		{ID: "e2", Deployment: testDeployment, EventType: "epoch_created", Payload: []byte(`{}`), CreatedAt: testNow},
		{ID: "e3", Deployment: other, EventType: "initialized", Payload: []byte(`{}`), CreatedAt: testNow},
	}
	for _, m := range messages {
		if err := repo.Append(ctx, m); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.List(ctx, secondary.OutboxFilters{Deployment: testDeployment})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Fatalf("expected [e1 e2] in insertion order, got %v", ids(got))
	}
	if string(got[0].Payload) != `{"a":1}` {
		t.Errorf("payload not round-tripped: %s", got[0].Payload)
	}

	byType, _ := repo.List(ctx, secondary.OutboxFilters{EventType: "initialized"})
	if len(byType) != 2 {
		t.Errorf("expected 2 initialized events, got %v", ids(byType))
	}

	if err := repo.MarkPublished(ctx, "e1", testNow); err != nil {
		t.Fatalf("MarkPublished failed: %v", err)
	}
	pending, _ := repo.List(ctx, secondary.OutboxFilters{PendingOnly: true})
	if len(pending) != 2 || pending[0].ID != "e2" {
		t.Errorf("expected [e2 e3] pending, got %v", ids(pending))
	}

	all, _ := repo.List(ctx, secondary.OutboxFilters{Limit: 1})
	if len(all) != 1 || !all[0].PublishedAt.Equal(testNow) {
		t.Errorf("expected e1 published at %v, got %+v", testNow, all)
	}

	if err := repo.MarkPublished(ctx, "missing", testNow); !errors.Is(err, coreerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func ids(messages []*secondary.OutboxMessage) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}
