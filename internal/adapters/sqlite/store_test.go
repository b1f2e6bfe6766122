package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/rewards/internal/adapters/sqlite"
	"github.com/example/rewards/internal/ports/secondary"
)

func TestStore_WithinTxCommits(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewStore(db)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx secondary.Tx) error {
		if err := tx.Assets().CreateAsset(ctx, "MINT", 0); err != nil {
			return err
		}
		_, err := tx.Assets().Mint(ctx, alice, "MINT", 10)
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	var balance uint64
	err = store.View(ctx, func(tx secondary.Tx) error {
		account, err := tx.Assets().GetOrCreateAccount(ctx, alice, "MINT")
		if err != nil {
			return err
		}
		balance = account.Balance
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if balance != 10 {
		t.Errorf("expected committed balance 10, got %d", balance)
	}
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx secondary.Tx) error {
		if err := tx.Assets().CreateAsset(ctx, "MINT", 0); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, &secondary.OutboxMessage{ID: "e1", Deployment: testDeployment, EventType: "x", Payload: []byte("{}"), CreatedAt: testNow}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var assets, events int
	if err := db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&assets); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&events); err != nil {
		t.Fatal(err)
	}
	if assets != 0 || events != 0 {
		t.Errorf("expected rollback, found %d assets and %d events", assets, events)
	}
}

func TestStore_ViewDiscardsWrites(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewStore(db)
	ctx := context.Background()

	err := store.View(ctx, func(tx secondary.Tx) error {
		return tx.Assets().CreateAsset(ctx, "MINT", 0)
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected View writes to be discarded, found %d assets", count)
	}
}
