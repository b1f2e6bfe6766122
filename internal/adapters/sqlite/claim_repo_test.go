package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/rewards/internal/adapters/sqlite"
	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ports/secondary"
)

func newClaim(epochNr, leaf, amount uint64) *secondary.ClaimRecord {
	return &secondary.ClaimRecord{
		Key:        keys.ClaimKey(testDeployment, epochNr, leaf),
		Deployment: testDeployment,
		EpochNr:    epochNr,
		LeafIndex:  leaf,
		IsClaimed:  true,
		Receiver:   identity.Identity{0xB0, byte(leaf)},
		Amount:     amount,
		ClaimedAt:  testNow,
	}
}

func TestClaimRepository_FirstWriterWins(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClaimRepository(db)
	ctx := context.Background()

	first := newClaim(1, 7, 100)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := newClaim(1, 7, 999)
	if err := repo.Create(ctx, second); !errors.Is(err, coreerrors.ErrDropAlreadyClaimed) {
		t.Fatalf("expected ErrDropAlreadyClaimed, got %v", err)
	}

	got, err := repo.Get(ctx, first.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Amount != 100 || got.Receiver != first.Receiver || !got.IsClaimed {
		t.Errorf("expected first write to survive, got %+v", got)
	}
	if !got.ClaimedAt.Equal(testNow) {
		t.Errorf("expected claimed_at %v, got %v", testNow, got.ClaimedAt)
	}
}

func TestClaimRepository_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClaimRepository(db)
	ctx := context.Background()

	key := keys.ClaimKey(testDeployment, 1, 0)
	exists, err := repo.Exists(ctx, key)
	if err != nil || exists {
		t.Fatalf("expected no claim, got %v (err %v)", exists, err)
	}
	if _, err := repo.Get(ctx, key); !errors.Is(err, coreerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Create(ctx, newClaim(1, 0, 5)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	exists, err = repo.Exists(ctx, key)
	if err != nil || !exists {
		t.Errorf("expected claim to exist, got %v (err %v)", exists, err)
	}

	// Same leaf in another epoch is a different key.
	exists, _ = repo.Exists(ctx, keys.ClaimKey(testDeployment, 2, 0))
	if exists {
		t.Error("claim leaked across epochs")
	}
}

func TestClaimRepository_ListByEpoch(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewClaimRepository(db)
	ctx := context.Background()

	for _, c := range []*secondary.ClaimRecord{newClaim(1, 5, 1), newClaim(1, 2, 1), newClaim(2, 0, 1)} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	claims, err := repo.ListByEpoch(ctx, testDeployment, 1)
	if err != nil {
		t.Fatalf("ListByEpoch failed: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].LeafIndex != 2 || claims[1].LeafIndex != 5 {
		t.Errorf("expected leaf order [2 5], got [%d %d]", claims[0].LeafIndex, claims[1].LeafIndex)
	}
}
