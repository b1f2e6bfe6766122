package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/rewards/internal/adapters/sqlite"
	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ports/secondary"
)

func TestEpochRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedGovernance(t, db, 1, 0)
	repo := sqlite.NewEpochRepository(db)
	ctx := context.Background()

	key := keys.EpochKey(testDeployment, 1)
	record := &secondary.EpochRecord{
		Key:         key,
		Deployment:  testDeployment,
		EpochNr:     1,
		MerkleRoot:  merkle.Hash{0xAB},
		AssetID:     "MINT",
		Escrow:      keys.EscrowAccount(key, "MINT"),
		MaxNumNodes: 10,
		CreatedAt:   testNow,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.MerkleRoot != record.MerkleRoot || got.Escrow != record.Escrow || got.MaxNumNodes != 10 {
		t.Errorf("fields not round-tripped: %+v", got)
	}
	if got.IsApproved || !got.ApprovedAt.IsZero() {
		t.Errorf("expected draft with no approval time, got %+v", got)
	}

	if err := repo.Create(ctx, record); !errors.Is(err, coreerrors.ErrInvalidEpochNr) {
		t.Errorf("expected ErrInvalidEpochNr on duplicate, got %v", err)
	}
}

func TestEpochRepository_UpdateLargeAmounts(t *testing.T) {
	db := setupTestDB(t)
	seedGovernance(t, db, 1, 0)
	key := seedEpoch(t, db, 1, merkle.Hash{1})
	repo := sqlite.NewEpochRepository(db)
	ctx := context.Background()

	record, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// Above the signed 64-bit range.
	const big = uint64(1) << 63
	record.IsApproved = true
	record.FundedAmount = big + 5
	record.MaxTotalClaim = big + 5
	record.TotalAmountClaimed = big
	record.ApprovedAt = testNow
	if err := repo.Update(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.Get(ctx, key)
	if got.FundedAmount != big+5 || got.TotalAmountClaimed != big {
		t.Errorf("unsigned amounts not preserved: funded=%d total=%d", got.FundedAmount, got.TotalAmountClaimed)
	}
	if !got.IsApproved || !got.ApprovedAt.Equal(testNow) {
		t.Errorf("approval not persisted: %+v", got)
	}
}

func TestEpochRepository_List(t *testing.T) {
	db := setupTestDB(t)
	seedGovernance(t, db, 3, 2)
	for nr := uint64(3); nr >= 1; nr-- {
		seedEpoch(t, db, nr, merkle.Hash{byte(nr)})
	}
	if _, err := db.Exec("UPDATE epochs SET is_approved = 1 WHERE epoch_nr <= 2"); err != nil {
		t.Fatal(err)
	}
	repo := sqlite.NewEpochRepository(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters secondary.EpochFilters
		want    []uint64
	}{
		{name: "all ordered", filters: secondary.EpochFilters{Deployment: testDeployment}, want: []uint64{1, 2, 3}},
		{name: "approved only", filters: secondary.EpochFilters{Deployment: testDeployment, ApprovedOnly: true}, want: []uint64{1, 2}},
		{name: "limit", filters: secondary.EpochFilters{Deployment: testDeployment, Limit: 1}, want: []uint64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d epochs, got %d", len(tt.want), len(got))
			}
			for i, nr := range tt.want {
				if got[i].EpochNr != nr {
					t.Errorf("position %d: expected epoch %d, got %d", i, nr, got[i].EpochNr)
				}
			}
		})
	}
}
