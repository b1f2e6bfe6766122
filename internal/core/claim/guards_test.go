package claim

import (
	"errors"
	"testing"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

var (
	receiver = identity.Identity{0xC1}
	escrow   = identity.Identity{0xC2}
	wallet   = identity.Identity{0xC3}
	other    = identity.Identity{0xC4}
)

// validContext builds a claim context for leaf 3 of a four-leaf tree.
func validContext(t *testing.T) ClaimContext {
	t.Helper()
	leaves := []merkle.Leaf{
		{Index: 0, Receiver: other, Amount: 10},
		{Index: 1, Receiver: other, Amount: 20},
		{Index: 2, Receiver: other, Amount: 30},
		{Index: 3, Receiver: receiver, Amount: 50},
	}
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	proof, err := tree.Proof(3)
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}

	return ClaimContext{
		EpochNr:          1,
		EpochExists:      true,
		IsApproved:       true,
		EpochAsset:       "MINT",
		Root:             tree.Root(),
		MaxTotalClaim:    1000,
		RequestedAsset:   "MINT",
		LeafIndex:        3,
		Receiver:         receiver,
		Amount:           50,
		Proof:            proof,
		Source:           escrow,
		Destination:      wallet,
		DestinationOwner: receiver,
	}
}

func TestCanClaim(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ClaimContext)
		wantAllowed bool
		wantKind    error
	}{
		{
			name:        "valid claim is allowed",
			mutate:      func(*ClaimContext) {},
			wantAllowed: true,
		},
		{
			name:     "paused program rejects claims",
			mutate:   func(c *ClaimContext) { c.IsPaused = true },
			wantKind: coreerrors.ErrShouldNotBePaused,
		},
		{
			name:     "missing epoch",
			mutate:   func(c *ClaimContext) { c.EpochExists = false },
			wantKind: coreerrors.ErrInvalidEpochNr,
		},
		{
			name:     "draft epoch",
			mutate:   func(c *ClaimContext) { c.IsApproved = false },
			wantKind: coreerrors.ErrEpochShouldBeApproved,
		},
		{
			name:     "wrong asset",
			mutate:   func(c *ClaimContext) { c.RequestedAsset = "OTHER" },
			wantKind: coreerrors.ErrInvalidMintAccount,
		},
		{
			name:     "replay reports already claimed before proof",
			mutate:   func(c *ClaimContext) { c.AlreadyClaimed = true; c.Proof = nil },
			wantKind: coreerrors.ErrDropAlreadyClaimed,
		},
		{
			name:     "inflated amount",
			mutate:   func(c *ClaimContext) { c.Amount = 51 },
			wantKind: coreerrors.ErrInvalidProof,
		},
		{
			name:     "different receiver",
			mutate:   func(c *ClaimContext) { c.Receiver = other; c.DestinationOwner = other },
			wantKind: coreerrors.ErrInvalidProof,
		},
		{
			name:     "tampered proof",
			mutate:   func(c *ClaimContext) { c.Proof[0][0] ^= 0x80 },
			wantKind: coreerrors.ErrInvalidProof,
		},
		{
			name:     "destination owned by someone else",
			mutate:   func(c *ClaimContext) { c.DestinationOwner = other },
			wantKind: coreerrors.ErrOwnerMismatch,
		},
		{
			name:     "destination is the escrow",
			mutate:   func(c *ClaimContext) { c.Destination = escrow },
			wantKind: coreerrors.ErrSameAccount,
		},
		{
			name:     "allocation exhausted",
			mutate:   func(c *ClaimContext) { c.TotalAmountClaimed = 960 },
			wantKind: coreerrors.ErrExceededMaxClaim,
		},
		{
			name:     "node limit reached",
			mutate:   func(c *ClaimContext) { c.MaxNumNodes = 2; c.NumNodesClaimed = 2 },
			wantKind: coreerrors.ErrExceededMaxNumNodes,
		},
		{
			name:        "node limit not yet reached",
			mutate:      func(c *ClaimContext) { c.MaxNumNodes = 3; c.NumNodesClaimed = 2 },
			wantAllowed: true,
		},
		{
			name:        "claim exactly fills allocation",
			mutate:      func(c *ClaimContext) { c.TotalAmountClaimed = 950 },
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := validContext(t)
			tt.mutate(&ctx)
			result := CanClaim(ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v (reason: %s)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if !tt.wantAllowed && !errors.Is(result.Error(), tt.wantKind) {
				t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
			}
		})
	}
}
