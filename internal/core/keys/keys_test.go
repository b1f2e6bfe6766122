package keys

import (
	"testing"

	"github.com/example/rewards/internal/core/identity"
)

func TestEpochKeyIsDeterministic(t *testing.T) {
	dep := identity.Identity{1}
	if EpochKey(dep, 1) != EpochKey(dep, 1) {
		t.Error("expected identical keys for identical seeds")
	}
}

func TestKeysAreUniquePerSeed(t *testing.T) {
	depA := identity.Identity{1}
	depB := identity.Identity{2}

	seen := map[identity.Identity]string{}
	record := func(name string, key identity.Identity) {
		t.Helper()
		if prev, ok := seen[key]; ok {
			t.Fatalf("key collision between %s and %s", prev, name)
		}
		seen[key] = name
	}

	for epochNr := uint64(1); epochNr <= 3; epochNr++ {
		record("epoch A", EpochKey(depA, epochNr))
		record("epoch B", EpochKey(depB, epochNr))
		for leaf := uint64(0); leaf < 4; leaf++ {
			record("claim A", ClaimKey(depA, epochNr, leaf))
			record("claim B", ClaimKey(depB, epochNr, leaf))
		}
		record("escrow A", EscrowAccount(EpochKey(depA, epochNr), "MINT"))
	}
	record("account A", AssetAccount(depA, "MINT"))
	record("account A other", AssetAccount(depA, "OTHER"))
}

func TestClaimKeyDependsOnEpoch(t *testing.T) {
	dep := identity.Identity{7}
	if ClaimKey(dep, 1, 0) == ClaimKey(dep, 2, 0) {
		t.Error("same leaf in different epochs must not share a claim key")
	}
}
