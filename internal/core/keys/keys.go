// Package keys derives deterministic storage keys from composite seeds.
// A derived key is unique per seed tuple, so existence of a record under a
// key doubles as the anti-replay check.
package keys

import (
	"encoding/binary"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// Seed prefixes. Changing any of these re-addresses every stored record.
const (
	epochSeed  = "EpochAccount"
	claimSeed  = "ClaimStatus"
	escrowSeed = "EpochEscrow"
	assetSeed  = "AssetAccount"
)

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func derive(parts ...[]byte) identity.Identity {
	return identity.Identity(merkle.Keccak256(parts...))
}

// EpochKey addresses the epoch record for (deployment, epochNr).
// The same key is the programmatic authority that signs escrow payouts.
func EpochKey(deployment identity.Identity, epochNr uint64) identity.Identity {
	return derive([]byte(epochSeed), deployment[:], le64(epochNr))
}

// ClaimKey addresses the claim record for (deployment, epochNr, leafIndex).
func ClaimKey(deployment identity.Identity, epochNr, leafIndex uint64) identity.Identity {
	epoch := EpochKey(deployment, epochNr)
	return derive([]byte(claimSeed), deployment[:], le64(leafIndex), epoch[:])
}

// EscrowAccount addresses the asset account holding an epoch's funds.
func EscrowAccount(epochKey identity.Identity, asset string) identity.Identity {
	return derive([]byte(escrowSeed), epochKey[:], []byte(asset))
}

// AssetAccount addresses the default asset account of owner.
func AssetAccount(owner identity.Identity, asset string) identity.Identity {
	return derive([]byte(assetSeed), owner[:], []byte(asset))
}
