// Package merkle verifies Merkle inclusion proofs for reward entitlements.
//
// # Convention
//
// Leaves are keccak256(index ‖ receiver ‖ amount) where index and amount are
// 8-byte little-endian integers and receiver is the 32-byte identity.
//
// Interior nodes combine two children in sorted order: the bytewise smaller
// digest is hashed first. Proofs therefore carry only sibling digests, no
// left/right flags. Any off-chain tree builder must use the same rule; Tree in
// this package does.
package merkle

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"

	"github.com/example/rewards/internal/core/identity"
)

// HashSize is the byte length of a digest.
const HashSize = 32

// Hash is a 32-byte keccak256 digest.
type Hash [HashSize]byte

// Keccak256 hashes the concatenation of parts.
func Keccak256(parts ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// LeafHash returns the digest committed for a single entitlement.
func LeafHash(index uint64, receiver identity.Identity, amount uint64) Hash {
	var idx, amt [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)
	binary.LittleEndian.PutUint64(amt[:], amount)
	return Keccak256(idx[:], receiver[:], amt[:])
}

// HashPair combines two sibling digests, smaller first.
func HashPair(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return Keccak256(a[:], b[:])
	}
	return Keccak256(b[:], a[:])
}

// Verify reports whether leaf is included under root via proof.
func Verify(proof []Hash, root Hash, leaf Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}
	return computed == root
}

// ParseHash decodes a 0x-prefixed hex digest.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hexutil.Decode(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("invalid hash length %d, want %d", len(raw), HashSize)
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the 0x-prefixed hex form.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// IsZero reports whether h is all zero bytes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
