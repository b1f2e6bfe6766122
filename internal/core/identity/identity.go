// Package identity defines the 32-byte identity used for managers, agents,
// receivers, deployments and derived epoch authorities.
package identity

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the byte length of an Identity.
const Size = 32

// Identity is a 32-byte account identity. The zero value means "none".
type Identity [Size]byte

// Zero is the empty identity.
var Zero Identity

// FromBytes copies b into an Identity. b must be exactly Size bytes.
func FromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != Size {
		return id, fmt.Errorf("invalid identity length %d, want %d", len(b), Size)
	}
	copy(id[:], b)
	return id, nil
}

// Parse decodes a base58 identity string.
func Parse(s string) (Identity, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	return FromBytes(raw)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the empty identity.
func (id Identity) IsZero() bool {
	return id == Zero
}

// Bytes returns a copy of the identity bytes.
func (id Identity) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, id[:])
	return out
}

// Compare orders identities bytewise.
func (id Identity) Compare(other Identity) int {
	return bytes.Compare(id[:], other[:])
}

// String returns the base58 form. The zero identity renders as an empty string.
func (id Identity) String() string {
	if id.IsZero() {
		return ""
	}
	return base58.Encode(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields Zero.
func (id *Identity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = Zero
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
