// Package pubkey implements the 32-byte opaque account identifier used
// throughout the harness, along with the small set of well-known system
// addresses (native loader, BPF loader variants, instructions sysvar) that
// the Account Compiler and Program Cache need to recognize by value.
package pubkey

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the fixed length of a Pubkey in bytes.
const Size = 32

// Pubkey is a 32-byte opaque identifier. Equality is by bytes, which makes
// it directly usable as a map key.
type Pubkey [Size]byte

// Default is the all-zero pubkey, used as an Account's default owner.
var Default Pubkey

// New builds a Pubkey from a byte slice. It panics if b is not exactly
// Size bytes long, mirroring the harness's "programmer error aborts"
// posture for malformed setup data.
func New(b []byte) Pubkey {
	if len(b) != Size {
		panic(fmt.Sprintf("pubkey: invalid length %d, want %d", len(b), Size))
	}
	var p Pubkey
	copy(p[:], b)
	return p
}

// FromBase58 decodes a base58-encoded Solana-style address.
func FromBase58(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("pubkey: decode base58: %w", err)
	}
	if len(b) != Size {
		return Pubkey{}, fmt.Errorf("pubkey: decoded length %d, want %d", len(b), Size)
	}
	return New(b), nil
}

// String renders the pubkey the way Solana tooling does: base58.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// Hex renders the raw bytes as hex, useful in diagnostic logging where
// base58's variable width is inconvenient to scan.
func (p Pubkey) Hex() string {
	return hex.EncodeToString(p[:])
}

// IsDefault reports whether p is the zero pubkey.
func (p Pubkey) IsDefault() bool {
	return p == Default
}

// Bytes returns a copy of the underlying 32 bytes.
func (p Pubkey) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, p[:])
	return out
}

// uniqueCounter is a monotonic counter backing NewUnique. Solana's own test
// helper (Pubkey::new_unique) increments a static atomic counter rather
// than drawing randomness, so fixture-derived tests stay reproducible.
var uniqueCounter uint64

// NewUnique returns a pubkey derived from a monotonically increasing
// counter, encoded into the low 8 bytes. It is meant for synthetic test
// setup (e.g. mock epoch-stake vote accounts), not production addresses.
func NewUnique() Pubkey {
	uniqueCounter++
	var p Pubkey
	n := uniqueCounter
	for i := Size - 1; i >= Size-8; i-- {
		p[i] = byte(n)
		n >>= 8
	}
	return p
}
