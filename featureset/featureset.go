// Package featureset models the runtime's activated-feature set: a set
// of feature IDs (themselves just Pubkeys) that gate behavior elsewhere
// in the harness (compute budget defaults).
package featureset

import "github.com/mollusk-svm/mollusk-go/pubkey"

// FeatureSet is an immutable-by-convention set of activated feature IDs.
// The zero value is the empty set, matching the native fixture format's
// "missing feature set defaults to empty" rule.
type FeatureSet struct {
	active map[pubkey.Pubkey]struct{}
}

// New returns an empty feature set.
func New() FeatureSet {
	return FeatureSet{active: make(map[pubkey.Pubkey]struct{})}
}

// Clone deep-copies the set.
func (f FeatureSet) Clone() FeatureSet {
	out := New()
	for k := range f.active {
		out.active[k] = struct{}{}
	}
	return out
}

// Activate marks id as active.
func (f FeatureSet) Activate(id pubkey.Pubkey) {
	f.active[id] = struct{}{}
}

// IsActive reports whether id is active.
func (f FeatureSet) IsActive(id pubkey.Pubkey) bool {
	if f.active == nil {
		return false
	}
	_, ok := f.active[id]
	return ok
}

// Keys returns the active feature IDs in no particular order; callers
// needing determinism (e.g. the fixture codec) should sort the result.
func (f FeatureSet) Keys() []pubkey.Pubkey {
	out := make([]pubkey.Pubkey, 0, len(f.active))
	for k := range f.active {
		out = append(out, k)
	}
	return out
}

// MarshalBinary lets encoding/gob carry a FeatureSet: the active IDs,
// concatenated in no particular order.
func (f FeatureSet) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(f.active)*pubkey.Size)
	for k := range f.active {
		out = append(out, k[:]...)
	}
	return out, nil
}

// UnmarshalBinary reverses MarshalBinary.
func (f *FeatureSet) UnmarshalBinary(data []byte) error {
	*f = New()
	for i := 0; i+pubkey.Size <= len(data); i += pubkey.Size {
		f.active[pubkey.New(data[i:i+pubkey.Size])] = struct{}{}
	}
	return nil
}

// Well-known feature IDs the compute budget defaulting logic consults.
var (
	SIMDComputeUnitDefault = pubkey.NewUnique()
	SIMDHeapSizeDefault    = pubkey.NewUnique()
)
