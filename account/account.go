// Package account implements the harness's account value type and the
// pluggable account-store abstraction used by the Stateful Context.
package account

import (
	"bytes"

	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// Account is the harness's value-type account representation. It is
// cloned freely; nothing in this package hands out a shared mutable
// backing array without an explicit Clone.
type Account struct {
	Lamports  uint64
	Data      []byte
	Owner     pubkey.Pubkey
	Executable bool
	RentEpoch uint64
}

// Default returns the zero-value account: no lamports, no data, owned by
// the default pubkey, not executable.
func Default() Account {
	return Account{}
}

// Clone returns a deep copy so callers can mutate Data without aliasing
// the original's backing array.
func (a Account) Clone() Account {
	out := a
	if a.Data != nil {
		out.Data = make([]byte, len(a.Data))
		copy(out.Data, a.Data)
	}
	return out
}

// Equal reports field-wise equality, used by the Compare Engine and by
// the Firedancer fixture codec's modified-account diffing.
func (a Account) Equal(b Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		a.RentEpoch == b.RentEpoch &&
		bytes.Equal(a.Data, b.Data)
}

// Entry pairs a pubkey with its account, the harness's fundamental
// ordered-vector element. Ordering of a slice of Entry is semantically
// significant wherever the harness produces resulting accounts.
type Entry struct {
	Key     pubkey.Pubkey
	Account Account
}

// Entries is an ordered slice of Entry, with helpers mirroring the small
// amount of lookup logic the Account Compiler and Harness Facade need.
type Entries []Entry

// Find returns the account for key and whether it was present.
func (e Entries) Find(key pubkey.Pubkey) (Account, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Account, true
		}
	}
	return Account{}, false
}

// Keys returns the ordered list of keys.
func (e Entries) Keys() []pubkey.Pubkey {
	out := make([]pubkey.Pubkey, len(e))
	for i, entry := range e {
		out[i] = entry.Key
	}
	return out
}

// Clone deep-copies the slice and every account within it.
func (e Entries) Clone() Entries {
	out := make(Entries, len(e))
	for i, entry := range e {
		out[i] = Entry{Key: entry.Key, Account: entry.Account.Clone()}
	}
	return out
}
