package account

import "github.com/mollusk-svm/mollusk-go/pubkey"

// Store is a pluggable keyed account map, grounded on the Rust harness's
// AccountStore trait: implementers back the Stateful Context with
// whatever persistence they like, so long as get/store/default-account
// behave like a map.
type Store interface {
	// DefaultAccount returns the account to use when pubkey is not
	// present. The default implementation (Map) returns the zero
	// account; callers needing rent-exempt defaults etc. can override.
	DefaultAccount(key pubkey.Pubkey) Account
	// GetAccount returns the stored account and whether it was found.
	GetAccount(key pubkey.Pubkey) (Account, bool)
	// StoreAccount persists account under key, replacing any prior value.
	StoreAccount(key pubkey.Pubkey, acct Account)
}

// Map is the default in-memory Store backed by a plain Go map. It is the
// harness's equivalent of the Rust blanket impl over HashMap<Pubkey, Account>.
type Map map[pubkey.Pubkey]Account

// NewMap returns an empty in-memory account store.
func NewMap() Map {
	return make(Map)
}

func (m Map) DefaultAccount(pubkey.Pubkey) Account {
	return Default()
}

func (m Map) GetAccount(key pubkey.Pubkey) (Account, bool) {
	a, ok := m[key]
	if !ok {
		return Account{}, false
	}
	return a.Clone(), true
}

func (m Map) StoreAccount(key pubkey.Pubkey, acct Account) {
	m[key] = acct.Clone()
}
