package account

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/stretchr/testify/require"
)

func TestCloneDoesNotAliasData(t *testing.T) {
	a := Account{Lamports: 1, Data: []byte{1, 2, 3}}
	b := a.Clone()
	b.Data[0] = 99
	require.NotEqual(t, a.Data[0], b.Data[0])
}

func TestEqual(t *testing.T) {
	a := Account{Lamports: 5, Data: []byte{1, 2}, Owner: pubkey.SystemProgram}
	b := a.Clone()
	require.True(t, a.Equal(b))

	b.Lamports = 6
	require.False(t, a.Equal(b))
}

func TestEntriesFind(t *testing.T) {
	key := pubkey.NewUnique()
	entries := Entries{{Key: key, Account: Account{Lamports: 10}}}
	got, ok := entries.Find(key)
	require.True(t, ok)
	require.Equal(t, uint64(10), got.Lamports)

	_, ok = entries.Find(pubkey.NewUnique())
	require.False(t, ok)
}

func TestEntriesCloneIsDeep(t *testing.T) {
	key := pubkey.NewUnique()
	orig := Entries{{Key: key, Account: Account{Data: []byte{1}}}}
	cloned := orig.Clone()
	cloned[0].Account.Data[0] = 9
	require.NotEqual(t, orig[0].Account.Data[0], cloned[0].Account.Data[0])
}

func TestMapStoreRoundTrip(t *testing.T) {
	m := NewMap()
	key := pubkey.NewUnique()
	m.StoreAccount(key, Account{Lamports: 42})

	got, ok := m.GetAccount(key)
	require.True(t, ok)
	require.Equal(t, uint64(42), got.Lamports)

	_, ok = m.GetAccount(pubkey.NewUnique())
	require.False(t, ok)

	require.Equal(t, uint64(0), m.DefaultAccount(pubkey.NewUnique()).Lamports)
}
