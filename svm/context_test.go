package svm

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/engine/builtin"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/stretchr/testify/require"
)

func TestContextPersistsOnSuccess(t *testing.T) {
	m := New(builtin.New())
	store := account.NewMap()
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	store.StoreAccount(from, account.Account{Lamports: 1000})
	store.StoreAccount(to, account.Account{Lamports: 0})

	ctx := NewContext(m, store)
	res := ctx.ProcessInstruction(transferIx(from, to, 400))
	require.False(t, res.ProgramResult.IsErr())

	gotFrom, ok := store.GetAccount(from)
	require.True(t, ok)
	require.Equal(t, uint64(600), gotFrom.Lamports)

	gotTo, ok := store.GetAccount(to)
	require.True(t, ok)
	require.Equal(t, uint64(400), gotTo.Lamports)
}

func TestContextDoesNotPersistOnFailure(t *testing.T) {
	m := New(builtin.New())
	store := account.NewMap()
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	store.StoreAccount(from, account.Account{Lamports: 10})
	store.StoreAccount(to, account.Account{Lamports: 0})

	ctx := NewContext(m, store)
	res := ctx.ProcessInstruction(transferIx(from, to, 400))
	require.True(t, res.ProgramResult.IsErr())

	gotFrom, _ := store.GetAccount(from)
	require.Equal(t, uint64(10), gotFrom.Lamports)
}

func TestContextHydratesUnknownKeysFromDefault(t *testing.T) {
	m := New(builtin.New())
	store := account.NewMap()
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	store.StoreAccount(from, account.Account{Lamports: 1000})
	// `to` is never stored: it must hydrate from the store's default
	// account (zero value), not error out.

	ctx := NewContext(m, store)
	res := ctx.ProcessInstruction(transferIx(from, to, 250))
	require.False(t, res.ProgramResult.IsErr())

	gotTo, ok := store.GetAccount(to)
	require.True(t, ok)
	require.Equal(t, uint64(250), gotTo.Lamports)
}

func TestContextChainPersistsAcrossCalls(t *testing.T) {
	m := New(builtin.New())
	store := account.NewMap()
	a, b, c := pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique()
	store.StoreAccount(a, account.Account{Lamports: 1000})

	ctx := NewContext(m, store)
	ctx.ProcessInstruction(transferIx(a, b, 300))
	ctx.ProcessInstruction(transferIx(b, c, 100))

	gotB, _ := store.GetAccount(b)
	gotC, _ := store.GetAccount(c)
	require.Equal(t, uint64(200), gotB.Lamports)
	require.Equal(t, uint64(100), gotC.Lamports)
}

func TestHydrateStoreLoadsSysvarAndProgramStubs(t *testing.T) {
	m := New(builtin.New())
	store := account.NewMap()
	ctx := NewContext(m, store)
	ctx.HydrateStore()

	_, ok := store.GetAccount(pubkey.SystemProgram)
	require.True(t, ok)

	var sysvarsPresent int
	for _, e := range m.Sysvars.StubAccounts() {
		if _, ok := store.GetAccount(e.Key); ok {
			sysvarsPresent++
		}
	}
	require.Equal(t, len(m.Sysvars.StubAccounts()), sysvarsPresent)
}
