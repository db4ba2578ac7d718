package svm

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/stretchr/testify/require"
)

func TestCompileAccountsBucketOrdering(t *testing.T) {
	programID := pubkey.NewUnique()
	writableSigner := pubkey.NewUnique()
	readonlySigner := pubkey.NewUnique()
	writableNonSigner := pubkey.NewUnique()
	readonlyNonSigner := pubkey.NewUnique()

	ix := instruction.New(programID, nil, []instruction.AccountMeta{
		instruction.ReadonlyMeta(readonlyNonSigner),
		instruction.WritableMeta(writableNonSigner),
		{Pubkey: readonlySigner, IsSigner: true},
		instruction.Signer(writableSigner, true),
	})
	fallbacks := account.Entries{{Key: programID, Account: account.Account{Executable: true}}}

	msg, txAccounts := CompileAccounts([]instruction.Instruction{ix}, nil, fallbacks)

	want := []pubkey.Pubkey{writableSigner, readonlySigner, writableNonSigner, programID, readonlyNonSigner}
	require.Equal(t, want, msg.AccountKeysList)
	require.Len(t, txAccounts, len(want))
}

func TestCompileAccountsUsesProgramFallback(t *testing.T) {
	programID := pubkey.NewUnique()
	signer := pubkey.NewUnique()
	ix := instruction.New(programID, nil, []instruction.AccountMeta{instruction.Signer(signer, true)})
	fallbacks := account.Entries{{Key: programID, Account: account.Account{Owner: pubkey.BPFLoaderUpgradeable, Executable: true}}}
	accounts := account.Entries{{Key: signer, Account: account.Account{Lamports: 100}}}

	_, txAccounts := CompileAccounts([]instruction.Instruction{ix}, accounts, fallbacks)

	got, ok := txAccounts.Find(programID)
	require.True(t, ok)
	require.True(t, got.Executable)
}

func TestCompileAccountsPanicsOnMissingAccount(t *testing.T) {
	programID := pubkey.NewUnique()
	missing := pubkey.NewUnique()
	ix := instruction.New(programID, nil, []instruction.AccountMeta{instruction.ReadonlyMeta(missing)})
	fallbacks := account.Entries{{Key: programID, Account: account.Account{Executable: true}}}

	require.Panics(t, func() {
		CompileAccounts([]instruction.Instruction{ix}, nil, fallbacks)
	})
}
