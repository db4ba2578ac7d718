package compare

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/stretchr/testify/require"
)

func noisyConfig() result.Config { return result.Config{Panic: false, Verbose: false} }

func identicalResults() (*result.InstructionResult, *result.InstructionResult) {
	key := pubkey.NewUnique()
	build := func() *result.InstructionResult {
		return &result.InstructionResult{
			ComputeUnitsConsumed: 150,
			ProgramResult:        result.ProgramResult{Kind: result.Success},
			ReturnData:           []byte("hi"),
			ResultingAccounts: account.Entries{
				{Key: key, Account: account.Account{Lamports: 10, Data: []byte{1, 2, 3}}},
			},
		}
	}
	return build(), build()
}

func TestEverythingReflexive(t *testing.T) {
	a, b := identicalResults()
	require.True(t, CompareWithConfig(a, b, Everything(), noisyConfig()))
}

func TestEverythingButCUsIgnoresComputeUnits(t *testing.T) {
	a, b := identicalResults()
	b.ComputeUnitsConsumed = 99999
	require.True(t, CompareWithConfig(a, b, EverythingButCUs(), noisyConfig()))
	require.False(t, CompareWithConfig(a, b, Everything(), noisyConfig()))
}

func TestProgramResultMismatch(t *testing.T) {
	a, b := identicalResults()
	b.ProgramResult = result.ProgramResult{Kind: result.UnknownErrorKind}
	require.False(t, CompareWithConfig(a, b, []Compare{ProgramResult()}, noisyConfig()))
}

func TestOnlyResultingAccountsScopesToNamedKeys(t *testing.T) {
	keyA, keyB := pubkey.NewUnique(), pubkey.NewUnique()
	a := &result.InstructionResult{
		ResultingAccounts: account.Entries{
			{Key: keyA, Account: account.Account{Lamports: 1}},
			{Key: keyB, Account: account.Account{Lamports: 2}},
		},
	}
	b := &result.InstructionResult{
		ResultingAccounts: account.Entries{
			{Key: keyA, Account: account.Account{Lamports: 1}},
			{Key: keyB, Account: account.Account{Lamports: 999}},
		},
	}
	require.True(t, CompareWithConfig(a, b, []Compare{OnlyResultingAccounts([]pubkey.Pubkey{keyA}, AllAccountFields())}, noisyConfig()))
	require.False(t, CompareWithConfig(a, b, []Compare{OnlyResultingAccounts([]pubkey.Pubkey{keyB}, AllAccountFields())}, noisyConfig()))
}

func TestAllResultingAccountsExcept(t *testing.T) {
	keyA, keyB := pubkey.NewUnique(), pubkey.NewUnique()
	a := &result.InstructionResult{
		ResultingAccounts: account.Entries{
			{Key: keyA, Account: account.Account{Lamports: 1}},
			{Key: keyB, Account: account.Account{Lamports: 2}},
		},
	}
	b := &result.InstructionResult{
		ResultingAccounts: account.Entries{
			{Key: keyA, Account: account.Account{Lamports: 1}},
			{Key: keyB, Account: account.Account{Lamports: 999}},
		},
	}
	require.True(t, CompareWithConfig(a, b, []Compare{AllResultingAccountsExcept([]pubkey.Pubkey{keyB}, AllAccountFields())}, noisyConfig()))
}

func TestPanicsByDefault(t *testing.T) {
	a := &result.InstructionResult{ComputeUnitsConsumed: 1}
	b := &result.InstructionResult{ComputeUnitsConsumed: 2}
	require.Panics(t, func() {
		CompareWithConfig(a, b, []Compare{ComputeUnits()}, result.DefaultConfig())
	})
}
