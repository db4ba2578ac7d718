package check

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/stretchr/testify/require"
)

func noisyConfig() result.Config { return result.Config{Panic: false, Verbose: false} }

func TestRunChecksSuccess(t *testing.T) {
	key := pubkey.NewUnique()
	res := &result.InstructionResult{
		ComputeUnitsConsumed: 150,
		ProgramResult:        result.ProgramResult{Kind: result.Success},
		ReturnData:           []byte("ok"),
		ResultingAccounts: account.Entries{
			{Key: key, Account: account.Account{Lamports: 0}},
		},
	}
	checks := []Check{
		ComputeUnits(150),
		Success(),
		ReturnData([]byte("ok")),
		AllRentExempt(),
		ForAccount(Account(key).Lamports(0).Closed()),
	}
	require.True(t, RunChecks(res, checks, result.DefaultConfig(), result.DefaultRentContext))
}

func TestRunChecksComputeUnitsMismatch(t *testing.T) {
	res := &result.InstructionResult{ComputeUnitsConsumed: 100, ProgramResult: result.ProgramResult{Kind: result.Success}}
	require.False(t, RunChecks(res, []Check{ComputeUnits(150)}, noisyConfig(), result.DefaultRentContext))
}

func TestRunChecksErr(t *testing.T) {
	pe := svmerror.ProgramError{Kind: svmerror.ProgramInsufficientFunds}
	res := &result.InstructionResult{
		ProgramResult: result.ProgramResult{Kind: result.Failure, ProgramErr: pe},
	}
	require.True(t, RunChecks(res, []Check{Err(pe)}, noisyConfig(), result.DefaultRentContext))

	other := svmerror.ProgramError{Kind: svmerror.ProgramIllegalOwner}
	require.False(t, RunChecks(res, []Check{Err(other)}, noisyConfig(), result.DefaultRentContext))
}

func TestRunChecksAccountFields(t *testing.T) {
	key := pubkey.NewUnique()
	owner := pubkey.NewUnique()
	res := &result.InstructionResult{
		ProgramResult: result.ProgramResult{Kind: result.Success},
		ResultingAccounts: account.Entries{
			{Key: key, Account: account.Account{Lamports: 500, Owner: owner, Data: []byte{1, 2, 3, 4}}},
		},
	}
	checks := []Check{
		ForAccount(Account(key).Lamports(500).Owner(owner).Space(4).DataSlice(1, []byte{2, 3})),
	}
	require.True(t, RunChecks(res, checks, noisyConfig(), result.DefaultRentContext))

	wrong := []Check{ForAccount(Account(key).Lamports(999))}
	require.False(t, RunChecks(res, wrong, noisyConfig(), result.DefaultRentContext))
}

func TestRunChecksInnerInstructionCount(t *testing.T) {
	res := &result.InstructionResult{
		ProgramResult: result.ProgramResult{Kind: result.Success},
		InnerInstructions: []result.InnerInstruction{
			{ProgramIDIndex: 0, StackHeight: 2},
		},
	}
	require.True(t, RunChecks(res, []Check{InnerInstructionCount(1)}, noisyConfig(), result.DefaultRentContext))
	require.False(t, RunChecks(res, []Check{InnerInstructionCount(2)}, noisyConfig(), result.DefaultRentContext))
}

func TestRunChecksPanicsByDefault(t *testing.T) {
	res := &result.InstructionResult{ProgramResult: result.ProgramResult{Kind: result.Success}}
	require.Panics(t, func() {
		RunChecks(res, []Check{ComputeUnits(1)}, result.DefaultConfig(), result.DefaultRentContext)
	})
}
