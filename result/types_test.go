package result

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/stretchr/testify/require"
)

func TestFromRawResultSuccess(t *testing.T) {
	require.Equal(t, Success, FromRawResult(nil).Kind)
}

func TestFromRawResultKnownProgramError(t *testing.T) {
	e := svmerror.Of(svmerror.InsufficientFunds)
	require.Equal(t, Failure, FromRawResult(&e).Kind)
}

func TestFromRawResultUnknownError(t *testing.T) {
	e := svmerror.Of(svmerror.CallDepth)
	require.Equal(t, UnknownErrorKind, FromRawResult(&e).Kind)
}

func TestAbsorbAccumulatesComputeUnitsAndOverwritesRest(t *testing.T) {
	key := pubkey.NewUnique()
	composite := &InstructionResult{
		ComputeUnitsConsumed: 100,
		ExecutionTimeUS:      10,
		ProgramResult:        ProgramResult{Kind: Success},
		ResultingAccounts:    account.Entries{{Key: key, Account: account.Account{Lamports: 1}}},
	}
	next := &InstructionResult{
		ComputeUnitsConsumed: 50,
		ExecutionTimeUS:      5,
		ProgramResult:        ProgramResult{Kind: Success},
		ResultingAccounts:    account.Entries{{Key: key, Account: account.Account{Lamports: 2}}},
	}
	composite.Absorb(next)

	require.Equal(t, uint64(150), composite.ComputeUnitsConsumed)
	require.Equal(t, uint64(15), composite.ExecutionTimeUS)

	got, ok := composite.ResultingAccounts.Find(key)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.Lamports)
}

func TestExtractInstructionResultTakesFirstInnerGroup(t *testing.T) {
	tr := &TransactionResult{
		ComputeUnitsConsumed: 300,
		ProgramResult:        TransactionProgramResult{ProgramResult: ProgramResult{Kind: Success}},
		InnerInstructions: [][]InnerInstruction{
			{{ProgramIDIndex: 1, StackHeight: 2}},
			{{ProgramIDIndex: 2, StackHeight: 2}},
		},
	}
	ir := tr.ExtractInstructionResult()
	require.Len(t, ir.InnerInstructions, 1)
	require.Equal(t, uint8(1), ir.InnerInstructions[0].ProgramIDIndex)
	require.Equal(t, uint64(300), ir.ComputeUnitsConsumed)
}
