package svm

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/engine/builtin"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/stretchr/testify/require"
)

func transferIx(from, to pubkey.Pubkey, lamports uint64) instruction.Instruction {
	return instruction.New(pubkey.SystemProgram, builtin.TransferInstructionData(lamports), []instruction.AccountMeta{
		instruction.Signer(from, true),
		instruction.WritableMeta(to),
	})
}

func TestProcessInstructionTransferSuccess(t *testing.T) {
	m := New(builtin.New())
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: from, Account: account.Account{Lamports: 1000}},
		{Key: to, Account: account.Account{Lamports: 0}},
	}

	res := m.ProcessInstruction(transferIx(from, to, 400), accounts)
	require.False(t, res.ProgramResult.IsErr())
	require.Equal(t, uint64(150), res.ComputeUnitsConsumed)

	gotFrom, _ := res.ResultingAccounts.Find(from)
	gotTo, _ := res.ResultingAccounts.Find(to)
	require.Equal(t, uint64(600), gotFrom.Lamports)
	require.Equal(t, uint64(400), gotTo.Lamports)
	require.Len(t, res.ResultingAccounts, len(accounts))
}

func TestProcessInstructionInsufficientFunds(t *testing.T) {
	m := New(builtin.New())
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: from, Account: account.Account{Lamports: 10}},
		{Key: to, Account: account.Account{Lamports: 0}},
	}

	res := m.ProcessInstruction(transferIx(from, to, 400), accounts)
	require.True(t, res.ProgramResult.IsErr())

	// Invariant 2: a failure leaves resulting accounts equal to the input.
	gotFrom, _ := res.ResultingAccounts.Find(from)
	gotTo, _ := res.ResultingAccounts.Find(to)
	require.Equal(t, uint64(10), gotFrom.Lamports)
	require.Zero(t, gotTo.Lamports)
}

func TestProcessInstructionChainPersistsAcrossSteps(t *testing.T) {
	m := New(builtin.New())
	a, b, c := pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: a, Account: account.Account{Lamports: 1000}},
		{Key: b, Account: account.Account{Lamports: 0}},
		{Key: c, Account: account.Account{Lamports: 0}},
	}

	composite := m.ProcessInstructionChain([]instruction.Instruction{
		transferIx(a, b, 300),
		transferIx(b, c, 100),
	}, accounts)

	require.False(t, composite.ProgramResult.IsErr())
	require.Equal(t, uint64(300), composite.ComputeUnitsConsumed)

	gotB, _ := composite.ResultingAccounts.Find(b)
	gotC, _ := composite.ResultingAccounts.Find(c)
	require.Equal(t, uint64(200), gotB.Lamports)
	require.Equal(t, uint64(100), gotC.Lamports)
}

func TestProcessInstructionChainHaltsOnFailure(t *testing.T) {
	m := New(builtin.New())
	a, b, c := pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: a, Account: account.Account{Lamports: 50}},
		{Key: b, Account: account.Account{Lamports: 0}},
		{Key: c, Account: account.Account{Lamports: 0}},
	}

	composite := m.ProcessInstructionChain([]instruction.Instruction{
		transferIx(a, b, 1000),
		transferIx(b, c, 100),
	}, accounts)

	require.True(t, composite.ProgramResult.IsErr())
	gotB, _ := composite.ResultingAccounts.Find(b)
	require.Zero(t, gotB.Lamports)
}

func TestProcessTransactionInstructionsAtomicOnFailure(t *testing.T) {
	m := New(builtin.New())
	a, b, c := pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: a, Account: account.Account{Lamports: 1000}},
		{Key: b, Account: account.Account{Lamports: 0}},
		{Key: c, Account: account.Account{Lamports: 0}},
	}

	res := m.ProcessTransactionInstructions([]instruction.Instruction{
		transferIx(a, b, 300),
		transferIx(b, c, 1000), // fails: b only holds 300 lamports after the first transfer
	}, accounts)

	require.True(t, res.ProgramResult.IsErr())

	// Invariant 3: no partial writes.
	gotA, _ := res.ResultingAccounts.Find(a)
	gotB, _ := res.ResultingAccounts.Find(b)
	require.Equal(t, uint64(1000), gotA.Lamports)
	require.Zero(t, gotB.Lamports)
}

func TestProcessTransactionInstructionsInnerInstructionGrouping(t *testing.T) {
	m := New(builtin.New())
	a, b, c, d := pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: a, Account: account.Account{Lamports: 1000}},
		{Key: b, Account: account.Account{Lamports: 0}},
		{Key: c, Account: account.Account{Lamports: 1000}},
		{Key: d, Account: account.Account{Lamports: 0}},
	}

	res := m.ProcessTransactionInstructions([]instruction.Instruction{
		transferIx(a, b, 100),
		transferIx(c, d, 200),
	}, accounts)

	require.False(t, res.ProgramResult.IsErr())
	require.Len(t, res.InnerInstructions, 2)
}

func TestProcessInstructionCPIRecordsInnerInstructionAtStackHeightTwo(t *testing.T) {
	eng := builtin.New()
	callerID, calleeID := pubkey.NewUnique(), pubkey.NewUnique()

	eng.Register(calleeID, func(ctx *builtin.Context) *svmerror.InstructionError {
		target := ctx.Account(0)
		target.Lamports += 7
		ctx.SetAccount(0, target)
		return nil
	})
	eng.Register(callerID, func(ctx *builtin.Context) *svmerror.InstructionError {
		return ctx.Invoke(calleeID, []int{0}, []byte("cpi"))
	})

	m := New(eng)
	target := pubkey.NewUnique()
	accounts := account.Entries{
		{Key: target, Account: account.Account{Lamports: 100}},
		{Key: calleeID, Account: account.Account{Executable: true}},
	}

	ix := instruction.New(callerID, []byte("outer"), []instruction.AccountMeta{
		instruction.WritableMeta(target),
		instruction.ReadonlyMeta(calleeID),
	})
	res := m.ProcessInstruction(ix, accounts)
	require.False(t, res.ProgramResult.IsErr())

	got, _ := res.ResultingAccounts.Find(target)
	require.Equal(t, uint64(107), got.Lamports)

	require.Len(t, res.InnerInstructions, 1)
	inner := res.InnerInstructions[0]
	require.Equal(t, 2, inner.StackHeight)

	keys := res.Message.AccountKeys()
	require.Equal(t, calleeID, keys[inner.ProgramIDIndex])
	require.Len(t, inner.AccountIndices, 1)
	require.Equal(t, target, keys[inner.AccountIndices[0]])
}

func TestOnFixtureEmitFiresPerInstruction(t *testing.T) {
	m := New(builtin.New())
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	accounts := account.Entries{
		{Key: from, Account: account.Account{Lamports: 1000}},
		{Key: to, Account: account.Account{Lamports: 0}},
	}

	var captured *result.InstructionResult
	calls := 0
	m.OnFixtureEmit(func(ix instruction.Instruction, acc account.Entries, res *result.InstructionResult) {
		calls++
		captured = res
	})

	m.ProcessInstruction(transferIx(from, to, 100), accounts)
	require.Equal(t, 1, calls)
	require.NotNil(t, captured)
	require.False(t, captured.ProgramResult.IsErr())
}
