package firedancer

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/computebudget"
	"github.com/mollusk-svm/mollusk-go/featureset"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/stretchr/testify/require"
)

func sampleContext() (Context, account.Entries) {
	programID := pubkey.NewUnique()
	from, to := pubkey.NewUnique(), pubkey.NewUnique()
	ix := instruction.New(programID, []byte{9, 9}, []instruction.AccountMeta{
		instruction.Signer(from, true),
		instruction.WritableMeta(to),
	})
	txAccounts := account.Entries{
		{Key: programID, Account: account.Account{Owner: pubkey.NativeLoader, Executable: true}},
		{Key: from, Account: account.Account{Lamports: 1000}},
		{Key: to, Account: account.Account{Lamports: 0}},
	}
	compiled := instruction.CompiledInstruction{ProgramIDIndex: 0, Accounts: []uint8{1, 2}, Data: ix.Data}
	isSigner := []bool{false, true, false}
	isWritable := []bool{false, true, true}
	ctx := BuildContext(computebudget.NewWithDefaults(true, true), featureset.New(), 12345, ix, compiled, txAccounts, isSigner, isWritable)
	return ctx, txAccounts
}

func TestContextToInstructionRoundTrip(t *testing.T) {
	ctx, txAccounts := sampleContext()
	ix, accounts := ctx.ToInstruction()

	require.Equal(t, ctx.ProgramID, ix.ProgramID)
	require.Len(t, accounts, len(txAccounts))
	require.Len(t, ix.Accounts, 2)
	require.True(t, ix.Accounts[0].IsSigner)
	require.True(t, ix.Accounts[0].IsWritable)
	require.False(t, ix.Accounts[1].IsSigner)
	require.True(t, ix.Accounts[1].IsWritable)
}

func TestBuildAndParseEffectsRoundTrip(t *testing.T) {
	ctx, txAccounts := sampleContext()
	_, accounts := ctx.ToInstruction()

	modified := accounts.Clone()
	modified[1].Account.Lamports -= 100
	modified[2].Account.Lamports += 100

	res := &result.InstructionResult{
		ComputeUnitsConsumed: 150,
		ProgramResult:        result.ProgramResult{Kind: result.Success},
		ResultingAccounts:    modified,
		ReturnData:           []byte("rd"),
	}
	effects := BuildEffects(ctx, res)
	require.Zero(t, effects.ProgramResult)
	require.Len(t, effects.ModifiedAccounts, 2)

	parsed := ParseEffects(accounts, ctx.ComputeUnitsAvailable, effects)
	require.Equal(t, uint64(150), parsed.ComputeUnitsConsumed)

	gotTo, ok := parsed.ResultingAccounts.Find(txAccounts[2].Key)
	require.True(t, ok)
	require.Equal(t, uint64(100), gotTo.Lamports)

	gotProgram, ok := parsed.ResultingAccounts.Find(txAccounts[0].Key)
	require.True(t, ok)
	require.Zero(t, gotProgram.Lamports)
}

func TestBuildEffectsFailure(t *testing.T) {
	ctx, _ := sampleContext()
	pe := svmerror.InstructionError{Kind: svmerror.InsufficientFunds}
	res := &result.InstructionResult{
		ProgramResult: result.ProgramResult{Kind: result.UnknownErrorKind, UnknownErr: pe},
		RawResult:     &pe,
	}
	effects := BuildEffects(ctx, res)
	require.NotZero(t, effects.ProgramResult)
	require.Zero(t, effects.ProgramCustomCode)
}

func TestJSONRoundTrip(t *testing.T) {
	ctx, _ := sampleContext()
	fx := &Fixture{Context: ctx, Effects: Effects{ComputeUnitsAvailable: ctx.ComputeUnitsAvailable}}
	data, err := EncodeJSON(fx)
	require.NoError(t, err)

	got, err := DecodeJSON(data)
	require.NoError(t, err)
	require.Equal(t, fx.Context.ProgramID, got.Context.ProgramID)
}

func TestInferLoaderKey(t *testing.T) {
	defaultLoader := pubkey.BPFLoaderUpgradeable
	require.Equal(t, pubkey.NativeLoader, InferLoaderKey(defaultLoader, pubkey.SystemProgram))
	require.Equal(t, defaultLoader, InferLoaderKey(defaultLoader, pubkey.NewUnique()))
}
