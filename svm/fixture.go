package svm

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/fixture/firedancer"
	molluskfixture "github.com/mollusk-svm/mollusk-go/fixture/mollusk"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/result"
)

// BuildMolluskFixture assembles a Format A fixture for ix/accounts/res,
// independent of any emitter: a one-shot conversion a caller can use to
// serialize a single invocation on demand.
func (m *Mollusk) BuildMolluskFixture(ix instruction.Instruction, accounts account.Entries, res *result.InstructionResult) molluskfixture.Fixture {
	fallbacks := m.getAccountFallbacks([]instruction.Instruction{ix})
	ctx := molluskfixture.NewContext(m.ComputeBudget, m.FeatureSet, *m.Sysvars, ix.ProgramID, ix, resolveAccounts(ix, accounts, fallbacks))
	return molluskfixture.Fixture{
		Context: ctx,
		Effects: molluskfixture.FromInstructionResult(res),
	}
}

// BuildFiredancerFixture assembles a Format B fixture for ix/accounts/res.
func (m *Mollusk) BuildFiredancerFixture(ix instruction.Instruction, accounts account.Entries, res *result.InstructionResult) firedancer.Fixture {
	fallbacks := m.getAccountFallbacks([]instruction.Instruction{ix})
	msg, txAccounts := CompileAccounts([]instruction.Instruction{ix}, accounts, fallbacks)
	compiled := msg.Compiled[0]

	ctx := firedancer.BuildContext(m.ComputeBudget, m.FeatureSet, m.Slot, ix, compiled, txAccounts, msg.SignerFlags, msg.WritableFlags)
	return firedancer.Fixture{
		Context: ctx,
		Effects: firedancer.BuildEffects(ctx, res),
	}
}

// resolveAccounts returns a copy of every caller-provided account, in
// the order the caller passed them, with the instruction's program ID
// appended from the fallbacks when the input omitted it. Accounts the
// instruction does not reference are kept.
func resolveAccounts(ix instruction.Instruction, accounts, fallbacks account.Entries) account.Entries {
	out := accounts.Clone()
	if _, ok := out.Find(ix.ProgramID); !ok {
		if a, ok := fallbacks.Find(ix.ProgramID); ok {
			out = append(out, account.Entry{Key: ix.ProgramID, Account: a})
		}
	}
	return out
}
