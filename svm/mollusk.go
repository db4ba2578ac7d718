// Package svm implements the harness core: the Account Compiler,
// Program Cache, Message Executor, and the Harness Facade (Mollusk)
// that wires them together into the public process_instruction /
// process_instruction_chain / process_transaction_instructions surface.
package svm

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/computebudget"
	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/featureset"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/inspect"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/mollusk-svm/mollusk-go/sysvar"
)

// DefaultLoaderKey is the loader class a program is assumed to use when
// the caller hasn't registered it with the Program Cache under a more
// specific loader.
var DefaultLoaderKey = pubkey.BPFLoaderUpgradeable

// FixtureEmitter is called once per processed instruction, purely as a
// side effect (it must not influence the result returned to the
// caller). The Fixture Codec packages build emitters that serialize the
// request/result pair to disk or to an in-memory buffer.
type FixtureEmitter func(ix instruction.Instruction, accounts account.Entries, res *result.InstructionResult)

// Mollusk is the Harness Facade: the public entry point wiring the
// Account Compiler, Program Cache, and Message Executor together and
// normalizing their output into the Result Model.
type Mollusk struct {
	Engine        engine.Engine
	ProgramCache  *ProgramCache
	Sysvars       *sysvar.Block
	ComputeBudget computebudget.ComputeBudget
	FeatureSet    featureset.FeatureSet
	Slot          uint64
	Hooks         *inspect.Hooks

	fixtureEmitters []FixtureEmitter
}

// New builds a Mollusk harness bound to eng, with a Program Cache
// pre-seeded with the system program builtin and default sysvars /
// compute budget / feature set.
func New(eng engine.Engine) *Mollusk {
	m := &Mollusk{
		Engine:        eng,
		Sysvars:       sysvar.NewBlock(),
		ComputeBudget: computebudget.NewWithDefaults(true, true),
		FeatureSet:    featureset.New(),
	}
	m.ProgramCache = NewProgramCache(eng, false)
	m.ProgramCache.AddBuiltin(pubkey.SystemProgram, "system_program", m.invocationConfig())
	return m
}

// OnFixtureEmit registers a fixture emitter; every process_instruction
// call fires every registered emitter after computing its result.
func (m *Mollusk) OnFixtureEmit(fn FixtureEmitter) {
	m.fixtureEmitters = append(m.fixtureEmitters, fn)
}

// rentContext adapts a harness's own sysvar rent schedule to
// result.RentContext, so Check/Compare rent-exemption predicates
// reflect whatever rent schedule the harness is currently configured
// with instead of always falling back to result.DefaultRentContext.
type rentContext struct{ m *Mollusk }

func (r rentContext) IsRentExempt(lamports uint64, dataLen int) bool {
	return r.m.Sysvars.Rent.IsExempt(lamports, dataLen)
}

// RentContext returns a result.RentContext bound to this harness's
// current rent sysvar.
func (m *Mollusk) RentContext() result.RentContext {
	return rentContext{m: m}
}

func (m *Mollusk) invocationConfig() engine.InvocationConfig {
	return engine.InvocationConfig{
		ComputeBudget: m.ComputeBudget,
		FeatureSet:    m.FeatureSet,
	}
}

// getAccountFallbacks synthesizes the program-ID stub accounts for every
// program referenced by instructions, per the deterministic fallback
// rule: top-level program IDs first (the instructions sysvar fallback,
// when needed, is handled inside CompileAccounts itself).
func (m *Mollusk) getAccountFallbacks(instructions []instruction.Instruction) account.Entries {
	seen := make(map[pubkey.Pubkey]struct{})
	var out account.Entries
	for _, ix := range instructions {
		if _, ok := seen[ix.ProgramID]; ok {
			continue
		}
		seen[ix.ProgramID] = struct{}{}
		loaderKey, ok := m.ProgramCache.GetLoaderKey(ix.ProgramID)
		if !ok {
			loaderKey = DefaultLoaderKey
		}
		out = append(out, account.Entry{
			Key:     ix.ProgramID,
			Account: account.Account{Owner: loaderKey, Executable: true},
		})
	}
	return out
}

// ProcessInstruction is the facade's single-instruction entry point:
// compile accounts with fallbacks, run the Message Executor, deconstruct
// the post-state preserving input key order. On failure the resulting
// accounts equal the input (invariant 2).
func (m *Mollusk) ProcessInstruction(ix instruction.Instruction, accounts account.Entries) *result.InstructionResult {
	res := m.processInstructions([]instruction.Instruction{ix}, accounts)
	for _, fn := range m.fixtureEmitters {
		fn(ix, accounts, res)
	}
	return res
}

// processInstructions is the implementation behind ProcessInstruction:
// one sanitized message, one Message Executor call, atomic semantics.
// ProcessTransactionInstructions runs the same steps in its own body.
func (m *Mollusk) processInstructions(instructions []instruction.Instruction, accounts account.Entries) *result.InstructionResult {
	fallbacks := m.getAccountFallbacks(instructions)
	msg, txAccounts := CompileAccounts(instructions, accounts, fallbacks)

	cfg := m.invocationConfig()
	cfg.Sysvars = sysvar.BuildCache(m.Sysvars, txAccounts)

	outcome := ExecuteMessage(m.Engine, msg, txAccounts, cfg, m.ProgramCache, m.Hooks)

	programResult := result.FromTransactionError(outcome.TxErr)

	resultingAccounts := outcome.ResultingAccounts
	if programResult.IsErr() {
		// Invariant 2/3: a failure leaves resulting accounts equal to the
		// input, never a partial write.
		resultingAccounts = reorderToInput(accounts, txAccounts)
	} else {
		resultingAccounts = reorderToInput(accounts, resultingAccounts)
	}

	var innerInstructions []result.InnerInstruction
	if len(outcome.InnerGroups) > 0 {
		innerInstructions = outcome.InnerGroups[0]
	}

	var rawResult *svmerror.InstructionError
	if outcome.TxErr != nil && outcome.TxErr.IsInstructionError {
		e := outcome.TxErr.InstructionErr
		rawResult = &e
	}

	return &result.InstructionResult{
		ComputeUnitsConsumed: outcome.ComputeUnitsConsumed,
		ProgramResult:        programResult.AsProgramResult(),
		RawResult:            rawResult,
		ReturnData:           outcome.ReturnData,
		ResultingAccounts:    resultingAccounts,
		InnerInstructions:    innerInstructions,
		Message:              outcome.Message,
	}
}

// reorderToInput projects src (keyed by the same set of pubkeys as
// input, but not necessarily the same order or full set -- it's the
// transaction-wide account vector) down to exactly input's keys, in
// input's order. This is how the facade deconstructs resulting accounts
// while preserving invariant 1 (same length and key order as the
// accounts vector passed in).
func reorderToInput(input account.Entries, src account.Entries) account.Entries {
	out := make(account.Entries, len(input))
	for i, entry := range input {
		if a, ok := src.Find(entry.Key); ok {
			out[i] = account.Entry{Key: entry.Key, Account: a}
		} else {
			out[i] = entry
		}
	}
	return out
}

// ProcessInstructionChain folds over instructions, each executed in its
// own freshly-built transaction context, threading resulting accounts
// from step k-1 into step k. Halts on first failure; the composite
// result absorbs CU/time cumulatively and everything else from the last
// executed element (see result.InstructionResult.Absorb).
func (m *Mollusk) ProcessInstructionChain(instructions []instruction.Instruction, accounts account.Entries) *result.InstructionResult {
	composite := &result.InstructionResult{
		ProgramResult:     result.ProgramResult{Kind: result.Success},
		ResultingAccounts: accounts,
	}
	current := accounts
	for _, ix := range instructions {
		step := m.ProcessInstruction(ix, current)
		composite.Absorb(step)
		if step.ProgramResult.IsErr() {
			break
		}
		current = step.ResultingAccounts
	}
	return composite
}

// ProcessTransactionInstructions executes every instruction inside one
// atomic transaction context: on any instruction failure, resulting
// accounts reflect the input, not partial state (invariant 3), and
// inner instructions preserve full per-top-level-instruction grouping
// (the chain/transaction divergence the design notes call out).
func (m *Mollusk) ProcessTransactionInstructions(instructions []instruction.Instruction, accounts account.Entries) *result.TransactionResult {
	fallbacks := m.getAccountFallbacks(instructions)
	msg, txAccounts := CompileAccounts(instructions, accounts, fallbacks)

	cfg := m.invocationConfig()
	cfg.Sysvars = sysvar.BuildCache(m.Sysvars, txAccounts)

	outcome := ExecuteMessage(m.Engine, msg, txAccounts, cfg, m.ProgramCache, m.Hooks)

	programResult := result.FromTransactionError(outcome.TxErr)

	var resultingAccounts account.Entries
	if programResult.IsErr() {
		resultingAccounts = reorderToInput(accounts, txAccounts)
	} else {
		resultingAccounts = reorderToInput(accounts, outcome.ResultingAccounts)
	}

	return &result.TransactionResult{
		ComputeUnitsConsumed: outcome.ComputeUnitsConsumed,
		ProgramResult:        programResult,
		RawResult:            outcome.TxErr,
		ReturnData:           outcome.ReturnData,
		ResultingAccounts:    resultingAccounts,
		InnerInstructions:    outcome.InnerGroups,
		Message:              outcome.Message,
	}
}
