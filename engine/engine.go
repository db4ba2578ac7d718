// Package engine defines the black-box "execution engine" contract the
// Message Executor drives: the SBF virtual machine, BPF loader, and
// built-in programs are out of scope for this harness and are consumed
// only through this interface, exactly as spec'd -- load-program,
// prepare-next-top-level-instruction, process-instruction,
// process-precompile, take-instruction-trace, read-return-data.
package engine

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/computebudget"
	"github.com/mollusk-svm/mollusk-go/featureset"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svmerror"
	"github.com/mollusk-svm/mollusk-go/sysvar"
)

// LoadedProgram is the Program Cache's view of one engine-loaded
// program: the loader class, the raw ELF (when applicable), and an
// engine-opaque handle the engine uses internally to skip re-verifying
// the ELF on every invocation.
type LoadedProgram struct {
	ProgramID pubkey.Pubkey
	LoaderKey pubkey.Pubkey
	ELF       []byte
	Handle    any
}

// InvocationConfig carries the per-message configuration the engine
// needs to execute: the compute budget ceiling, the active feature set,
// the projected sysvar cache, and whether register tracing was enabled
// at Program Cache construction (a one-shot decision programs carry
// through their loaded form).
type InvocationConfig struct {
	ComputeBudget   computebudget.ComputeBudget
	FeatureSet      featureset.FeatureSet
	Sysvars         sysvar.Cache
	RegisterTracing bool
}

// TraceEntry is one flat entry of the engine's instruction trace: a
// compiled instruction plus its CPI nesting level. The Message Executor
// groups these into inner-instruction records; nesting level 0 is the
// top-level instruction itself (stack_height == 1) and is not part of
// any inner-instruction group.
type TraceEntry struct {
	NestingLevel   int
	ProgramIDIndex uint8
	AccountIndices []uint8
	Data           []byte
}

// ProgramLookup is the read-only view of the Program Cache the engine
// consults to resolve a program ID to its loaded form, or to recognize a
// precompile.
type ProgramLookup interface {
	Lookup(programID pubkey.Pubkey) (LoadedProgram, bool)
	IsPrecompile(programID pubkey.Pubkey) bool
}

// Engine is the black-box execution engine.
type Engine interface {
	// Name identifies the engine for diagnostics (e.g. in Inspection
	// Hooks output); it carries no execution semantics.
	Name() string

	// LoadProgram verifies and loads elf, returning an opaque handle the
	// Program Cache stores alongside its own bookkeeping. Called once
	// per cache insertion.
	LoadProgram(programID, loaderKey pubkey.Pubkey, elf []byte, cfg InvocationConfig) (any, error)

	// NewInvocation begins a fresh single-message execution context: a
	// transaction context scoped to accounts, exclusive for the
	// duration of the call per the harness's single-threaded contract.
	// isSigner/isWritable are message-level privilege flags, index-aligned
	// with accounts.
	NewInvocation(accounts account.Entries, isSigner, isWritable []bool, cfg InvocationConfig, lookup ProgramLookup) Invocation
}

// Invocation drives one compiled message through the engine,
// instruction by instruction, per the Message Executor's protocol.
type Invocation interface {
	// PrepareNextTopLevelInstruction sets up the engine's invoke context
	// for ci. A non-nil error here is a programmer-error malformed
	// message, not a program-execution failure, and the caller should
	// abort rather than record it as raw_result.
	PrepareNextTopLevelInstruction(ci instruction.CompiledInstruction) error

	// ProcessPrecompile runs a precompile verifier; it never consumes CU.
	ProcessPrecompile() *svmerror.InstructionError

	// ProcessInstruction executes the prepared instruction, returning CU
	// consumed by this instruction (including any CPI) and, on failure,
	// the instruction error.
	ProcessInstruction() (cuConsumed uint64, instrErr *svmerror.InstructionError)

	// TakeInstructionTrace returns the flat CPI trace accumulated across
	// every ProcessInstruction call so far, in dispatch order.
	TakeInstructionTrace() []TraceEntry

	// ReadReturnData returns the last program's return data, if any.
	ReadReturnData() []byte

	// ResultingAccounts returns the post-invocation state of every
	// transaction account, in the same key order as the input.
	ResultingAccounts() account.Entries
}
