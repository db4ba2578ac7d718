// Package builtin is a reference implementation of the engine.Engine
// black box: a minimal in-process SVM stand-in good enough to drive the
// harness's own test suite end to end (system-program transfers,
// cross-program invocation) without requiring a real SBF virtual
// machine. Test programs are plain Go functions registered by program
// ID, the same shape as a real runtime's builtin-program table (see
// program_id/name/entrypoint rows in the source's own BUILTINS list).
package builtin

import (
	"fmt"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// ProgramFunc is a native program entrypoint: given the accounts and
// data scoped to its invocation, mutate accounts in place via the
// Context and return nil on success or an InstructionError on failure.
type ProgramFunc func(ctx *Context) *svmerror.InstructionError

// Engine is the reference engine.Engine implementation. It holds no
// per-program verification step (there is no ELF to verify -- native
// programs are registered directly), but otherwise honors the same
// load/invoke protocol a BPF-backed engine would.
type Engine struct {
	programs map[pubkey.Pubkey]ProgramFunc
}

// New returns an Engine with the standard set of native programs
// registered (system program), ready for additional registrations via
// Register.
func New() *Engine {
	e := &Engine{programs: make(map[pubkey.Pubkey]ProgramFunc)}
	e.Register(pubkey.SystemProgram, systemProgram)
	return e
}

// Register installs a native program entrypoint under programID,
// replacing any existing registration. Test code uses this to install
// CPI-exercising stand-ins for the ELF programs the harness is
// configured to treat as out of scope.
func (e *Engine) Register(programID pubkey.Pubkey, fn ProgramFunc) {
	e.programs[programID] = fn
}

func (e *Engine) Name() string { return "builtin" }

// LoadProgram is a no-op for native programs (there is no ELF to
// verify); it returns the program ID itself as the opaque handle so the
// Program Cache has something non-nil to store.
func (e *Engine) LoadProgram(programID, _ pubkey.Pubkey, _ []byte, _ engine.InvocationConfig) (any, error) {
	return programID, nil
}

func (e *Engine) NewInvocation(accounts account.Entries, isSigner, isWritable []bool, cfg engine.InvocationConfig, lookup engine.ProgramLookup) engine.Invocation {
	return &invocation{
		eng:        e,
		accounts:   accounts.Clone(),
		isSigner:   isSigner,
		isWritable: isWritable,
		cfg:        cfg,
		lookup:     lookup,
	}
}

type invocation struct {
	eng        *Engine
	accounts   account.Entries
	isSigner   []bool
	isWritable []bool
	cfg        engine.InvocationConfig
	lookup     engine.ProgramLookup

	trace      []engine.TraceEntry
	returnData []byte

	current    instruction.CompiledInstruction
	hasCurrent bool
}

func (inv *invocation) PrepareNextTopLevelInstruction(ci instruction.CompiledInstruction) error {
	if int(ci.ProgramIDIndex) >= len(inv.accounts) {
		return fmt.Errorf("builtin: program id index %d out of range", ci.ProgramIDIndex)
	}
	for _, idx := range ci.Accounts {
		if int(idx) >= len(inv.accounts) {
			return fmt.Errorf("builtin: account index %d out of range", idx)
		}
	}
	inv.current = ci
	inv.hasCurrent = true
	return nil
}

func (inv *invocation) ProcessPrecompile() *svmerror.InstructionError {
	// Precompiles are assumed to verify successfully; signature
	// verification itself is out of scope for this harness.
	inv.trace = append(inv.trace, engine.TraceEntry{
		NestingLevel:   0,
		ProgramIDIndex: inv.current.ProgramIDIndex,
		AccountIndices: inv.current.Accounts,
		Data:           inv.current.Data,
	})
	return nil
}

func (inv *invocation) ProcessInstruction() (uint64, *svmerror.InstructionError) {
	if !inv.hasCurrent {
		panic("builtin: ProcessInstruction called without a prepared instruction")
	}
	inv.trace = append(inv.trace, engine.TraceEntry{
		NestingLevel:   0,
		ProgramIDIndex: inv.current.ProgramIDIndex,
		AccountIndices: inv.current.Accounts,
		Data:           inv.current.Data,
	})
	programID := inv.accounts[inv.current.ProgramIDIndex].Key
	cuBefore := uint64(0)
	ctx := &Context{
		inv:            inv,
		programID:      programID,
		accountIndices: inv.current.Accounts,
		data:           inv.current.Data,
		nestingLevel:   0,
	}
	instrErr := inv.dispatch(programID, ctx)
	return ctx.cuConsumed - cuBefore, instrErr
}

func (inv *invocation) dispatch(programID pubkey.Pubkey, ctx *Context) *svmerror.InstructionError {
	fn, ok := inv.eng.programs[programID]
	if !ok {
		ie := svmerror.Of(svmerror.UnsupportedProgramId)
		return &ie
	}
	return fn(ctx)
}

// invokeCPI is called by Context.Invoke to perform a cross-program
// invocation at nestingLevel (the caller's level + 1), returning the CU
// the callee consumed alongside its error.
func (inv *invocation) invokeCPI(programID pubkey.Pubkey, accountIndices []uint8, data []byte, nestingLevel int) (uint64, *svmerror.InstructionError) {
	inv.trace = append(inv.trace, engine.TraceEntry{
		NestingLevel:   nestingLevel,
		ProgramIDIndex: indexOfAccount(inv.accounts, programID),
		AccountIndices: accountIndices,
		Data:           data,
	})
	ctx := &Context{
		inv:            inv,
		programID:      programID,
		accountIndices: accountIndices,
		data:           data,
		nestingLevel:   nestingLevel,
	}
	err := inv.dispatch(programID, ctx)
	return ctx.cuConsumed, err
}

func indexOfAccount(accounts account.Entries, key pubkey.Pubkey) uint8 {
	for i, e := range accounts {
		if e.Key == key {
			return uint8(i)
		}
	}
	return 0
}

func (inv *invocation) TakeInstructionTrace() []engine.TraceEntry {
	out := inv.trace
	inv.trace = nil
	return out
}

func (inv *invocation) ReadReturnData() []byte {
	return inv.returnData
}

func (inv *invocation) ResultingAccounts() account.Entries {
	return inv.accounts.Clone()
}

// Context is the per-invocation view a native program entrypoint
// operates on: the accounts and data scoped to its own call, plus the
// ability to recurse via Invoke (cross-program invocation).
type Context struct {
	inv            *invocation
	programID      pubkey.Pubkey
	accountIndices []uint8
	data           []byte
	nestingLevel   int
	cuConsumed     uint64
}

func (c *Context) ProgramID() pubkey.Pubkey { return c.programID }
func (c *Context) Data() []byte             { return c.data }
func (c *Context) AccountCount() int        { return len(c.accountIndices) }

func (c *Context) Account(i int) account.Account {
	return c.inv.accounts[c.accountIndices[i]].Account
}

func (c *Context) SetAccount(i int, a account.Account) {
	c.inv.accounts[c.accountIndices[i]].Account = a
}

func (c *Context) IsSigner(i int) bool {
	return c.inv.isSigner[c.accountIndices[i]]
}

func (c *Context) IsWritable(i int) bool {
	return c.inv.isWritable[c.accountIndices[i]]
}

func (c *Context) SetReturnData(d []byte) {
	c.inv.returnData = d
}

// ConsumeCU adds n compute units to the running total this top-level
// instruction (including any CPI it performs) has consumed so far.
func (c *Context) ConsumeCU(n uint64) {
	c.cuConsumed += n
}

// Invoke performs a cross-program invocation into programID, passing
// the accounts at the given indices within the caller's own account
// list (not the transaction-wide list). CU consumed by the callee is
// folded into the caller's own running total.
func (c *Context) Invoke(programID pubkey.Pubkey, relativeAccountIndices []int, data []byte) *svmerror.InstructionError {
	abs := make([]uint8, len(relativeAccountIndices))
	for i, rel := range relativeAccountIndices {
		abs[i] = c.accountIndices[rel]
	}
	cu, err := c.inv.invokeCPI(programID, abs, data, c.nestingLevel+1)
	c.cuConsumed += cu
	return err
}
