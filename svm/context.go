package svm

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
)

// Context is the Stateful Context: a Mollusk harness paired with an
// account.Store, so repeated invocations see the resulting accounts of
// prior ones. Unknown keys fall through sysvar stub, then program
// cache stub, then the store's own default; resulting accounts are
// persisted across calls.
type Context struct {
	Mollusk *Mollusk
	Store   account.Store
}

// NewContext builds a Stateful Context over an existing harness and
// store.
func NewContext(m *Mollusk, store account.Store) *Context {
	return &Context{Mollusk: m, Store: store}
}

// HydrateStore preloads every sysvar stub and every cached program's
// synthesized account into the store, so a later lookup for one of
// those keys hits the store directly instead of falling through.
func (c *Context) HydrateStore() {
	for _, e := range c.Mollusk.Sysvars.StubAccounts() {
		if _, ok := c.Store.GetAccount(e.Key); !ok {
			c.Store.StoreAccount(e.Key, e.Account)
		}
	}
	for _, e := range c.Mollusk.ProgramCache.GetAllKeyedProgramAccounts() {
		if _, ok := c.Store.GetAccount(e.Key); !ok {
			c.Store.StoreAccount(e.Key, e.Account)
		}
	}
}

// keysFor collects the ordered, deduplicated set of keys an instruction
// set references: every account meta plus every program ID.
func keysFor(instructions []instruction.Instruction) []pubkey.Pubkey {
	seen := make(map[pubkey.Pubkey]struct{})
	var keys []pubkey.Pubkey
	add := func(k pubkey.Pubkey) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, ix := range instructions {
		add(ix.ProgramID)
		for _, meta := range ix.Accounts {
			add(meta.Pubkey)
		}
	}
	return keys
}

// hydrate resolves each referenced key against the store, falling
// through to the sysvar stub, then the program cache stub, then the
// store's own default account, in that order.
func (c *Context) hydrate(keys []pubkey.Pubkey) account.Entries {
	out := make(account.Entries, len(keys))
	for i, k := range keys {
		if a, ok := c.Store.GetAccount(k); ok {
			out[i] = account.Entry{Key: k, Account: a}
			continue
		}
		if a, ok := sysvarStub(c.Mollusk, k); ok {
			out[i] = account.Entry{Key: k, Account: a}
			continue
		}
		if a, ok := c.Mollusk.ProgramCache.MaybeCreateProgramAccount(k); ok {
			out[i] = account.Entry{Key: k, Account: a}
			continue
		}
		out[i] = account.Entry{Key: k, Account: c.Store.DefaultAccount(k)}
	}
	return out
}

func sysvarStub(m *Mollusk, key pubkey.Pubkey) (account.Account, bool) {
	for _, e := range m.Sysvars.StubAccounts() {
		if e.Key == key {
			return e.Account, true
		}
	}
	return account.Account{}, false
}

// persist writes every resulting account back to the store. Callers
// only invoke this on success, per the Stateful Context's persistence
// rule: a failed invocation leaves the store untouched.
func (c *Context) persist(resulting account.Entries) {
	for _, e := range resulting {
		c.Store.StoreAccount(e.Key, e.Account)
	}
}

// ProcessInstruction hydrates ix's referenced accounts from the store,
// runs the underlying harness, and persists the resulting accounts back
// to the store on success only.
func (c *Context) ProcessInstruction(ix instruction.Instruction) *result.InstructionResult {
	accounts := c.hydrate(keysFor([]instruction.Instruction{ix}))
	res := c.Mollusk.ProcessInstruction(ix, accounts)
	if !res.ProgramResult.IsErr() {
		c.persist(res.ResultingAccounts)
	}
	return res
}

// ProcessInstructionChain hydrates the union of every instruction's
// referenced accounts from the store once, runs the chain, and persists
// the resulting accounts on success only (a chain that halts partway
// through per its own failure semantics still only persists when the
// composite result is not an error).
func (c *Context) ProcessInstructionChain(instructions []instruction.Instruction) *result.InstructionResult {
	accounts := c.hydrate(keysFor(instructions))
	res := c.Mollusk.ProcessInstructionChain(instructions, accounts)
	if !res.ProgramResult.IsErr() {
		c.persist(res.ResultingAccounts)
	}
	return res
}

// ProcessTransactionInstructions hydrates, runs the transaction, and
// persists on success only.
func (c *Context) ProcessTransactionInstructions(instructions []instruction.Instruction) *result.TransactionResult {
	accounts := c.hydrate(keysFor(instructions))
	res := c.Mollusk.ProcessTransactionInstructions(instructions, accounts)
	if !res.ProgramResult.IsErr() {
		c.persist(res.ResultingAccounts)
	}
	return res
}
