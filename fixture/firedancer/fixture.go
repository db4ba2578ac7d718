// Package firedancer implements the Firedancer-compatible ("Format B")
// fixture codec: a wire shape shared with the Firedancer SVM fuzzing
// harness, including its bincode-derived error-code encoding.
package firedancer

import (
	"bytes"
	"encoding/gob"
	"encoding/json"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/computebudget"
	"github.com/mollusk-svm/mollusk-go/featureset"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

const (
	flagSigner   = 1 << 0
	flagWritable = 1 << 1
)

// InstructionAccount is an account reference inside a compiled
// instruction, indices-with-bit-flags form: IndexInTransaction is an
// index into Context.Accounts, and Flags packs signer/writable.
type InstructionAccount struct {
	IndexInTransaction uint16
	Flags              uint8
}

// NewInstructionAccount packs an index and privilege flags.
func NewInstructionAccount(index uint16, isSigner, isWritable bool) InstructionAccount {
	var flags uint8
	if isSigner {
		flags |= flagSigner
	}
	if isWritable {
		flags |= flagWritable
	}
	return InstructionAccount{IndexInTransaction: index, Flags: flags}
}

func (a InstructionAccount) IsSigner() bool   { return a.Flags&flagSigner != 0 }
func (a InstructionAccount) IsWritable() bool { return a.Flags&flagWritable != 0 }

// AccountState is one (key, account) pair in a Firedancer context,
// optionally tagged with the PDA seed address it was derived from
// (absent for vanilla accounts).
type AccountState struct {
	Key      pubkey.Pubkey
	Account  account.Account
	SeedAddr []byte `json:"seedAddr,omitempty"`
}

// SlotContext carries the slot the invocation is simulated at.
type SlotContext struct {
	Slot uint64
}

// EpochContext carries the feature set active at invocation time.
type EpochContext struct {
	FeatureIDs []pubkey.Pubkey
}

// Context is Format B's instruction context record.
type Context struct {
	ProgramID             pubkey.Pubkey
	Accounts              []AccountState
	InstructionAccounts   []InstructionAccount
	InstructionData       []byte
	ComputeUnitsAvailable uint64
	SlotContext           SlotContext
	EpochContext          EpochContext
}

// Effects is Format B's post-execution effects record.
type Effects struct {
	ProgramResult         int32
	ProgramCustomCode     uint32
	ModifiedAccounts      []AccountState
	ComputeUnitsAvailable uint64
	ReturnData            []byte
}

// Fixture pairs a Context with its Effects.
type Fixture struct {
	Context Context
	Effects Effects
}

// BuildContext assembles a Format B context from a compiled invocation:
// the transaction accounts are copied in as-is. No loader key is
// inferred here; InferLoaderKey is a separate helper.
func BuildContext(cb computebudget.ComputeBudget, fs featureset.FeatureSet, slot uint64, ix instruction.Instruction, compiled instruction.CompiledInstruction, txAccounts account.Entries, isSigner, isWritable []bool) Context {
	states := make([]AccountState, len(txAccounts))
	for i, e := range txAccounts {
		states[i] = AccountState{Key: e.Key, Account: e.Account}
	}

	instrAccounts := make([]InstructionAccount, len(compiled.Accounts))
	for i, idx := range compiled.Accounts {
		instrAccounts[i] = NewInstructionAccount(uint16(idx), isSigner[idx], isWritable[idx])
	}

	return Context{
		ProgramID:             ix.ProgramID,
		Accounts:              states,
		InstructionAccounts:   instrAccounts,
		InstructionData:       ix.Data,
		ComputeUnitsAvailable: cb.ComputeUnitLimit,
		SlotContext:           SlotContext{Slot: slot},
		EpochContext:          EpochContext{FeatureIDs: fs.Keys()},
	}
}

// InferLoaderKey mirrors the reference's builtin-vs-BPF loader
// inference used when synthesizing a program-ID fallback account for a
// Format B context.
func InferLoaderKey(defaultLoaderKey, programID pubkey.Pubkey) pubkey.Pubkey {
	if pubkey.IsBuiltinProgramID(programID) {
		return pubkey.NativeLoader
	}
	return defaultLoaderKey
}

// ToInstruction reconstructs the caller-facing Instruction and its
// flat account list from a parsed context, resolving instruction
// account indices back to pubkeys.
func (c Context) ToInstruction() (instruction.Instruction, account.Entries) {
	accounts := make(account.Entries, len(c.Accounts))
	for i, s := range c.Accounts {
		accounts[i] = account.Entry{Key: s.Key, Account: s.Account}
	}

	metas := make([]instruction.AccountMeta, len(c.InstructionAccounts))
	for i, ia := range c.InstructionAccounts {
		metas[i] = instruction.AccountMeta{
			Pubkey:     accounts[ia.IndexInTransaction].Key,
			IsSigner:   ia.IsSigner(),
			IsWritable: ia.IsWritable(),
		}
	}

	return instruction.Instruction{
		ProgramID: c.ProgramID,
		Accounts:  metas,
		Data:      c.InstructionData,
	}, accounts
}

// ComputeBudget reconstructs a ComputeBudget from the context's
// available-compute-units field, defaulting every other field per the
// current SIMD-gated defaults.
func (c Context) ComputeBudget() computebudget.ComputeBudget {
	cb := computebudget.NewWithDefaults(true, true)
	cb.ComputeUnitLimit = c.ComputeUnitsAvailable
	return cb
}

// FeatureSet reconstructs a FeatureSet from the context's flattened ID
// list.
func (c Context) FeatureSet() featureset.FeatureSet {
	fs := featureset.New()
	for _, id := range c.EpochContext.FeatureIDs {
		fs.Activate(id)
	}
	return fs
}

// BuildEffects derives a Format B effects record from a harness result,
// diffing against the context's pre-execution accounts so only modified
// accounts are carried (per the format's "effects carry only modified
// accounts" rule).
func BuildEffects(ctx Context, res *result.InstructionResult) Effects {
	var customCode uint32
	var programResult int32
	if res.RawResult != nil {
		if res.RawResult.Kind == svmerror.Custom {
			customCode = res.RawResult.CustomCode
		}
		programResult = svmerror.ToWireCode(res.RawResult)
	}

	var modified []AccountState
	for _, pre := range ctx.Accounts {
		post, ok := res.ResultingAccounts.Find(pre.Key)
		if !ok || post.Equal(pre.Account) {
			continue
		}
		modified = append(modified, AccountState{Key: pre.Key, Account: post, SeedAddr: pre.SeedAddr})
	}

	cuAvailable := ctx.ComputeUnitsAvailable
	if res.ComputeUnitsConsumed < cuAvailable {
		cuAvailable -= res.ComputeUnitsConsumed
	} else {
		cuAvailable = 0
	}

	return Effects{
		ProgramResult:         programResult,
		ProgramCustomCode:     customCode,
		ModifiedAccounts:      modified,
		ComputeUnitsAvailable: cuAvailable,
		ReturnData:            res.ReturnData,
	}
}

// ParseEffects reverses BuildEffects: reconstructs an InstructionResult
// given the pre-execution accounts and the compute unit limit the
// context was built with. Unmodified accounts are copied forward from
// the input.
func ParseEffects(preAccounts account.Entries, computeUnitLimit uint64, e Effects) *result.InstructionResult {
	rawResult := svmerror.FromWireCode(e.ProgramResult, e.ProgramCustomCode)

	resulting := make(account.Entries, len(preAccounts))
	for i, pre := range preAccounts {
		resulting[i] = pre
		for _, m := range e.ModifiedAccounts {
			if m.Key == pre.Key {
				resulting[i] = account.Entry{Key: pre.Key, Account: m.Account}
				break
			}
		}
	}

	var cuConsumed uint64
	if computeUnitLimit > e.ComputeUnitsAvailable {
		cuConsumed = computeUnitLimit - e.ComputeUnitsAvailable
	}

	return &result.InstructionResult{
		ComputeUnitsConsumed: cuConsumed,
		ProgramResult:        result.FromRawResult(rawResult),
		RawResult:            rawResult,
		ReturnData:           e.ReturnData,
		ResultingAccounts:    resulting,
	}
}

// EncodeBinary gob-encodes a fixture for the EJECT_FUZZ_FIXTURES_FD
// binary emission path. Format B's true on-disk layout is protobuf,
// defined by an external schema out of this harness's scope (per the
// component's own contract: only the in-memory context/effects
// translation and the error-code encoding are reproduced here); this
// binary codec is Go-native and used for in-process round-tripping and
// the JSON emission path's binary counterpart.
func EncodeBinary(f *Fixture) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBinary reverses EncodeBinary.
func DecodeBinary(data []byte) (*Fixture, error) {
	var f Fixture
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// EncodeJSON encodes a fixture for the EJECT_FUZZ_FIXTURES_FD_JSON path.
func EncodeJSON(f *Fixture) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// DecodeJSON reverses EncodeJSON.
func DecodeJSON(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
