// Package mollusk implements the native ("Format A") fixture codec: the
// wire shape the harness itself reads and writes, as opposed to the
// Firedancer-compatible format in package firedancer.
package mollusk

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
	"github.com/mollusk-svm/mollusk-go/sysvar"
)

// Context is Format A's instruction context record.
type Context struct {
	ComputeBudget       computebudget.ComputeBudget `json:"computeBudget"`
	FeatureSet          featureset.FeatureSet       `json:"-"`
	FeatureIDs          []pubkey.Pubkey             `json:"featureSet"`
	Sysvars             sysvar.Block                `json:"sysvars"`
	ProgramID           pubkey.Pubkey               `json:"programId"`
	InstructionAccounts []instruction.AccountMeta   `json:"instructionAccounts"`
	InstructionData     []byte                      `json:"instructionData"`
	Accounts            account.Entries             `json:"accounts"`
}

// Effects is Format A's post-execution effects record. ProgramResult is
// the native u64 error-code encoding (svmerror.ToU64 / FromU64): zero on
// success.
type Effects struct {
	ComputeUnitsConsumed uint64          `json:"computeUnitsConsumed"`
	ExecutionTimeUS      uint64          `json:"executionTime"`
	ProgramResult        uint64          `json:"programResult"`
	ReturnData           []byte          `json:"returnData"`
	ResultingAccounts    account.Entries `json:"resultingAccounts"`
}

// Fixture pairs a Context with its expected/observed Effects, the unit
// the codec reads from and writes to disk.
type Fixture struct {
	Context Context `json:"context"`
	Effects Effects `json:"effects"`
}

// FromInstructionResult builds the Effects half of a fixture from a
// harness result, per the source's From<&InstructionResult> rule:
// Success -> 0, Failure(e) -> u64::from(e), UnknownError -> sentinel.
func FromInstructionResult(res *result.InstructionResult) Effects {
	var code uint64
	switch res.ProgramResult.Kind {
	case result.Success:
		code = 0
	case result.Failure:
		code = svmerror.ToU64(instructionErrFromProgramErr(res.ProgramResult.ProgramErr))
	default:
		code = ^uint64(0)
	}
	return Effects{
		ComputeUnitsConsumed: res.ComputeUnitsConsumed,
		ExecutionTimeUS:      res.ExecutionTimeUS,
		ProgramResult:        code,
		ReturnData:           res.ReturnData,
		ResultingAccounts:    res.ResultingAccounts,
	}
}

func instructionErrFromProgramErr(pe svmerror.ProgramError) *svmerror.InstructionError {
	if pe.Kind == svmerror.ProgramCustom {
		e := svmerror.NewCustom(pe.CustomCode)
		return &e
	}
	e := svmerror.InstructionError{Kind: svmerror.InvalidArgument}
	for k, v := range kindFromProgramError {
		if v == pe.Kind {
			e = svmerror.InstructionError{Kind: k}
			break
		}
	}
	return &e
}

// kindFromProgramError mirrors svmerror's private program<->instruction
// mapping; duplicated here (read-only, small) to avoid exporting it
// purely for this one conversion.
var kindFromProgramError = map[svmerror.InstructionErrorKind]svmerror.ProgramErrorKind{
	svmerror.InvalidArgument:           svmerror.ProgramInvalidArgument,
	svmerror.InvalidInstructionData:    svmerror.ProgramInvalidInstructionData,
	svmerror.InvalidAccountData:        svmerror.ProgramInvalidAccountData,
	svmerror.AccountDataTooSmall:       svmerror.ProgramAccountDataTooSmall,
	svmerror.InsufficientFunds:         svmerror.ProgramInsufficientFunds,
	svmerror.IncorrectProgramId:        svmerror.ProgramIncorrectProgramId,
	svmerror.MissingRequiredSignature:  svmerror.ProgramMissingRequiredSignature,
	svmerror.AccountAlreadyInitialized: svmerror.ProgramAccountAlreadyInitialized,
	svmerror.UninitializedAccount:      svmerror.ProgramUninitializedAccount,
	svmerror.NotEnoughAccountKeys:      svmerror.ProgramNotEnoughAccountKeys,
	svmerror.AccountBorrowFailed:       svmerror.ProgramAccountBorrowFailed,
	svmerror.MaxSeedLengthExceeded:     svmerror.ProgramMaxSeedLengthExceeded,
	svmerror.InvalidSeeds:              svmerror.ProgramInvalidSeeds,
	svmerror.BorshIoError:              svmerror.ProgramBorshIoError,
	svmerror.AccountNotRentExempt:      svmerror.ProgramAccountNotRentExempt,
	svmerror.UnsupportedSysvar:         svmerror.ProgramUnsupportedSysvar,
	svmerror.IllegalOwner:              svmerror.ProgramIllegalOwner,
	svmerror.InvalidRealloc:            svmerror.ProgramInvalidRealloc,
	svmerror.ArithmeticOverflow:        svmerror.ProgramArithmeticOverflow,
	svmerror.Immutable:                 svmerror.ProgramImmutable,
	svmerror.IncorrectAuthority:        svmerror.ProgramIncorrectAuthority,
}

// ToInstructionResult reverses FromInstructionResult's effects half,
// reconstructing the program_result tagged union from the raw u64 code.
// The UnknownError sentinel is not recognised: it decodes through
// svmerror.FromU64 as a Custom error, giving a Failure result.
func (e Effects) ToInstructionResult() *result.InstructionResult {
	rawResult := svmerror.FromU64(e.ProgramResult)
	return &result.InstructionResult{
		ComputeUnitsConsumed: e.ComputeUnitsConsumed,
		ExecutionTimeUS:      e.ExecutionTimeUS,
		ProgramResult:        result.FromRawResult(rawResult),
		RawResult:            rawResult,
		ReturnData:           e.ReturnData,
		ResultingAccounts:    e.ResultingAccounts,
	}
}

// ResolveDefaults fills in a Context's compute budget and feature set
// when the fixture omitted them: missing feature set defaults to empty;
// missing compute budget defaults via the two named SIMD feature IDs
// (simd_0268 raises CU limit behavior, simd_0339 raises heap behavior).
func (c *Context) ResolveDefaults() {
	fs := featureset.New()
	for _, id := range c.FeatureIDs {
		fs.Activate(id)
	}
	c.FeatureSet = fs
	if c.ComputeBudget.ComputeUnitLimit == 0 {
		simdCU := c.FeatureSet.IsActive(featureset.SIMDComputeUnitDefault)
		simdHeap := c.FeatureSet.IsActive(featureset.SIMDHeapSizeDefault)
		c.ComputeBudget = computebudget.NewWithDefaults(simdCU, simdHeap)
	}
}

// NewContext builds a Context ready for emission, flattening the
// runtime FeatureSet into its serializable FeatureIDs list.
func NewContext(cb computebudget.ComputeBudget, fs featureset.FeatureSet, sysvars sysvar.Block, programID pubkey.Pubkey, ix instruction.Instruction, accounts account.Entries) Context {
	return Context{
		ComputeBudget:       cb,
		FeatureSet:          fs,
		FeatureIDs:          fs.Keys(),
		Sysvars:             sysvars,
		ProgramID:           programID,
		InstructionAccounts: ix.Accounts,
		InstructionData:     ix.Data,
		Accounts:            accounts,
	}
}

// EncodeBinary gob-encodes a fixture for the EJECT_FUZZ_FIXTURES binary
// emission path. The native format has no externally-defined byte
// layout of its own (only Format B's layout is fixed by an external
// schema), so a Go-native binary codec is a faithful rendition rather
// than a compatibility shim.
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

// EncodeJSON encodes a fixture for the EJECT_FUZZ_FIXTURES_JSON path.
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
