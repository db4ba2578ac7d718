// Package result implements the harness's Result Model: the typed
// per-instruction and per-transaction result records, the ProgramResult
// / TransactionProgramResult tagged unions, and chain "absorption"
// semantics.
package result

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/message"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// ProgramResultKind tags the three ways a program invocation can end.
type ProgramResultKind int

const (
	Success ProgramResultKind = iota
	Failure
	UnknownErrorKind
)

// ProgramResult is the tagged variant Success | Failure(ProgramError) |
// UnknownError(InstructionError). Construction from an engine result
// follows the rule in the data model: Ok -> Success; Err(e) -> Failure(p)
// when e maps to a known ProgramError, else UnknownError(e).
type ProgramResult struct {
	Kind       ProgramResultKind
	ProgramErr svmerror.ProgramError
	UnknownErr svmerror.InstructionError
}

// FromRawResult builds a ProgramResult from a raw engine outcome.
func FromRawResult(err *svmerror.InstructionError) ProgramResult {
	if err == nil {
		return ProgramResult{Kind: Success}
	}
	if pe, ok := svmerror.AsProgramError(*err); ok {
		return ProgramResult{Kind: Failure, ProgramErr: pe}
	}
	return ProgramResult{Kind: UnknownErrorKind, UnknownErr: *err}
}

// IsOk reports whether the program succeeded.
func (r ProgramResult) IsOk() bool { return r.Kind == Success }

// IsErr reports whether the program failed, however it is represented.
func (r ProgramResult) IsErr() bool { return r.Kind != Success }

// Equal compares two ProgramResults for Compare-Engine and Check-Engine use.
func (r ProgramResult) Equal(other ProgramResult) bool {
	if r.Kind != other.Kind {
		return false
	}
	switch r.Kind {
	case Failure:
		return r.ProgramErr.Equal(other.ProgramErr)
	case UnknownErrorKind:
		return r.UnknownErr.Equal(other.UnknownErr)
	default:
		return true
	}
}

// TransactionProgramResult additionally carries the zero-based failing
// instruction index, derived from TransactionError::InstructionError.
type TransactionProgramResult struct {
	ProgramResult
	InstructionIndex int
}

// FromTransactionError builds a TransactionProgramResult from the
// engine's transaction-scope outcome.
func FromTransactionError(txErr *svmerror.TransactionError) TransactionProgramResult {
	if txErr == nil {
		return TransactionProgramResult{ProgramResult: ProgramResult{Kind: Success}}
	}
	if txErr.IsInstructionError {
		return TransactionProgramResult{
			ProgramResult:    FromRawResult(&txErr.InstructionErr),
			InstructionIndex: txErr.InstructionIndex,
		}
	}
	return TransactionProgramResult{ProgramResult: ProgramResult{Kind: UnknownErrorKind}}
}

// AsProgramResult drops the instruction index, used when a transaction
// result must be checked with the single-result Check Engine.
func (t TransactionProgramResult) AsProgramResult() ProgramResult {
	return t.ProgramResult
}

// InnerInstruction preserves the raw compiled form of one CPI-depth
// instruction, with transaction-account indices (not resolved pubkeys)
// and its stack height (nesting_level + 1; always >= 2).
type InnerInstruction struct {
	ProgramIDIndex uint8
	AccountIndices []uint8
	Data           []byte
	StackHeight    int
}

// InstructionResult is the per-instruction (or per-chain-composite)
// result record.
type InstructionResult struct {
	ComputeUnitsConsumed uint64
	ExecutionTimeUS      uint64
	ProgramResult        ProgramResult
	RawResult            *svmerror.InstructionError
	ReturnData           []byte
	ResultingAccounts    account.Entries
	InnerInstructions    []InnerInstruction
	Message              *message.Message
}

// GetAccount returns the resulting account for key, mirroring the
// source's InstructionResult::get_account helper.
func (r *InstructionResult) GetAccount(key [32]byte) (account.Account, bool) {
	for _, e := range r.ResultingAccounts {
		if [32]byte(e.Key) == key {
			return e.Account, true
		}
	}
	return account.Account{}, false
}

// Absorb folds other into r per the chain-composite semantics: compute
// units and execution time accumulate, every other field (program
// result, raw result, return data, resulting accounts, inner
// instructions, message) is overwritten by other's. This is the
// "absorption" rule the Harness Facade's instruction-chain API uses to
// build a single composite result out of a sequence of independently
// executed instructions.
func (r *InstructionResult) Absorb(other *InstructionResult) {
	r.ComputeUnitsConsumed += other.ComputeUnitsConsumed
	r.ExecutionTimeUS += other.ExecutionTimeUS
	r.ProgramResult = other.ProgramResult
	r.RawResult = other.RawResult
	r.ReturnData = other.ReturnData
	r.ResultingAccounts = other.ResultingAccounts
	r.InnerInstructions = other.InnerInstructions
	r.Message = other.Message
}

// TransactionResult is the per-transaction result record: same shape as
// InstructionResult, but the program result carries a failing
// instruction index, and inner instructions are grouped per top-level
// instruction rather than flattened.
type TransactionResult struct {
	ComputeUnitsConsumed uint64
	ExecutionTimeUS      uint64
	ProgramResult        TransactionProgramResult
	RawResult            *svmerror.TransactionError
	ReturnData           []byte
	ResultingAccounts    account.Entries
	InnerInstructions    [][]InnerInstruction
	Message              *message.Message
}

// ExtractInstructionResult collapses a TransactionResult down to the
// single-instruction shape the Check Engine understands: the program
// result loses its instruction index, and inner instructions take the
// first top-level group only (the chain/transaction inner-instruction
// divergence the design notes call out; transaction mode keeps full
// per-instruction grouping in InnerInstructions itself, this accessor is
// only for check compatibility).
func (t *TransactionResult) ExtractInstructionResult() *InstructionResult {
	var first []InnerInstruction
	if len(t.InnerInstructions) > 0 {
		first = t.InnerInstructions[0]
	}
	return &InstructionResult{
		ComputeUnitsConsumed: t.ComputeUnitsConsumed,
		ExecutionTimeUS:      t.ExecutionTimeUS,
		ProgramResult:        t.ProgramResult.AsProgramResult(),
		RawResult:            instructionErrFromTxErr(t.RawResult),
		ReturnData:           t.ReturnData,
		ResultingAccounts:    t.ResultingAccounts,
		InnerInstructions:    first,
		Message:              t.Message,
	}
}

func instructionErrFromTxErr(txErr *svmerror.TransactionError) *svmerror.InstructionError {
	if txErr == nil || !txErr.IsInstructionError {
		return nil
	}
	e := txErr.InstructionErr
	return &e
}
