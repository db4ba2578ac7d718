// Package check implements the harness's Check Engine: a closed set of
// single-result predicates over an InstructionResult, executed under a
// result.Config that governs panic-vs-log behavior on mismatch.
package check

import (
	"bytes"
	"fmt"

	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

type kind int

const (
	kindComputeUnits kind = iota
	kindExecutionTime
	kindSuccess
	kindErr
	kindInstructionErr
	kindReturnData
	kindAccount
	kindAllRentExempt
	kindInnerInstructionCount
)

// Check is one predicate in a Check Engine assertion list.
type Check struct {
	kind                 kind
	u64Value             uint64
	intValue             int
	bytesValue           []byte
	programErr           svmerror.ProgramError
	instructionErr       svmerror.InstructionError
	account              *AccountCheck
}

// ComputeUnits asserts cu_consumed == n.
func ComputeUnits(n uint64) Check { return Check{kind: kindComputeUnits, u64Value: n} }

// ExecutionTime asserts execution_time == t.
func ExecutionTime(t uint64) Check { return Check{kind: kindExecutionTime, u64Value: t} }

// Success asserts program_result == Success.
func Success() Check { return Check{kind: kindSuccess} }

// Err asserts program_result == Failure(e).
func Err(e svmerror.ProgramError) Check { return Check{kind: kindErr, programErr: e} }

// InstructionErr asserts program_result == UnknownError(e).
func InstructionErr(e svmerror.InstructionError) Check {
	return Check{kind: kindInstructionErr, instructionErr: e}
}

// ReturnData asserts exact byte equality with the result's return data.
func ReturnData(b []byte) Check { return Check{kind: kindReturnData, bytesValue: b} }

// AllRentExempt asserts every resulting account is rent-exempt under
// the result.RentContext in use (a zero-lamport account with the
// default owner is always allowed).
func AllRentExempt() Check { return Check{kind: kindAllRentExempt} }

// InnerInstructionCount asserts len(inner_instructions) == n.
func InnerInstructionCount(n int) Check { return Check{kind: kindInnerInstructionCount, intValue: n} }

// ForAccount asserts the builder's composed predicates against the
// named account.
func ForAccount(a *AccountCheck) Check { return Check{kind: kindAccount, account: a} }

// AccountCheck composes several predicates against one resulting
// account; only fields explicitly set via its builder methods are
// checked.
type AccountCheck struct {
	pubkey          pubkey.Pubkey
	wantClosed      *bool
	wantData        []byte
	wantExecutable  *bool
	wantLamports    *uint64
	wantOwner       *pubkey.Pubkey
	wantRentExempt  bool
	wantSpace       *int
	sliceOffset     int
	wantSlice       []byte
	hasSlice        bool
}

// Account begins a new AccountCheck builder for key.
func Account(key pubkey.Pubkey) *AccountCheck {
	return &AccountCheck{pubkey: key}
}

func (a *AccountCheck) Closed() *AccountCheck {
	v := true
	a.wantClosed = &v
	return a
}

func (a *AccountCheck) Data(b []byte) *AccountCheck {
	a.wantData = b
	return a
}

func (a *AccountCheck) Executable(want bool) *AccountCheck {
	a.wantExecutable = &want
	return a
}

func (a *AccountCheck) Lamports(n uint64) *AccountCheck {
	a.wantLamports = &n
	return a
}

func (a *AccountCheck) Owner(o pubkey.Pubkey) *AccountCheck {
	a.wantOwner = &o
	return a
}

func (a *AccountCheck) RentExempt() *AccountCheck {
	a.wantRentExempt = true
	return a
}

func (a *AccountCheck) Space(n int) *AccountCheck {
	a.wantSpace = &n
	return a
}

func (a *AccountCheck) DataSlice(offset int, b []byte) *AccountCheck {
	a.sliceOffset = offset
	a.wantSlice = b
	a.hasSlice = true
	return a
}

// RunChecks evaluates every check in checks against res, reporting each
// mismatch via cfg (panic, or log-and-continue). Returns true only if
// every check passed.
func RunChecks(res *result.InstructionResult, checks []Check, cfg result.Config, rentCtx result.RentContext) bool {
	ok := true
	for _, c := range checks {
		if !runOne(res, c, cfg, rentCtx) {
			ok = false
		}
	}
	return ok
}

func runOne(res *result.InstructionResult, c Check, cfg result.Config, rentCtx result.RentContext) bool {
	switch c.kind {
	case kindComputeUnits:
		if res.ComputeUnitsConsumed != c.u64Value {
			return cfg.Report(fmt.Sprintf("compute_units: got %d, want %d", res.ComputeUnitsConsumed, c.u64Value))
		}
	case kindExecutionTime:
		if res.ExecutionTimeUS != c.u64Value {
			return cfg.Report(fmt.Sprintf("execution_time: got %d, want %d", res.ExecutionTimeUS, c.u64Value))
		}
	case kindSuccess:
		if res.ProgramResult.Kind != result.Success {
			return cfg.Report("success: program result was not Success")
		}
	case kindErr:
		want := result.ProgramResult{Kind: result.Failure, ProgramErr: c.programErr}
		if !res.ProgramResult.Equal(want) {
			return cfg.Report(fmt.Sprintf("err: got %v, want Failure(%v)", res.ProgramResult, c.programErr))
		}
	case kindInstructionErr:
		want := result.ProgramResult{Kind: result.UnknownErrorKind, UnknownErr: c.instructionErr}
		if !res.ProgramResult.Equal(want) {
			return cfg.Report(fmt.Sprintf("instruction_err: got %v, want UnknownError(%v)", res.ProgramResult, c.instructionErr))
		}
	case kindReturnData:
		if !bytes.Equal(res.ReturnData, c.bytesValue) {
			return cfg.Report("return_data: byte mismatch")
		}
	case kindAllRentExempt:
		for _, e := range res.ResultingAccounts {
			if e.Account.Lamports == 0 && e.Account.Owner.IsDefault() {
				continue
			}
			if !rentCtx.IsRentExempt(e.Account.Lamports, len(e.Account.Data)) {
				return cfg.Report(fmt.Sprintf("all_rent_exempt: %s is not rent exempt", e.Key))
			}
		}
	case kindInnerInstructionCount:
		if len(res.InnerInstructions) != c.intValue {
			return cfg.Report(fmt.Sprintf("inner_instruction_count: got %d, want %d", len(res.InnerInstructions), c.intValue))
		}
	case kindAccount:
		return runAccountCheck(res, c.account, cfg, rentCtx)
	}
	return true
}

func runAccountCheck(res *result.InstructionResult, a *AccountCheck, cfg result.Config, rentCtx result.RentContext) bool {
	acct, found := res.ResultingAccounts.Find(a.pubkey)
	ok := true
	if a.wantClosed != nil {
		isClosed := acct.Lamports == 0 && len(acct.Data) == 0
		if *a.wantClosed != isClosed {
			ok = cfg.Report(fmt.Sprintf("account(%s).closed: got %v, want %v", a.pubkey, isClosed, *a.wantClosed)) && ok
		}
	}
	if a.wantData != nil {
		if !found || !bytes.Equal(acct.Data, a.wantData) {
			ok = cfg.Report(fmt.Sprintf("account(%s).data: mismatch", a.pubkey)) && ok
		}
	}
	if a.wantExecutable != nil {
		if !found || acct.Executable != *a.wantExecutable {
			ok = cfg.Report(fmt.Sprintf("account(%s).executable: got %v, want %v", a.pubkey, found && acct.Executable, *a.wantExecutable)) && ok
		}
	}
	if a.wantLamports != nil {
		if !found || acct.Lamports != *a.wantLamports {
			ok = cfg.Report(fmt.Sprintf("account(%s).lamports: got %d, want %d", a.pubkey, acct.Lamports, *a.wantLamports)) && ok
		}
	}
	if a.wantOwner != nil {
		if !found || acct.Owner != *a.wantOwner {
			ok = cfg.Report(fmt.Sprintf("account(%s).owner: got %s, want %s", a.pubkey, acct.Owner, *a.wantOwner)) && ok
		}
	}
	if a.wantRentExempt {
		if !found || !rentCtx.IsRentExempt(acct.Lamports, len(acct.Data)) {
			ok = cfg.Report(fmt.Sprintf("account(%s).rent_exempt: not rent exempt", a.pubkey)) && ok
		}
	}
	if a.wantSpace != nil {
		if !found || len(acct.Data) != *a.wantSpace {
			ok = cfg.Report(fmt.Sprintf("account(%s).space: got %d, want %d", a.pubkey, len(acct.Data), *a.wantSpace)) && ok
		}
	}
	if a.hasSlice {
		if !found || a.sliceOffset+len(a.wantSlice) > len(acct.Data) ||
			!bytes.Equal(acct.Data[a.sliceOffset:a.sliceOffset+len(a.wantSlice)], a.wantSlice) {
			ok = cfg.Report(fmt.Sprintf("account(%s).data_slice(%d): mismatch", a.pubkey, a.sliceOffset)) && ok
		}
	}
	return ok
}
