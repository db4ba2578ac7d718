// Package compare implements the harness's Compare Engine: pairwise
// field-toggle comparisons between two InstructionResults, executed
// under a result.Config that governs panic-vs-log behavior on mismatch.
package compare

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/result"
)

type kind int

const (
	kindComputeUnits kind = iota
	kindExecutionTime
	kindProgramResult
	kindReturnData
	kindAllResultingAccounts
	kindOnlyResultingAccounts
	kindAllResultingAccountsExcept
)

// AccountFields selects which account fields a resulting-accounts
// comparison checks.
type AccountFields struct {
	Data       bool
	Executable bool
	Lamports   bool
	Owner      bool
	Space      bool
}

// AllAccountFields enables every field, the default for the preset
// constructors below.
func AllAccountFields() AccountFields {
	return AccountFields{Data: true, Executable: true, Lamports: true, Owner: true, Space: true}
}

// Compare is one entry in a Compare Engine assertion list.
type Compare struct {
	kind     kind
	fields   AccountFields
	pubkeys  []pubkey.Pubkey
}

func ComputeUnits() Compare  { return Compare{kind: kindComputeUnits} }
func ExecutionTime() Compare { return Compare{kind: kindExecutionTime} }
func ProgramResult() Compare { return Compare{kind: kindProgramResult} }
func ReturnData() Compare    { return Compare{kind: kindReturnData} }

// AllResultingAccounts validates all resulting accounts under fields.
func AllResultingAccounts(fields AccountFields) Compare {
	return Compare{kind: kindAllResultingAccounts, fields: fields}
}

// OnlyResultingAccounts validates only the named addresses under fields.
func OnlyResultingAccounts(addresses []pubkey.Pubkey, fields AccountFields) Compare {
	return Compare{kind: kindOnlyResultingAccounts, pubkeys: addresses, fields: fields}
}

// AllResultingAccountsExcept validates every resulting account except
// the named addresses, under fields.
func AllResultingAccountsExcept(ignoreAddresses []pubkey.Pubkey, fields AccountFields) Compare {
	return Compare{kind: kindAllResultingAccountsExcept, pubkeys: ignoreAddresses, fields: fields}
}

// EverythingButCUs is the preset that checks program result, return
// data, and all resulting account fields, but not compute units
// (execution time is intentionally omitted, since engines are not
// expected to agree on wall-clock timing).
func EverythingButCUs() []Compare {
	return []Compare{
		ProgramResult(),
		ReturnData(),
		AllResultingAccounts(AllAccountFields()),
	}
}

// Everything is the preset that additionally checks compute units.
func Everything() []Compare {
	return []Compare{
		ComputeUnits(),
		ProgramResult(),
		ReturnData(),
		AllResultingAccounts(AllAccountFields()),
	}
}

// CompareWithConfig compares a against b over checks, reporting each
// mismatch via cfg. Returns true only if every check passed.
func CompareWithConfig(a, b *result.InstructionResult, checks []Compare, cfg result.Config) bool {
	ok := true
	for _, c := range checks {
		if !runOne(a, b, c, cfg) {
			ok = false
		}
	}
	return ok
}

func runOne(a, b *result.InstructionResult, c Compare, cfg result.Config) bool {
	switch c.kind {
	case kindComputeUnits:
		if a.ComputeUnitsConsumed != b.ComputeUnitsConsumed {
			return cfg.Report(fmt.Sprintf("compute_units_consumed: %d != %d", a.ComputeUnitsConsumed, b.ComputeUnitsConsumed))
		}
	case kindExecutionTime:
		if a.ExecutionTimeUS != b.ExecutionTimeUS {
			return cfg.Report(fmt.Sprintf("execution_time: %d != %d", a.ExecutionTimeUS, b.ExecutionTimeUS))
		}
	case kindProgramResult:
		if !a.ProgramResult.Equal(b.ProgramResult) {
			return cfg.Report(fmt.Sprintf("program_result: %s != %s", spew.Sdump(a.ProgramResult), spew.Sdump(b.ProgramResult)))
		}
	case kindReturnData:
		if string(a.ReturnData) != string(b.ReturnData) {
			return cfg.Report("return_data: byte mismatch")
		}
	case kindAllResultingAccounts:
		ok := true
		if len(a.ResultingAccounts) != len(b.ResultingAccounts) {
			ok = cfg.Report(fmt.Sprintf("resulting_accounts_length: %d != %d", len(a.ResultingAccounts), len(b.ResultingAccounts)))
		}
		addresses := a.ResultingAccounts.Keys()
		ok = compareResultingAccounts(a, b, addresses, nil, c.fields, cfg) && ok
		return ok
	case kindOnlyResultingAccounts:
		return compareResultingAccounts(a, b, c.pubkeys, nil, c.fields, cfg)
	case kindAllResultingAccountsExcept:
		addresses := a.ResultingAccounts.Keys()
		return compareResultingAccounts(a, b, addresses, c.pubkeys, c.fields, cfg)
	}
	return true
}

func contains(list []pubkey.Pubkey, key pubkey.Pubkey) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

// compareResultingAccounts walks a's resulting accounts paired
// positionally with b's (mirroring the source's zip-by-index
// comparison), applying the field toggles to every key in addresses
// that is not also in ignoreAddresses.
func compareResultingAccounts(a, b *result.InstructionResult, addresses, ignoreAddresses []pubkey.Pubkey, fields AccountFields, cfg result.Config) bool {
	ok := true
	n := len(a.ResultingAccounts)
	if len(b.ResultingAccounts) < n {
		n = len(b.ResultingAccounts)
	}
	for i := 0; i < n; i++ {
		ea := a.ResultingAccounts[i]
		eb := b.ResultingAccounts[i]
		if !contains(addresses, ea.Key) || contains(ignoreAddresses, ea.Key) {
			continue
		}
		ok = compareAccountFields(ea.Key, ea.Account, eb.Account, fields, cfg) && ok
	}
	return ok
}

func compareAccountFields(key pubkey.Pubkey, a, b account.Account, fields AccountFields, cfg result.Config) bool {
	ok := true
	if fields.Data && string(a.Data) != string(b.Data) {
		ok = cfg.Report(fmt.Sprintf("resulting_account_data(%s): mismatch", key)) && ok
	}
	if fields.Executable && a.Executable != b.Executable {
		ok = cfg.Report(fmt.Sprintf("resulting_account_executable(%s): %v != %v", key, a.Executable, b.Executable)) && ok
	}
	if fields.Lamports && a.Lamports != b.Lamports {
		ok = cfg.Report(fmt.Sprintf("resulting_account_lamports(%s): %d != %d", key, a.Lamports, b.Lamports)) && ok
	}
	if fields.Owner && a.Owner != b.Owner {
		ok = cfg.Report(fmt.Sprintf("resulting_account_owner(%s): %s != %s", key, a.Owner, b.Owner)) && ok
	}
	if fields.Space && len(a.Data) != len(b.Data) {
		ok = cfg.Report(fmt.Sprintf("resulting_account_space(%s): %d != %d", key, len(a.Data), len(b.Data))) && ok
	}
	return ok
}
