// Package svmerror defines the two error planes of the harness: program
// execution errors (InstructionError / ProgramError / TransactionError),
// which are first-class return values, and harness misconfiguration
// errors (MolluskError), which abort the test process. The enum-with-
// String() shape mirrors a small change-reason taxonomy rather than a
// bare int.
package svmerror

import "fmt"

// InstructionErrorKind enumerates the named InstructionError variants the
// harness needs to represent, round-trip through the Firedancer fixture
// codec, and report in Check/Compare failures. The ordinal of each
// variant is its stable wire discriminant: Format B's error-code
// encoding reads the first four bytes of this value (little-endian) and
// adds one, so the ordering here is a wire contract, not cosmetic.
type InstructionErrorKind uint32

const (
	GenericError InstructionErrorKind = iota
	InvalidArgument
	InvalidInstructionData
	InvalidAccountData
	AccountDataTooSmall
	InsufficientFunds
	IncorrectProgramId
	MissingRequiredSignature
	AccountAlreadyInitialized
	UninitializedAccount
	UnbalancedInstruction
	ModifiedProgramId
	ExternalAccountLamportSpend
	ExternalAccountDataModified
	ReadonlyLamportChange
	ReadonlyDataModified
	DuplicateAccountIndex
	ExecutableModified
	RentEpochModified
	NotEnoughAccountKeys
	AccountDataSizeChanged
	AccountNotExecutable
	AccountBorrowFailed
	AccountBorrowOutstanding
	DuplicateAccountOutOfSync
	Custom
	InvalidError
	ExecutableDataModified
	ExecutableLamportChange
	ExecutableAccountNotRentExempt
	UnsupportedProgramId
	CallDepth
	MissingAccount
	ReentrancyNotAllowed
	MaxSeedLengthExceeded
	InvalidSeeds
	InvalidRealloc
	ComputationalBudgetExceeded
	PrivilegeEscalation
	ProgramEnvironmentSetupFailure
	ProgramFailedToComplete
	ProgramFailedToCompile
	Immutable
	IncorrectAuthority
	BorshIoError
	AccountNotRentExempt
	InvalidAccountOwner
	ArithmeticOverflow
	UnsupportedSysvar
	IllegalOwner
	MaxAccountsDataAllocationsExceeded
	MaxAccountsExceeded
	MaxInstructionTraceLengthExceeded
	BuiltinProgramsMustConsumeComputeUnits
)

var kindNames = map[InstructionErrorKind]string{
	GenericError:                            "GenericError",
	InvalidArgument:                         "InvalidArgument",
	InvalidInstructionData:                  "InvalidInstructionData",
	InvalidAccountData:                      "InvalidAccountData",
	AccountDataTooSmall:                     "AccountDataTooSmall",
	InsufficientFunds:                       "InsufficientFunds",
	IncorrectProgramId:                      "IncorrectProgramId",
	MissingRequiredSignature:                "MissingRequiredSignature",
	AccountAlreadyInitialized:               "AccountAlreadyInitialized",
	UninitializedAccount:                    "UninitializedAccount",
	UnbalancedInstruction:                   "UnbalancedInstruction",
	ModifiedProgramId:                       "ModifiedProgramId",
	ExternalAccountLamportSpend:             "ExternalAccountLamportSpend",
	ExternalAccountDataModified:             "ExternalAccountDataModified",
	ReadonlyLamportChange:                   "ReadonlyLamportChange",
	ReadonlyDataModified:                    "ReadonlyDataModified",
	DuplicateAccountIndex:                   "DuplicateAccountIndex",
	ExecutableModified:                      "ExecutableModified",
	RentEpochModified:                       "RentEpochModified",
	NotEnoughAccountKeys:                    "NotEnoughAccountKeys",
	AccountDataSizeChanged:                  "AccountDataSizeChanged",
	AccountNotExecutable:                    "AccountNotExecutable",
	AccountBorrowFailed:                     "AccountBorrowFailed",
	AccountBorrowOutstanding:                "AccountBorrowOutstanding",
	DuplicateAccountOutOfSync:               "DuplicateAccountOutOfSync",
	Custom:                                  "Custom",
	InvalidError:                            "InvalidError",
	ExecutableDataModified:                  "ExecutableDataModified",
	ExecutableLamportChange:                 "ExecutableLamportChange",
	ExecutableAccountNotRentExempt:          "ExecutableAccountNotRentExempt",
	UnsupportedProgramId:                    "UnsupportedProgramId",
	CallDepth:                               "CallDepth",
	MissingAccount:                          "MissingAccount",
	ReentrancyNotAllowed:                    "ReentrancyNotAllowed",
	MaxSeedLengthExceeded:                   "MaxSeedLengthExceeded",
	InvalidSeeds:                            "InvalidSeeds",
	InvalidRealloc:                          "InvalidRealloc",
	ComputationalBudgetExceeded:             "ComputationalBudgetExceeded",
	PrivilegeEscalation:                     "PrivilegeEscalation",
	ProgramEnvironmentSetupFailure:          "ProgramEnvironmentSetupFailure",
	ProgramFailedToComplete:                 "ProgramFailedToComplete",
	ProgramFailedToCompile:                  "ProgramFailedToCompile",
	Immutable:                               "Immutable",
	IncorrectAuthority:                      "IncorrectAuthority",
	BorshIoError:                            "BorshIoError",
	AccountNotRentExempt:                    "AccountNotRentExempt",
	InvalidAccountOwner:                     "InvalidAccountOwner",
	ArithmeticOverflow:                      "ArithmeticOverflow",
	UnsupportedSysvar:                       "UnsupportedSysvar",
	IllegalOwner:                            "IllegalOwner",
	MaxAccountsDataAllocationsExceeded:      "MaxAccountsDataAllocationsExceeded",
	MaxAccountsExceeded:                     "MaxAccountsExceeded",
	MaxInstructionTraceLengthExceeded:       "MaxInstructionTraceLengthExceeded",
	BuiltinProgramsMustConsumeComputeUnits:  "BuiltinProgramsMustConsumeComputeUnits",
}

func (k InstructionErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("InstructionErrorKind(%d)", uint32(k))
}

// InstructionError is the engine-level error a failing instruction
// produces. Only the Custom variant carries a payload.
type InstructionError struct {
	Kind       InstructionErrorKind
	CustomCode uint32
}

// NewCustom builds InstructionError::Custom(code).
func NewCustom(code uint32) InstructionError {
	return InstructionError{Kind: Custom, CustomCode: code}
}

// Of builds a payload-less InstructionError of the given kind. Passing
// Custom here is a programmer error; use NewCustom instead.
func Of(kind InstructionErrorKind) InstructionError {
	if kind == Custom {
		panic("svmerror: use NewCustom for the Custom variant")
	}
	return InstructionError{Kind: kind}
}

func (e InstructionError) Error() string {
	if e.Kind == Custom {
		return fmt.Sprintf("Custom(%d)", e.CustomCode)
	}
	return e.Kind.String()
}

// Equal compares two InstructionErrors, including the custom code when
// the kind is Custom.
func (e InstructionError) Equal(other InstructionError) bool {
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == Custom {
		return e.CustomCode == other.CustomCode
	}
	return true
}
