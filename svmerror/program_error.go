package svmerror

// ProgramErrorKind is the subset of InstructionError that on-chain program
// code itself can construct and return (as opposed to errors the runtime
// raises about message shape, privilege, or account bookkeeping, which
// surface as UnknownError(InstructionError) instead).
type ProgramErrorKind int

const (
	ProgramCustom ProgramErrorKind = iota
	ProgramInvalidArgument
	ProgramInvalidInstructionData
	ProgramInvalidAccountData
	ProgramAccountDataTooSmall
	ProgramInsufficientFunds
	ProgramIncorrectProgramId
	ProgramMissingRequiredSignature
	ProgramAccountAlreadyInitialized
	ProgramUninitializedAccount
	ProgramNotEnoughAccountKeys
	ProgramAccountBorrowFailed
	ProgramMaxSeedLengthExceeded
	ProgramInvalidSeeds
	ProgramBorshIoError
	ProgramAccountNotRentExempt
	ProgramUnsupportedSysvar
	ProgramIllegalOwner
	ProgramInvalidRealloc
	ProgramArithmeticOverflow
	ProgramImmutable
	ProgramIncorrectAuthority
)

// ProgramError pairs a ProgramErrorKind with its optional custom code.
type ProgramError struct {
	Kind       ProgramErrorKind
	CustomCode uint32
}

func NewProgramCustom(code uint32) ProgramError {
	return ProgramError{Kind: ProgramCustom, CustomCode: code}
}

func (e ProgramError) Equal(other ProgramError) bool {
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == ProgramCustom {
		return e.CustomCode == other.CustomCode
	}
	return true
}

func (e ProgramError) String() string {
	if e.Kind == ProgramCustom {
		return InstructionError{Kind: Custom, CustomCode: e.CustomCode}.Error()
	}
	k, ok := programToInstruction[e.Kind]
	if !ok {
		return "ProgramError(unknown)"
	}
	return k.String()
}

var programToInstruction = map[ProgramErrorKind]InstructionErrorKind{
	ProgramInvalidArgument:           InvalidArgument,
	ProgramInvalidInstructionData:    InvalidInstructionData,
	ProgramInvalidAccountData:        InvalidAccountData,
	ProgramAccountDataTooSmall:       AccountDataTooSmall,
	ProgramInsufficientFunds:         InsufficientFunds,
	ProgramIncorrectProgramId:        IncorrectProgramId,
	ProgramMissingRequiredSignature:  MissingRequiredSignature,
	ProgramAccountAlreadyInitialized: AccountAlreadyInitialized,
	ProgramUninitializedAccount:      UninitializedAccount,
	ProgramNotEnoughAccountKeys:      NotEnoughAccountKeys,
	ProgramAccountBorrowFailed:       AccountBorrowFailed,
	ProgramMaxSeedLengthExceeded:     MaxSeedLengthExceeded,
	ProgramInvalidSeeds:              InvalidSeeds,
	ProgramBorshIoError:              BorshIoError,
	ProgramAccountNotRentExempt:      AccountNotRentExempt,
	ProgramUnsupportedSysvar:         UnsupportedSysvar,
	ProgramIllegalOwner:              IllegalOwner,
	ProgramInvalidRealloc:            InvalidRealloc,
	ProgramArithmeticOverflow:        ArithmeticOverflow,
	ProgramImmutable:                 Immutable,
	ProgramIncorrectAuthority:        IncorrectAuthority,
}

var instructionToProgram = func() map[InstructionErrorKind]ProgramErrorKind {
	m := make(map[InstructionErrorKind]ProgramErrorKind, len(programToInstruction))
	for p, i := range programToInstruction {
		m[i] = p
	}
	return m
}()

// AsProgramError converts an engine InstructionError into a ProgramError
// if it's one a program could plausibly have returned itself. The
// ProgramResult construction rule in the Result Model uses this: Ok ->
// Success; Err(e) -> Failure(p) when this succeeds, else UnknownError(e).
func AsProgramError(e InstructionError) (ProgramError, bool) {
	if e.Kind == Custom {
		return NewProgramCustom(e.CustomCode), true
	}
	p, ok := instructionToProgram[e.Kind]
	if !ok {
		return ProgramError{}, false
	}
	return ProgramError{Kind: p}, true
}

// TransactionError is the chain/transaction-scope error: either a
// specific instruction failed (carrying its zero-based index), or some
// other transaction-level problem occurred.
type TransactionError struct {
	// InstructionIndex is meaningful only when IsInstructionError.
	InstructionIndex  int
	IsInstructionError bool
	InstructionErr     InstructionError
}

// NewInstructionError builds TransactionError::InstructionError(idx, err).
func NewInstructionError(idx int, err InstructionError) TransactionError {
	return TransactionError{InstructionIndex: idx, IsInstructionError: true, InstructionErr: err}
}
