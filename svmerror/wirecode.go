package svmerror

// maxInstructionErrorKind bounds the ordinal space reserved for
// non-Custom variants; Custom's own numeric code lives past this
// boundary in the native fixture format's u64 encoding (see ToU64).
const maxInstructionErrorKind = uint32(BuiltinProgramsMustConsumeComputeUnits)

// ToWireCode implements the Firedancer fixture format's error-code
// encoding: serialize the InstructionError to its binary wire form
// (here, the little-endian kind ordinal occupies the first four bytes
// regardless of variant, matching a bincode-style untagged discriminant
// prefix), read those four bytes as an int32, add one. A nil err (the
// instruction succeeded) encodes to zero.
func ToWireCode(err *InstructionError) int32 {
	if err == nil {
		return 0
	}
	return int32(uint32(err.Kind)) + 1
}

// FromWireCode reverses ToWireCode. A code of zero means success (nil,
// nil). When the decoded kind is Custom and customCode is nonzero, the
// custom code replaces the zero placeholder, matching the format's
// "custom code substitution" rule.
func FromWireCode(code int32, customCode uint32) *InstructionError {
	if code == 0 {
		return nil
	}
	kind := InstructionErrorKind(uint32(code - 1))
	e := InstructionError{Kind: kind}
	if kind == Custom && customCode != 0 {
		e.CustomCode = customCode
	}
	return &e
}

// ToU64 implements the native fixture format's program_result encoding:
// 0 on success, otherwise a stable nonzero code derived from the error.
// Non-Custom variants occupy the low ordinal range (kind ordinal + 1);
// Custom errors occupy the range above every named variant, offset by
// the custom code itself, keeping the two spaces disjoint.
func ToU64(err *InstructionError) uint64 {
	if err == nil {
		return 0
	}
	if err.Kind == Custom {
		return uint64(maxInstructionErrorKind) + 2 + uint64(err.CustomCode)
	}
	return uint64(err.Kind) + 1
}

// FromU64 reverses ToU64.
func FromU64(code uint64) *InstructionError {
	if code == 0 {
		return nil
	}
	if code > uint64(maxInstructionErrorKind)+1 {
		return &InstructionError{Kind: Custom, CustomCode: uint32(code - uint64(maxInstructionErrorKind) - 2)}
	}
	return &InstructionError{Kind: InstructionErrorKind(code - 1)}
}
