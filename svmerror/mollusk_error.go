package svmerror

import "fmt"

// MolluskErrorKind enumerates harness misconfiguration errors: problems
// in test setup, never in the program under test. These abort the
// harness call with a clear, prefixed message (see MolluskError.Error).
type MolluskErrorKind int

const (
	AccountMissing MolluskErrorKind = iota
	ProgramNotCached
	FileNotFound
	FileOpenError
	FileReadError
	ProgramIdNotMapped
	AccountIndexOverflow
)

var molluskKindNames = map[MolluskErrorKind]string{
	AccountMissing:       "AccountMissing",
	ProgramNotCached:     "ProgramNotCached",
	FileNotFound:         "FileNotFound",
	FileOpenError:        "FileOpenError",
	FileReadError:        "FileReadError",
	ProgramIdNotMapped:   "ProgramIdNotMapped",
	AccountIndexOverflow: "AccountIndexOverflow",
}

func (k MolluskErrorKind) String() string {
	if s, ok := molluskKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("MolluskErrorKind(%d)", int(k))
}

// MolluskError is a programmer-error, always-fatal setup failure. It
// implements error so it can be passed to panic() directly; the harness
// never returns it as a recoverable value.
type MolluskError struct {
	Kind   MolluskErrorKind
	Detail string
}

func NewMolluskError(kind MolluskErrorKind, detail string) *MolluskError {
	return &MolluskError{Kind: kind, Detail: detail}
}

func (e *MolluskError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("mollusk: %s", e.Kind)
	}
	return fmt.Sprintf("mollusk: %s: %s", e.Kind, e.Detail)
}

// OrPanic aborts with a MolluskError of the given kind if ok is false:
// a clear, prefixed message for programmer-error setup failures.
func OrPanic(kind MolluskErrorKind, detail string, ok bool) {
	if !ok {
		panic(NewMolluskError(kind, detail))
	}
}
