package result

import "fmt"

// Config governs Check/Compare execution mode: panic=true aborts with a
// message on the first mismatch (the default, matching the source);
// panic=false logs (if verbose) and returns false instead.
type Config struct {
	Panic   bool
	Verbose bool
}

// DefaultConfig matches the source's Default impl: panic, not verbose.
func DefaultConfig() Config {
	return Config{Panic: true, Verbose: false}
}

// Report handles one mismatch per cfg: panics with msg, or prints it
// (when verbose) and returns false. Returns true only when called with
// no mismatch to report (never -- callers only invoke this on failure);
// kept as a method for symmetry with the source's compare!/throw! macros.
func (c Config) Report(msg string) bool {
	if c.Panic {
		panic(fmt.Sprintf("mollusk check failed: %s", msg))
	}
	if c.Verbose {
		fmt.Println("mollusk check failed:", msg)
	}
	return false
}

// RentContext supplies the rent-exemption predicate a Check or Compare
// needs without hard-coding the harness's own sysvar block; implemented
// by *svm.Mollusk's rent sysvar wrapper.
type RentContext interface {
	IsRentExempt(lamports uint64, dataLen int) bool
}

// defaultRentContext reimplements the source's CheckContext default:
// lamports == 0 is exempt by definition (an account that doesn't really
// exist; the owner is not passed in and so not consulted), otherwise
// fall back to the mainnet-default rent schedule.
type defaultRentContext struct{}

func (defaultRentContext) IsRentExempt(lamports uint64, dataLen int) bool {
	if lamports == 0 {
		return true
	}
	// Mainnet-default schedule: 3480 lamports/byte-year * 2 years,
	// +128 bytes storage overhead, matching sysvar.DefaultRent().
	minimum := uint64(float64(3480*(dataLen+128)) * 2.0)
	return lamports >= minimum
}

// DefaultRentContext is the zero-configuration RentContext used when a
// caller doesn't have a harness's own sysvar block handy (e.g. testing
// the Check Engine in isolation).
var DefaultRentContext RentContext = defaultRentContext{}
