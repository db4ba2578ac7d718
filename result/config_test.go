package result

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportNoisyReturnsFalse(t *testing.T) {
	cfg := Config{Panic: false, Verbose: false}
	require.False(t, cfg.Report("mismatch"))
}

func TestReportPanicsByDefault(t *testing.T) {
	require.Panics(t, func() { DefaultConfig().Report("mismatch") })
}

func TestDefaultRentContextZeroLamportsExempt(t *testing.T) {
	require.True(t, DefaultRentContext.IsRentExempt(0, 100))
}

func TestDefaultRentContextThreshold(t *testing.T) {
	require.False(t, DefaultRentContext.IsRentExempt(1, 100))
	minimum := uint64(float64(3480*(100+128)) * 2.0)
	require.True(t, DefaultRentContext.IsRentExempt(minimum, 100))
}
