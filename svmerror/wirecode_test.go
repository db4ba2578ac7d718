package svmerror

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireCodeRoundTrip(t *testing.T) {
	kinds := []InstructionErrorKind{
		GenericError, InvalidArgument, InvalidInstructionData, InsufficientFunds,
		MissingRequiredSignature, NotEnoughAccountKeys, IllegalOwner,
		ArithmeticOverflow, BuiltinProgramsMustConsumeComputeUnits,
	}
	for _, k := range kinds {
		e := Of(k)
		code := ToWireCode(&e)
		got := FromWireCode(code, 0)
		require.NotNil(t, got, "kind %s", k)
		require.True(t, got.Equal(e), "kind %s: round trip got %v, want %v", k, got, e)
	}
}

func TestWireCodeRoundTripCustom(t *testing.T) {
	for _, customCode := range []uint32{0, 1, 2, 5, 400, 600, 1000} {
		e := NewCustom(customCode)
		code := ToWireCode(&e)
		got := FromWireCode(code, customCode)
		require.NotNil(t, got, "custom(%d)", customCode)
		require.True(t, got.Equal(e), "custom(%d): round trip got %v, want %v", customCode, got, e)
	}
}

func TestWireCodeSuccessIsZero(t *testing.T) {
	require.Zero(t, ToWireCode(nil))
	require.Nil(t, FromWireCode(0, 0))
}

func TestU64RoundTrip(t *testing.T) {
	kinds := []InstructionErrorKind{
		GenericError, InvalidArgument, InsufficientFunds, IllegalOwner,
		BuiltinProgramsMustConsumeComputeUnits,
	}
	for _, k := range kinds {
		e := Of(k)
		code := ToU64(&e)
		got := FromU64(code)
		require.NotNil(t, got, "kind %s", k)
		require.True(t, got.Equal(e), "kind %s: u64 round trip got %v, want %v", k, got, e)
	}
}

func TestU64RoundTripCustom(t *testing.T) {
	for _, customCode := range []uint32{0, 1, 2, 5, 400, 600, 1000} {
		e := NewCustom(customCode)
		code := ToU64(&e)
		got := FromU64(code)
		require.NotNil(t, got, "custom(%d)", customCode)
		require.True(t, got.Equal(e), "custom(%d): u64 round trip got %v, want %v", customCode, got, e)
	}
	require.Zero(t, ToU64(nil))
	require.Nil(t, FromU64(0))
}

func TestU64NamedAndCustomSpacesDisjoint(t *testing.T) {
	generic := Of(GenericError)
	custom := NewCustom(0)
	require.NotEqual(t, ToU64(&generic), ToU64(&custom))
}
