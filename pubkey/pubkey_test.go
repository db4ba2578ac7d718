package pubkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase58RoundTrip(t *testing.T) {
	p := NewUnique()
	got, err := FromBase58(p.String())
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestFromBase58RejectsWrongLength(t *testing.T) {
	_, err := FromBase58("2UzHM")
	require.Error(t, err)
}

func TestNewPanicsOnWrongLength(t *testing.T) {
	require.Panics(t, func() { New([]byte{1, 2, 3}) })
}

func TestNewUniqueIsDistinct(t *testing.T) {
	a := NewUnique()
	b := NewUnique()
	require.NotEqual(t, a, b)
}

func TestIsDefault(t *testing.T) {
	require.True(t, (Pubkey{}).IsDefault())
	require.False(t, NewUnique().IsDefault())
}

func TestIsBuiltinProgramID(t *testing.T) {
	require.True(t, IsBuiltinProgramID(SystemProgram))
	require.False(t, IsBuiltinProgramID(NewUnique()))
}
