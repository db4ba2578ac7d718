package svm

import (
	"testing"

	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/engine/builtin"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/stretchr/testify/require"
)

func TestMaybeCreateProgramAccountNativeLoader(t *testing.T) {
	c := NewProgramCache(builtin.New(), false)
	programID := pubkey.NewUnique()
	c.AddBuiltin(programID, "test_program", engine.InvocationConfig{})

	got, ok := c.MaybeCreateProgramAccount(programID)
	require.True(t, ok)
	require.Equal(t, pubkey.NativeLoader, got.Owner)
	require.True(t, got.Executable)
	require.Empty(t, got.Data)
}

func TestMaybeCreateProgramAccountBPFLoaderV1V2(t *testing.T) {
	c := NewProgramCache(builtin.New(), false)
	elf := []byte{0x7f, 'E', 'L', 'F', 1, 2, 3}

	for _, loader := range []pubkey.Pubkey{pubkey.BPFLoaderV1, pubkey.BPFLoaderV2} {
		programID := pubkey.NewUnique()
		require.NoError(t, c.AddProgram(programID, loader, elf, engine.InvocationConfig{}))

		got, ok := c.MaybeCreateProgramAccount(programID)
		require.True(t, ok)
		require.Equal(t, loader, got.Owner)
		require.True(t, got.Executable)
		require.Equal(t, elf, got.Data)
	}
}

func TestMaybeCreateProgramAccountUpgradeablePointsAtProgramData(t *testing.T) {
	c := NewProgramCache(builtin.New(), false)
	elf := []byte{0xde, 0xad, 0xbe, 0xef}
	programID := pubkey.NewUnique()
	require.NoError(t, c.AddProgram(programID, pubkey.BPFLoaderUpgradeable, elf, engine.InvocationConfig{}))

	got, ok := c.MaybeCreateProgramAccount(programID)
	require.True(t, ok)
	require.Equal(t, pubkey.BPFLoaderUpgradeable, got.Owner)
	require.True(t, got.Executable)
	require.Len(t, got.Data, 36)

	wantProgramData := programDataAddress(programID)
	var gotProgramData pubkey.Pubkey
	copy(gotProgramData[:], got.Data[4:36])
	require.Equal(t, wantProgramData, gotProgramData)
}

func TestMaybeCreateProgramAccountLoaderV4(t *testing.T) {
	c := NewProgramCache(builtin.New(), false)
	elf := []byte{1, 2, 3, 4, 5}
	programID := pubkey.NewUnique()
	require.NoError(t, c.AddProgram(programID, pubkey.LoaderV4, elf, engine.InvocationConfig{}))

	got, ok := c.MaybeCreateProgramAccount(programID)
	require.True(t, ok)
	require.Equal(t, pubkey.LoaderV4, got.Owner)
	require.True(t, got.Executable)
	require.Len(t, got.Data, 48+len(elf))
	require.Equal(t, elf, got.Data[48:])
}

func TestGetAllKeyedProgramAccountsEmitsProgramDataPairForUpgradeable(t *testing.T) {
	c := NewProgramCache(builtin.New(), false)
	builtinID := pubkey.NewUnique()
	upgradeableID := pubkey.NewUnique()
	elf := []byte{9, 9, 9}

	c.AddBuiltin(builtinID, "builtin_program", engine.InvocationConfig{})
	require.NoError(t, c.AddProgram(upgradeableID, pubkey.BPFLoaderUpgradeable, elf, engine.InvocationConfig{}))

	entries := c.GetAllKeyedProgramAccounts()
	// One entry per cached program, plus a second entry for the
	// upgradeable program's derived programdata account.
	require.Len(t, entries, 3)

	programDataKey := programDataAddress(upgradeableID)
	programDataEntry, ok := entries.Find(programDataKey)
	require.True(t, ok)
	require.Equal(t, pubkey.BPFLoaderUpgradeable, programDataEntry.Owner)
	require.Equal(t, elf, programDataEntry.Data[45:])

	programEntry, ok := entries.Find(upgradeableID)
	require.True(t, ok)
	require.True(t, programEntry.Executable)
}
