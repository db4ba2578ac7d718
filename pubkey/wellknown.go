package pubkey

// Well-known addresses the Account Compiler and Program Cache need to
// recognize by value. These mirror the fixed IDs baked into a real SVM
// runtime; the bytes are deterministic ASCII-seeded fills rather than the
// real base58 constants, since this harness never talks to a live cluster.

func seeded(tag string) Pubkey {
	var p Pubkey
	copy(p[:], tag)
	return p
}

var (
	// NativeLoader owns every built-in (non-BPF) program account.
	NativeLoader = seeded("NativeLoader1111111111111111111")
	// BPFLoaderV1 is the deprecated loader.
	BPFLoaderV1 = seeded("BPFLoader1111111111111111111111")
	// BPFLoaderV2 is the non-upgradeable BPF loader.
	BPFLoaderV2 = seeded("BPFLoader2111111111111111111111")
	// BPFLoaderUpgradeable (v3) manages program/programdata account pairs.
	BPFLoaderUpgradeable = seeded("BPFLoaderUpgradeab1e111111111111")
	// LoaderV4 is the newest loader, single fixed-prefix account layout.
	LoaderV4 = seeded("LoaderV411111111111111111111111")

	// SystemProgram is the built-in responsible for lamport transfer,
	// account creation/assignment, and allocation.
	SystemProgram = seeded("11111111111111111111111111111111")

	// InstructionsSysvar is the synthesized account whose data is the
	// serialized instruction set of the current message.
	InstructionsSysvar = seeded("Sysvar1nstructions1111111111111")

	ClockSysvar       = seeded("SysvarC1ock11111111111111111111")
	RentSysvar        = seeded("SysvarRent111111111111111111111")
	EpochScheduleSysvar = seeded("SysvarEpochSchedule111111111111")
	EpochRewardsSysvar  = seeded("SysvarEpochRewards111111111111")
	SlotHashesSysvar    = seeded("SysvarS1otHashes111111111111111")
	StakeHistorySysvar  = seeded("SysvarStakeHistory1111111111111")
	LastRestartSlotSysvar = seeded("SysvarLastRestartS1ot111111111")

	ComputeBudgetProgram = seeded("ComputeBudget111111111111111111")
)

// BuiltinProgramIDs lists the program IDs the Firedancer fixture codec
// treats as natively loaded (owned by NativeLoader) rather than BPF.
var BuiltinProgramIDs = []Pubkey{
	SystemProgram,
	ComputeBudgetProgram,
	BPFLoaderV1,
	BPFLoaderV2,
	BPFLoaderUpgradeable,
	LoaderV4,
}

// IsBuiltinProgramID reports whether id is one of the well-known
// natively-loaded program IDs.
func IsBuiltinProgramID(id Pubkey) bool {
	for _, b := range BuiltinProgramIDs {
		if b == id {
			return true
		}
	}
	return false
}
