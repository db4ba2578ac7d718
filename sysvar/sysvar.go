// Package sysvar models the runtime's sysvar block: a small bundle of
// mutable runtime parameters (clock, rent, epoch schedule, etc.) that
// the harness projects into both a sysvar cache (for the execution
// engine) and keyed stub accounts (for account hydration).
package sysvar

import (
	"encoding/binary"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// Clock mirrors the clock sysvar's fields.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

// Rent mirrors the rent sysvar's fields, sufficient to evaluate
// rent-exemption.
type Rent struct {
	LamportsPerByteYear        uint64
	ExemptionThresholdYears    float64
	BurnPercent                uint8
}

// DefaultRent mirrors the mainnet default rent schedule.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear:     3480,
		ExemptionThresholdYears: 2.0,
		BurnPercent:             50,
	}
}

// MinimumBalance returns the lamports an account of dataLen bytes needs
// to be rent-exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	const accountStorageOverhead = 128
	bytesYear := r.LamportsPerByteYear * uint64(dataLen+accountStorageOverhead)
	return uint64(float64(bytesYear) * r.ExemptionThresholdYears)
}

// IsExempt reports whether lamports is enough for dataLen bytes.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// EpochSchedule mirrors the epoch-schedule sysvar.
type EpochSchedule struct {
	SlotsPerEpoch            uint64
	LeaderScheduleSlotOffset uint64
	Warmup                   bool
	FirstNormalEpoch         uint64
	FirstNormalSlot          uint64
}

// DefaultEpochSchedule mirrors mainnet's schedule.
func DefaultEpochSchedule() EpochSchedule {
	return EpochSchedule{SlotsPerEpoch: 432_000, LeaderScheduleSlotOffset: 432_000}
}

// EpochRewards mirrors the epoch-rewards sysvar, active only during the
// reward-distribution window at an epoch boundary.
type EpochRewards struct {
	TotalRewards               uint64
	DistributedRewards         uint64
	DistributionCompleteBlockHeight uint64
	Active                     bool
}

// SlotHash pairs a slot with its hash, newest first.
type SlotHash struct {
	Slot uint64
	Hash [32]byte
}

// StakeHistoryEntry records one epoch's aggregate stake activation state.
type StakeHistoryEntry struct {
	Epoch      uint64
	Effective  uint64
	Activating uint64
	Deactivating uint64
}

// Block bundles the full set of runtime sysvars the harness tracks.
// NewBlock supplies the defaults (the zero value has a zero rent and
// epoch schedule); helpers like WarpToSlot mutate it in place.
type Block struct {
	Clock           Clock
	Rent            Rent
	EpochSchedule   EpochSchedule
	EpochRewards    EpochRewards
	SlotHashes      []SlotHash
	StakeHistory    []StakeHistoryEntry
	LastRestartSlot uint64
}

// NewBlock returns a sysvar block with the same defaults a fresh harness
// starts with.
func NewBlock() *Block {
	return &Block{
		Rent:          DefaultRent(),
		EpochSchedule: DefaultEpochSchedule(),
	}
}

// WarpToSlot advances the clock (and the epoch, per the active epoch
// schedule) to slot, the harness's only time-progression helper.
func (b *Block) WarpToSlot(slot uint64) {
	b.Clock.Slot = slot
	if b.EpochSchedule.SlotsPerEpoch > 0 {
		b.Clock.Epoch = slot / b.EpochSchedule.SlotsPerEpoch
		b.Clock.LeaderScheduleEpoch = b.Clock.Epoch + 1
	}
}

// StubAccounts projects the block into keyed accounts suitable for
// hydration: the Account Compiler and Stateful Context consult these
// when a sysvar key is referenced but no caller-provided or fallback
// account exists.
func (b *Block) StubAccounts() account.Entries {
	return account.Entries{
		{Key: pubkey.ClockSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeClock(b.Clock),
		}},
		{Key: pubkey.RentSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeRent(b.Rent),
		}},
		{Key: pubkey.EpochScheduleSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeEpochSchedule(b.EpochSchedule),
		}},
		{Key: pubkey.EpochRewardsSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeEpochRewards(b.EpochRewards),
		}},
		{Key: pubkey.SlotHashesSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeSlotHashes(b.SlotHashes),
		}},
		{Key: pubkey.StakeHistorySysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeStakeHistory(b.StakeHistory),
		}},
		{Key: pubkey.LastRestartSlotSysvar, Account: account.Account{
			Owner: pubkey.NativeLoader, Data: encodeU64(b.LastRestartSlot),
		}},
	}
}

// IsSysvarKey reports whether key names one of the sysvar accounts this
// block projects.
func IsSysvarKey(key pubkey.Pubkey) bool {
	switch key {
	case pubkey.ClockSysvar, pubkey.RentSysvar, pubkey.EpochScheduleSysvar,
		pubkey.EpochRewardsSysvar, pubkey.SlotHashesSysvar, pubkey.StakeHistorySysvar,
		pubkey.LastRestartSlotSysvar:
		return true
	}
	return false
}

func encodeU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func encodeClock(c Clock) []byte {
	b := make([]byte, 40)
	binary.LittleEndian.PutUint64(b[0:8], c.Slot)
	binary.LittleEndian.PutUint64(b[8:16], uint64(c.EpochStartTimestamp))
	binary.LittleEndian.PutUint64(b[16:24], c.Epoch)
	binary.LittleEndian.PutUint64(b[24:32], c.LeaderScheduleEpoch)
	binary.LittleEndian.PutUint64(b[32:40], uint64(c.UnixTimestamp))
	return b
}

func encodeRent(r Rent) []byte {
	b := make([]byte, 17)
	binary.LittleEndian.PutUint64(b[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(b[8:16], uint64(r.ExemptionThresholdYears*1e6))
	b[16] = r.BurnPercent
	return b
}

func encodeEpochSchedule(s EpochSchedule) []byte {
	b := make([]byte, 33)
	binary.LittleEndian.PutUint64(b[0:8], s.SlotsPerEpoch)
	binary.LittleEndian.PutUint64(b[8:16], s.LeaderScheduleSlotOffset)
	if s.Warmup {
		b[16] = 1
	}
	binary.LittleEndian.PutUint64(b[17:25], s.FirstNormalEpoch)
	binary.LittleEndian.PutUint64(b[25:33], s.FirstNormalSlot)
	return b
}

func encodeEpochRewards(r EpochRewards) []byte {
	b := make([]byte, 25)
	binary.LittleEndian.PutUint64(b[0:8], r.TotalRewards)
	binary.LittleEndian.PutUint64(b[8:16], r.DistributedRewards)
	binary.LittleEndian.PutUint64(b[16:24], r.DistributionCompleteBlockHeight)
	if r.Active {
		b[24] = 1
	}
	return b
}

func encodeSlotHashes(entries []SlotHash) []byte {
	b := make([]byte, 8+len(entries)*40)
	binary.LittleEndian.PutUint64(b[0:8], uint64(len(entries)))
	off := 8
	for _, e := range entries {
		binary.LittleEndian.PutUint64(b[off:off+8], e.Slot)
		copy(b[off+8:off+40], e.Hash[:])
		off += 40
	}
	return b
}

func encodeStakeHistory(entries []StakeHistoryEntry) []byte {
	b := make([]byte, 8+len(entries)*32)
	binary.LittleEndian.PutUint64(b[0:8], uint64(len(entries)))
	off := 8
	for _, e := range entries {
		binary.LittleEndian.PutUint64(b[off:off+8], e.Epoch)
		binary.LittleEndian.PutUint64(b[off+8:off+16], e.Effective)
		binary.LittleEndian.PutUint64(b[off+16:off+24], e.Activating)
		binary.LittleEndian.PutUint64(b[off+24:off+32], e.Deactivating)
		off += 32
	}
	return b
}
