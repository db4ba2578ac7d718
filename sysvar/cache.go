package sysvar

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// Cache is the engine-facing projection of a Block: the Message Executor
// builds one per call from the current block plus whatever sysvar
// accounts were supplied in the transaction-account vector (those
// override the block's own defaults, matching real SVM behavior where a
// caller-supplied sysvar account is authoritative).
type Cache struct {
	Clock           Clock
	Rent            Rent
	EpochSchedule   EpochSchedule
	EpochRewards    EpochRewards
	SlotHashes      []SlotHash
	StakeHistory    []StakeHistoryEntry
	LastRestartSlot uint64
}

// BuildCache derives a Cache from block, letting any sysvar accounts
// present in accounts override the block's defaults. Overrides are
// decoded best-effort; malformed sysvar account data is ignored and the
// block default is kept, since sysvar validation is explicitly out of
// scope for the harness (see instructions-sysvar pass-through design
// note, which generalizes to sysvar accounts broadly).
func BuildCache(block *Block, accounts account.Entries) Cache {
	c := Cache{
		Clock:           block.Clock,
		Rent:            block.Rent,
		EpochSchedule:   block.EpochSchedule,
		EpochRewards:    block.EpochRewards,
		SlotHashes:      block.SlotHashes,
		StakeHistory:    block.StakeHistory,
		LastRestartSlot: block.LastRestartSlot,
	}
	if a, ok := accounts.Find(pubkey.ClockSysvar); ok && len(a.Data) >= 40 {
		c.Clock = decodeClock(a.Data)
	}
	if a, ok := accounts.Find(pubkey.RentSysvar); ok && len(a.Data) >= 17 {
		c.Rent = decodeRent(a.Data)
	}
	return c
}

func decodeClock(b []byte) Clock {
	le := func(o int) uint64 {
		v := uint64(0)
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[o+i])
		}
		return v
	}
	return Clock{
		Slot:                le(0),
		EpochStartTimestamp: int64(le(8)),
		Epoch:               le(16),
		LeaderScheduleEpoch: le(24),
		UnixTimestamp:       int64(le(32)),
	}
}

func decodeRent(b []byte) Rent {
	le := func(o int) uint64 {
		v := uint64(0)
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[o+i])
		}
		return v
	}
	return Rent{
		LamportsPerByteYear:     le(0),
		ExemptionThresholdYears: float64(le(8)) / 1e6,
		BurnPercent:             b[16],
	}
}
