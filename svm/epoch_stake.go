package svm

import "github.com/mollusk-svm/mollusk-go/pubkey"

// EpochStake maps a vote address to its stake, in lamports.
type EpochStake map[pubkey.Pubkey]uint64

// Total returns the sum of all stake in the map.
func (s EpochStake) Total() uint64 {
	var total uint64
	for _, v := range s {
		total += v
	}
	return total
}

// baseStakePerAccount is the per-account stake the mock generator uses
// to spread a target total across a believable number of vote accounts,
// rather than concentrating it all in one, mirroring the source's own
// mock-epoch-stake helper.
const baseStakePerAccount = 100_000_000_000

// NewMockEpochStake spreads targetTotal lamports of stake across a
// synthetic set of unique vote accounts. With target 0 it returns an
// empty map. Otherwise it fills as many baseStakePerAccount-sized
// accounts as fit, folding any remainder into the final account so the
// sum always equals targetTotal exactly.
func NewMockEpochStake(targetTotal uint64) EpochStake {
	stake := make(EpochStake)
	if targetTotal == 0 {
		return stake
	}
	numAccounts := targetTotal / baseStakePerAccount
	remainder := targetTotal % baseStakePerAccount
	if numAccounts == 0 {
		stake[pubkey.NewUnique()] = targetTotal
		return stake
	}
	for i := uint64(0); i < numAccounts-1; i++ {
		stake[pubkey.NewUnique()] = baseStakePerAccount
	}
	stake[pubkey.NewUnique()] = baseStakePerAccount + remainder
	return stake
}
