package svm

import (
	"fmt"
	"sort"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/internal/molog"
	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// cacheEntry mirrors the source's CacheEntry: a loader class plus the
// raw ELF when the program is BPF-backed (built-ins carry no ELF).
type cacheEntry struct {
	loaderKey pubkey.Pubkey
	elfBytes  []byte
	loaded    engine.LoadedProgram
}

// ProgramCache owns every executable program artifact for the harness
// lifetime: built-ins registered up front, BPF programs inserted by the
// caller. Entries are immutable after insertion (invariant 6);
// re-insertion under the same key replaces both ELF and loaded handle
// atomically.
type ProgramCache struct {
	eng             engine.Engine
	entries         map[pubkey.Pubkey]cacheEntry
	precompiles     map[pubkey.Pubkey]struct{}
	registerTracing bool
}

// NewProgramCache constructs an empty cache bound to eng. registerTracing
// mirrors the source's one-shot decision at cache construction time:
// once set it applies to every program loaded through this cache.
func NewProgramCache(eng engine.Engine, registerTracing bool) *ProgramCache {
	return &ProgramCache{
		eng:             eng,
		entries:         make(map[pubkey.Pubkey]cacheEntry),
		precompiles:     make(map[pubkey.Pubkey]struct{}),
		registerTracing: registerTracing,
	}
}

// AddBuiltin inserts a native program under the native-loader key. name
// is accepted for parity with the source's signature and diagnostic use
// only; the harness does not otherwise index by name.
func (c *ProgramCache) AddBuiltin(programID pubkey.Pubkey, name string, cfg engine.InvocationConfig) {
	cfg.RegisterTracing = c.registerTracing
	handle, err := c.eng.LoadProgram(programID, pubkey.NativeLoader, nil, cfg)
	if err != nil {
		panic(fmt.Sprintf("mollusk: add_builtin(%s/%s): %v", programID, name, err))
	}
	c.entries[programID] = cacheEntry{
		loaderKey: pubkey.NativeLoader,
		loaded:    engine.LoadedProgram{ProgramID: programID, LoaderKey: pubkey.NativeLoader, Handle: handle},
	}
}

// AddPrecompile registers programID as a precompile: the Message
// Executor routes it through ProcessPrecompile instead of
// ProcessInstruction, and it is never charged compute units.
func (c *ProgramCache) AddPrecompile(programID pubkey.Pubkey) {
	c.precompiles[programID] = struct{}{}
	c.entries[programID] = cacheEntry{loaderKey: pubkey.NativeLoader}
}

// AddProgram verifies elf via the engine and inserts it under loaderKey.
// Both the ELF bytes and the loaded handle land in the cache atomically.
func (c *ProgramCache) AddProgram(programID, loaderKey pubkey.Pubkey, elf []byte, cfg engine.InvocationConfig) error {
	cfg.RegisterTracing = c.registerTracing
	handle, err := c.eng.LoadProgram(programID, loaderKey, elf, cfg)
	if err != nil {
		return fmt.Errorf("mollusk: add_program(%s): %w", programID, err)
	}
	c.entries[programID] = cacheEntry{
		loaderKey: loaderKey,
		elfBytes:  elf,
		loaded:    engine.LoadedProgram{ProgramID: programID, LoaderKey: loaderKey, ELF: elf, Handle: handle},
	}
	return nil
}

// Lookup implements engine.ProgramLookup.
func (c *ProgramCache) Lookup(programID pubkey.Pubkey) (engine.LoadedProgram, bool) {
	e, ok := c.entries[programID]
	if !ok {
		molog.Default().WithField("program_id", programID.String()).Debugf("program cache miss")
		return engine.LoadedProgram{}, false
	}
	return e.loaded, true
}

// IsPrecompile implements engine.ProgramLookup.
func (c *ProgramCache) IsPrecompile(programID pubkey.Pubkey) bool {
	_, ok := c.precompiles[programID]
	return ok
}

// GetLoaderKey returns the loader class for a cached program. Precompile
// keys return the native-loader class, matching the source.
func (c *ProgramCache) GetLoaderKey(programID pubkey.Pubkey) (pubkey.Pubkey, bool) {
	e, ok := c.entries[programID]
	if !ok {
		return pubkey.Pubkey{}, false
	}
	return e.loaderKey, true
}

// Contains reports whether programID has a cache entry.
func (c *ProgramCache) Contains(programID pubkey.Pubkey) bool {
	_, ok := c.entries[programID]
	return ok
}

// MaybeCreateProgramAccount synthesizes the account stub for a cached
// program, using the loader-specific layout: v1/v2 store the ELF as
// account data directly; v3 (upgradeable) and v4 use fixed-prefix state
// layouts that the harness only needs to round-trip, not interpret.
func (c *ProgramCache) MaybeCreateProgramAccount(programID pubkey.Pubkey) (account.Account, bool) {
	e, ok := c.entries[programID]
	if !ok {
		return account.Account{}, false
	}
	switch e.loaderKey {
	case pubkey.NativeLoader:
		return account.Account{Owner: pubkey.NativeLoader, Executable: true}, true
	case pubkey.BPFLoaderV1, pubkey.BPFLoaderV2:
		return account.Account{Owner: e.loaderKey, Executable: true, Data: append([]byte(nil), e.elfBytes...)}, true
	case pubkey.BPFLoaderUpgradeable:
		return upgradeableProgramAccount(programID, e.loaderKey), true
	case pubkey.LoaderV4:
		return loaderV4ProgramAccount(e), true
	default:
		return account.Account{Owner: e.loaderKey, Executable: true, Data: append([]byte(nil), e.elfBytes...)}, true
	}
}

// GetAllKeyedProgramAccounts returns every cached program's synthesized
// account, sorted by key for deterministic iteration (the source's
// HashMap iteration order is itself unspecified; sorting keeps this
// harness's output reproducible for snapshot-style tests). A v3
// (upgradeable) entry additionally contributes its derived programdata
// account, keyed at programDataAddress(programID): the program account
// alone is just a pointer, so a caller hydrating a store from this list
// must see both halves of the v3 pair.
func (c *ProgramCache) GetAllKeyedProgramAccounts() account.Entries {
	keys := make([]pubkey.Pubkey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	out := make(account.Entries, 0, len(keys))
	for _, k := range keys {
		a, _ := c.MaybeCreateProgramAccount(k)
		out = append(out, account.Entry{Key: k, Account: a})
		if e := c.entries[k]; e.loaderKey == pubkey.BPFLoaderUpgradeable {
			out = append(out, account.Entry{Key: programDataAddress(k), Account: upgradeableProgramDataAccount(e)})
		}
	}
	return out
}

// upgradeableProgramAccount builds the v3 "program" account: a thin
// pointer record whose data names its programdata account's address
// (derived deterministically from the program ID so it's stable across
// calls, without needing a real PDA derivation).
func upgradeableProgramAccount(programID, loaderKey pubkey.Pubkey) account.Account {
	programData := programDataAddress(programID)
	data := make([]byte, 36)
	data[0], data[1], data[2], data[3] = 2, 0, 0, 0 // UpgradeableLoaderState::Program tag
	copy(data[4:36], programData.Bytes())
	return account.Account{Owner: loaderKey, Executable: true, Data: data}
}

// upgradeableProgramDataAccount builds the v3 "programdata" account the
// program account above points to: a fixed-prefix state record (tag +
// deployment slot + optional upgrade authority, zero/absent since the
// harness doesn't model upgrades) followed by the program's own ELF.
func upgradeableProgramDataAccount(e cacheEntry) account.Account {
	const prefixLen = 45 // tag(4) + slot(8) + has_authority(1) + authority(32)
	data := make([]byte, prefixLen+len(e.elfBytes))
	data[0], data[1], data[2], data[3] = 3, 0, 0, 0 // UpgradeableLoaderState::ProgramData tag
	copy(data[prefixLen:], e.elfBytes)
	return account.Account{Owner: pubkey.BPFLoaderUpgradeable, Data: data}
}

func programDataAddress(programID pubkey.Pubkey) pubkey.Pubkey {
	var pd pubkey.Pubkey
	copy(pd[:], programID.Bytes())
	pd[31] ^= 0xFF
	return pd
}

func loaderV4ProgramAccount(e cacheEntry) account.Account {
	const prefixLen = 48
	data := make([]byte, prefixLen+len(e.elfBytes))
	copy(data[prefixLen:], e.elfBytes)
	return account.Account{Owner: pubkey.LoaderV4, Executable: true, Data: data}
}
