package svm

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/message"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// keyInfo tracks the union of privileges a key was referenced with
// across every instruction in the message, plus the order it was first
// seen in, so the compiler can reproduce legacy-message account
// ordering: writable signers, then readonly signers, then writable
// non-signers, then readonly non-signers.
type keyInfo struct {
	signer   bool
	writable bool
	seenAt   int
}

// CompileAccounts builds a sanitized Message and the ordered
// transaction-account vector from loose instructions plus candidate
// accounts and fallbacks. It is the harness's Account Compiler,
// grounded directly on the source's compile_accounts module: program
// IDs and the instructions sysvar get synthesized stubs when absent;
// every other referenced key must resolve via accounts or fallbacks or
// the call aborts with AccountMissing.
func CompileAccounts(instructions []instruction.Instruction, accounts account.Entries, fallbacks account.Entries) (*message.Message, account.Entries) {
	info := make(map[pubkey.Pubkey]*keyInfo)
	order := []pubkey.Pubkey{}
	seen := 0
	noteKey := func(key pubkey.Pubkey, signer, writable bool) {
		ki, ok := info[key]
		if !ok {
			ki = &keyInfo{seenAt: seen}
			seen++
			info[key] = ki
			order = append(order, key)
		}
		ki.signer = ki.signer || signer
		ki.writable = ki.writable || writable
	}

	programIDs := make(map[pubkey.Pubkey]struct{}, len(instructions))
	for _, ix := range instructions {
		programIDs[ix.ProgramID] = struct{}{}
		noteKey(ix.ProgramID, false, false)
		for _, meta := range ix.Accounts {
			noteKey(meta.Pubkey, meta.IsSigner, meta.IsWritable)
		}
	}

	accountKeys := bucketOrder(order, info)

	msg := &message.Message{
		AccountKeysList: accountKeys,
		SignerFlags:     make([]bool, len(accountKeys)),
		WritableFlags:   make([]bool, len(accountKeys)),
	}
	for i, key := range accountKeys {
		msg.SignerFlags[i] = info[key].signer
		msg.WritableFlags[i] = info[key].writable
	}
	for _, ix := range instructions {
		compiled := instruction.CompiledInstruction{
			ProgramIDIndex: uint8(msg.IndexOf(ix.ProgramID)),
			Data:           ix.Data,
		}
		for _, meta := range ix.Accounts {
			compiled.Accounts = append(compiled.Accounts, uint8(msg.IndexOf(meta.Pubkey)))
		}
		msg.Compiled = append(msg.Compiled, compiled)
	}

	txAccounts := buildTransactionAccounts(accountKeys, programIDs, accounts, fallbacks, instructions)
	return msg, txAccounts
}

// bucketOrder reorders keys into the four legacy-message privilege
// buckets while preserving first-seen order within each bucket.
func bucketOrder(keys []pubkey.Pubkey, info map[pubkey.Pubkey]*keyInfo) []pubkey.Pubkey {
	var writableSigner, readonlySigner, writableNonSigner, readonlyNonSigner []pubkey.Pubkey
	for _, k := range keys {
		ki := info[k]
		switch {
		case ki.signer && ki.writable:
			writableSigner = append(writableSigner, k)
		case ki.signer && !ki.writable:
			readonlySigner = append(readonlySigner, k)
		case !ki.signer && ki.writable:
			writableNonSigner = append(writableNonSigner, k)
		default:
			readonlyNonSigner = append(readonlyNonSigner, k)
		}
	}
	out := make([]pubkey.Pubkey, 0, len(keys))
	out = append(out, writableSigner...)
	out = append(out, readonlySigner...)
	out = append(out, writableNonSigner...)
	out = append(out, readonlyNonSigner...)
	return out
}

func buildTransactionAccounts(
	accountKeys []pubkey.Pubkey,
	programIDs map[pubkey.Pubkey]struct{},
	accounts account.Entries,
	fallbacks account.Entries,
	instructions []instruction.Instruction,
) account.Entries {
	out := make(account.Entries, 0, len(accountKeys))
	for _, key := range accountKeys {
		if _, isProgram := programIDs[key]; isProgram {
			if a, ok := accounts.Find(key); ok {
				out = append(out, account.Entry{Key: key, Account: a})
				continue
			}
			if a, ok := fallbacks.Find(key); ok {
				out = append(out, account.Entry{Key: key, Account: a})
				continue
			}
			// Safety net only; well-formed callers populate fallbacks for
			// every program ID they reference.
			out = append(out, account.Entry{Key: key, Account: account.Account{Executable: true}})
			continue
		}

		if key == pubkey.InstructionsSysvar {
			if a, ok := accounts.Find(key); ok {
				out = append(out, account.Entry{Key: key, Account: a})
				continue
			}
			if a, ok := fallbacks.Find(key); ok {
				out = append(out, account.Entry{Key: key, Account: a})
				continue
			}
			out = append(out, account.Entry{Key: key, Account: instructionsSysvarAccount(instructions)})
			continue
		}

		if a, ok := accounts.Find(key); ok {
			out = append(out, account.Entry{Key: key, Account: a})
			continue
		}
		if a, ok := fallbacks.Find(key); ok {
			out = append(out, account.Entry{Key: key, Account: a})
			continue
		}
		svmerror.OrPanic(svmerror.AccountMissing, key.String(), false)
	}
	return out
}
