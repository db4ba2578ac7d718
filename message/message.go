// Package message holds the Account Compiler's output shape: the
// sanitized, message-internal view of an instruction set. It is kept
// separate from the svm package so that the Result Model can expose a
// Message field without importing the rest of the harness.
package message

import (
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// Message is the sanitized, message-internal form the Account Compiler
// produces. It is deliberately opaque outside this package except for
// a small accessor surface: per-account is_signer/is_writable, ordered
// account_keys, and per-instruction {program_id_index, accounts, data}.
type Message struct {
	AccountKeysList []pubkey.Pubkey
	SignerFlags     []bool
	WritableFlags   []bool
	Compiled        []instruction.CompiledInstruction
}

// AccountKeys returns the ordered, deduplicated transaction-account keys.
func (m *Message) AccountKeys() []pubkey.Pubkey {
	return m.AccountKeysList
}

// IsSigner reports whether the account at index asserts signer privilege
// anywhere in the message.
func (m *Message) IsSigner(index int) bool {
	if index < 0 || index >= len(m.SignerFlags) {
		return false
	}
	return m.SignerFlags[index]
}

// IsWritable reports whether the account at index asserts writable
// privilege anywhere in the message.
func (m *Message) IsWritable(index int) bool {
	if index < 0 || index >= len(m.WritableFlags) {
		return false
	}
	return m.WritableFlags[index]
}

// Instructions returns the compiled, index-based instructions in
// dispatch order.
func (m *Message) Instructions() []instruction.CompiledInstruction {
	return m.Compiled
}

// IndexOf returns the index of key within AccountKeys, or -1.
func (m *Message) IndexOf(key pubkey.Pubkey) int {
	for i, k := range m.AccountKeysList {
		if k == key {
			return i
		}
	}
	return -1
}
