// Package instruction defines the caller-facing Instruction and
// AccountMeta shapes, plus the CompiledInstruction form the Account
// Compiler produces for message-internal indexing.
package instruction

import "github.com/mollusk-svm/mollusk-go/pubkey"

// AccountMeta describes one account reference within an Instruction:
// which key, and whether the caller asserts signer/writable privilege
// for it at this occurrence.
type AccountMeta struct {
	Pubkey     pubkey.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Signer builds a signing AccountMeta; writable sets its writable flag.
func Signer(key pubkey.Pubkey, writable bool) AccountMeta {
	return AccountMeta{Pubkey: key, IsSigner: true, IsWritable: writable}
}

// ReadonlyMeta builds a non-signing, non-writable AccountMeta.
func ReadonlyMeta(key pubkey.Pubkey) AccountMeta {
	return AccountMeta{Pubkey: key}
}

// WritableMeta builds a non-signing, writable AccountMeta.
func WritableMeta(key pubkey.Pubkey) AccountMeta {
	return AccountMeta{Pubkey: key, IsWritable: true}
}

// Instruction is the caller-facing description of a single program
// invocation: which program, in what account order, with what opaque
// instruction data.
type Instruction struct {
	ProgramID pubkey.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// New builds an Instruction from raw data and account metas.
func New(programID pubkey.Pubkey, data []byte, metas []AccountMeta) Instruction {
	return Instruction{ProgramID: programID, Accounts: metas, Data: data}
}

// CompiledInstruction is the message-internal form the Account Compiler
// produces: accounts are indices into the transaction-account vector,
// not raw pubkeys, and the program ID is likewise an index.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}
