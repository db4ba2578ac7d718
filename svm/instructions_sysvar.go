package svm

import (
	"encoding/binary"

	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/pubkey"
)

// instructionsSysvarAccount synthesizes the instructions-sysvar account:
// its data is the canonical serialization of the instruction set of the
// current message. The harness never validates this data on the way
// back in (see the "instructions-sysvar override" design note) -- this
// function only governs what the harness itself produces when no
// caller-supplied or fallback account exists.
func instructionsSysvarAccount(instructions []instruction.Instruction) account.Account {
	return account.Account{
		Lamports:   0,
		Data:       encodeInstructionsSysvar(instructions),
		Owner:      pubkey.InstructionsSysvar,
		Executable: false,
	}
}

// encodeInstructionsSysvar produces a flat, length-prefixed encoding of
// every instruction: program id, then each account meta (pubkey + a
// signer/writable flag byte), then the instruction data. This mirrors
// the shape of the real sysvar (enough for programs that borrow-inspect
// neighboring instructions to find program id / accounts / data) without
// needing bit-for-bit compatibility, since the specific wire layout is
// an external collaborator's schema and out of this harness's scope.
func encodeInstructionsSysvar(instructions []instruction.Instruction) []byte {
	var buf []byte
	put16 := func(v uint16) {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		buf = append(buf, b...)
	}
	put16(uint16(len(instructions)))
	for _, ix := range instructions {
		buf = append(buf, ix.ProgramID.Bytes()...)
		put16(uint16(len(ix.Accounts)))
		for _, meta := range ix.Accounts {
			buf = append(buf, meta.Pubkey.Bytes()...)
			flags := byte(0)
			if meta.IsSigner {
				flags |= 1
			}
			if meta.IsWritable {
				flags |= 2
			}
			buf = append(buf, flags)
		}
		put16(uint16(len(ix.Data)))
		buf = append(buf, ix.Data...)
	}
	return buf
}
