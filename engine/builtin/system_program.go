package builtin

import (
	"encoding/binary"

	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// SystemError mirrors the system program's own custom error codes,
// surfaced to callers as InstructionError::Custom(code) / ProgramError.
type SystemError uint32

const (
	SystemErrorAccountAlreadyInUse SystemError = iota
	SystemErrorResultWithNegativeLamports
	SystemErrorInvalidProgramID
	SystemErrorInvalidAccountDataLength
	SystemErrorMaxSeedLengthExceeded
	SystemErrorAddressWithSeedMismatch
)

const (
	systemCreateAccount uint32 = iota
	systemAssign
	systemTransfer
	systemAllocate
)

// defaultTransferCU is the fixed compute-unit cost the reference system
// program charges for a transfer, matching the number scenario 1 checks
// against.
const defaultTransferCU = 150

func systemProgram(ctx *Context) *svmerror.InstructionError {
	custom := func(code SystemError) *svmerror.InstructionError {
		e := svmerror.NewCustom(uint32(code))
		return &e
	}
	of := func(k svmerror.InstructionErrorKind) *svmerror.InstructionError {
		e := svmerror.Of(k)
		return &e
	}

	data := ctx.Data()
	if len(data) < 4 {
		return of(svmerror.InvalidInstructionData)
	}
	discriminant := binary.LittleEndian.Uint32(data[0:4])
	body := data[4:]

	switch discriminant {
	case systemTransfer:
		if len(body) < 8 {
			return of(svmerror.InvalidInstructionData)
		}
		if ctx.AccountCount() < 2 {
			return of(svmerror.NotEnoughAccountKeys)
		}
		lamports := binary.LittleEndian.Uint64(body[0:8])
		if !ctx.IsSigner(0) {
			return of(svmerror.MissingRequiredSignature)
		}
		from := ctx.Account(0)
		to := ctx.Account(1)
		if from.Lamports < lamports {
			return custom(SystemErrorResultWithNegativeLamports)
		}
		from.Lamports -= lamports
		to.Lamports += lamports
		ctx.SetAccount(0, from)
		ctx.SetAccount(1, to)
		ctx.ConsumeCU(defaultTransferCU)
		return nil

	case systemCreateAccount:
		if len(body) < 8+8+32 {
			return of(svmerror.InvalidInstructionData)
		}
		if ctx.AccountCount() < 2 {
			return of(svmerror.NotEnoughAccountKeys)
		}
		lamports := binary.LittleEndian.Uint64(body[0:8])
		space := binary.LittleEndian.Uint64(body[8:16])
		owner := pubkey.New(body[16:48])
		if !ctx.IsSigner(0) || !ctx.IsSigner(1) {
			return of(svmerror.MissingRequiredSignature)
		}
		newAcct := ctx.Account(1)
		if newAcct.Lamports > 0 || len(newAcct.Data) > 0 {
			return custom(SystemErrorAccountAlreadyInUse)
		}
		funding := ctx.Account(0)
		if funding.Lamports < lamports {
			return custom(SystemErrorResultWithNegativeLamports)
		}
		funding.Lamports -= lamports
		newAcct.Lamports += lamports
		newAcct.Data = make([]byte, space)
		newAcct.Owner = owner
		ctx.SetAccount(0, funding)
		ctx.SetAccount(1, newAcct)
		ctx.ConsumeCU(defaultTransferCU)
		return nil

	case systemAssign:
		if len(body) < 32 {
			return of(svmerror.InvalidInstructionData)
		}
		if ctx.AccountCount() < 1 {
			return of(svmerror.NotEnoughAccountKeys)
		}
		if !ctx.IsSigner(0) {
			return of(svmerror.MissingRequiredSignature)
		}
		owner := pubkey.New(body[0:32])
		acct := ctx.Account(0)
		acct.Owner = owner
		ctx.SetAccount(0, acct)
		ctx.ConsumeCU(defaultTransferCU)
		return nil

	case systemAllocate:
		if len(body) < 8 {
			return of(svmerror.InvalidInstructionData)
		}
		if ctx.AccountCount() < 1 {
			return of(svmerror.NotEnoughAccountKeys)
		}
		if !ctx.IsSigner(0) {
			return of(svmerror.MissingRequiredSignature)
		}
		space := binary.LittleEndian.Uint64(body[0:8])
		acct := ctx.Account(0)
		if len(acct.Data) > 0 {
			return custom(SystemErrorAccountAlreadyInUse)
		}
		acct.Data = make([]byte, space)
		ctx.SetAccount(0, acct)
		ctx.ConsumeCU(defaultTransferCU)
		return nil

	default:
		return of(svmerror.InvalidInstructionData)
	}
}

// TransferInstructionData encodes a system-program Transfer instruction
// body: test helper mirroring the wire layout systemProgram decodes.
func TransferInstructionData(lamports uint64) []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint32(b[0:4], systemTransfer)
	binary.LittleEndian.PutUint64(b[4:12], lamports)
	return b
}
