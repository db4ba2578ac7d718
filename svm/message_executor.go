package svm

import (
	"github.com/mollusk-svm/mollusk-go/account"
	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/inspect"
	"github.com/mollusk-svm/mollusk-go/internal/metrics"
	"github.com/mollusk-svm/mollusk-go/internal/molog"
	"github.com/mollusk-svm/mollusk-go/message"
	"github.com/mollusk-svm/mollusk-go/result"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// executionOutcome is the Message Executor's intermediate result: the
// facade decides what to do with it (deconstruct into InstructionResult
// vs TransactionResult, thread forward in a chain, etc).
type executionOutcome struct {
	ComputeUnitsConsumed uint64
	TxErr                *svmerror.TransactionError
	ReturnData           []byte
	ResultingAccounts    account.Entries
	InnerGroups          [][]result.InnerInstruction
	Message              *message.Message
}

// ExecuteMessage drives eng over msg inside a single transaction
// context, per the Message Executor's protocol: prepare each top-level
// instruction, dispatch to ProcessPrecompile or ProcessInstruction,
// accumulate CU, stop on first failure. It is strictly single-threaded
// and CPU-bound; there is nothing to cancel or time out beyond the
// compute budget itself.
func ExecuteMessage(eng engine.Engine, msg *message.Message, txAccounts account.Entries, cfg engine.InvocationConfig, lookup engine.ProgramLookup, hooks *inspect.Hooks) executionOutcome {
	inv := eng.NewInvocation(txAccounts, msg.SignerFlags, msg.WritableFlags, cfg, lookup)

	var totalCU uint64
	var txErr *svmerror.TransactionError

	for i, ci := range msg.Instructions() {
		if err := inv.PrepareNextTopLevelInstruction(ci); err != nil {
			// Malformed message: programmer error, not a program-execution
			// failure. Abort rather than encode it as a raw_result.
			panic(svmerror.NewMolluskError(svmerror.ProgramIdNotMapped, err.Error()))
		}

		inspect.Before(hooks, i, ci)

		var cu uint64
		var instrErr *svmerror.InstructionError
		programID := txAccounts[ci.ProgramIDIndex].Key
		if lookup.IsPrecompile(programID) {
			instrErr = inv.ProcessPrecompile()
		} else {
			cu, instrErr = inv.ProcessInstruction()
		}
		totalCU += cu

		inspect.After(hooks, i, ci, cu, instrErr)
		metrics.RecordInvocation(programID.String(), instrErr == nil, cu)
		molog.Default().WithField("program_id", programID.String()).Debugf("dispatched top-level instruction %d, cu=%d, err=%v", i, cu, instrErr)

		if instrErr != nil {
			e := svmerror.NewInstructionError(i, *instrErr)
			txErr = &e
			break
		}
	}

	returnData := inv.ReadReturnData()
	trace := inv.TakeInstructionTrace()
	groups := groupInnerInstructions(trace)

	return executionOutcome{
		ComputeUnitsConsumed: totalCU,
		TxErr:                txErr,
		ReturnData:           returnData,
		ResultingAccounts:    inv.ResultingAccounts(),
		InnerGroups:          groups,
		Message:              msg,
	}
}

// groupInnerInstructions implements the flat-trace-to-grouped-CPI
// algorithm: stack_height = nesting_level + 1; an entry with
// stack_height == 1 opens a new top-level group (it is the top-level
// instruction itself and is not appended to any group's CPI list);
// entries with stack_height > 1 append to the currently open group.
func groupInnerInstructions(trace []engine.TraceEntry) [][]result.InnerInstruction {
	var groups [][]result.InnerInstruction
	for _, e := range trace {
		stackHeight := e.NestingLevel + 1
		if stackHeight == 1 {
			groups = append(groups, nil)
			continue
		}
		if len(groups) == 0 {
			// A CPI entry with no preceding top-level marker is a trace bug
			// in the engine; open an implicit group rather than panic so a
			// misbehaving test engine doesn't crash the harness process.
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], result.InnerInstruction{
			ProgramIDIndex: e.ProgramIDIndex,
			AccountIndices: e.AccountIndices,
			Data:           e.Data,
			StackHeight:    stackHeight,
		})
	}
	return groups
}
