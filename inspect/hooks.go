// Package inspect implements the harness's Inspection Hooks: an
// optional pre/post-invocation callback surface the Message Executor
// fires around every top-level instruction, e.g. for collecting VM
// register traces or other diagnostics that have no place in the
// Result Model proper.
package inspect

import (
	"github.com/mollusk-svm/mollusk-go/instruction"
	"github.com/mollusk-svm/mollusk-go/svmerror"
)

// Hooks bundles the optional before/after callbacks. Either field may be
// nil; a nil Hooks value (or one with both fields nil) costs nothing --
// the Message Executor only calls what's set.
type Hooks struct {
	BeforeInvocation func(index int, ci instruction.CompiledInstruction)
	AfterInvocation  func(index int, ci instruction.CompiledInstruction, cuConsumed uint64, err *svmerror.InstructionError)
}

func (h *Hooks) before(index int, ci instruction.CompiledInstruction) {
	if h == nil || h.BeforeInvocation == nil {
		return
	}
	h.BeforeInvocation(index, ci)
}

func (h *Hooks) after(index int, ci instruction.CompiledInstruction, cu uint64, err *svmerror.InstructionError) {
	if h == nil || h.AfterInvocation == nil {
		return
	}
	h.AfterInvocation(index, ci, cu, err)
}

// Before fires the before-invocation hook on h, tolerating a nil h.
func Before(h *Hooks, index int, ci instruction.CompiledInstruction) {
	h.before(index, ci)
}

// After fires the after-invocation hook on h, tolerating a nil h.
func After(h *Hooks, index int, ci instruction.CompiledInstruction, cu uint64, err *svmerror.InstructionError) {
	h.after(index, ci, cu, err)
}

// RegisterTrace is one entry of a VM register trace, the canonical use
// case for inspection hooks per the design notes.
type RegisterTrace struct {
	InstructionIndex int
	ProgramCounter   uint64
	Registers        [11]uint64
}

// RegisterTraceCollector is a ready-made AfterInvocation-compatible
// collector: attach its Collect method to Hooks.AfterInvocation when
// SBF_TRACE_DIR-style register tracing is wanted, without the caller
// needing to manage trace storage itself.
type RegisterTraceCollector struct {
	Traces []RegisterTrace
}

func (c *RegisterTraceCollector) Collect(index int, _ instruction.CompiledInstruction, _ uint64, _ *svmerror.InstructionError) {
	// The reference engine does not expose real register state; this
	// collector records invocation boundaries only, leaving Registers
	// zeroed. A register-tracing-capable engine would populate it here.
	c.Traces = append(c.Traces, RegisterTrace{InstructionIndex: index})
}
