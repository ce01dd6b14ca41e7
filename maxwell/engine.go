// Package maxwell emulates the Maxwell 3D command-processing engine.
//
// The engine consumes an ordered stream of register writes issued by
// guest software, keeps the emulated register file, and turns specific
// writes into higher-level operations: constant buffer binds and
// streamed writes, draw submission, query completion, and macro calls
// that stand in for guest-uploaded microcode. It is single-threaded and
// synchronous; each write is processed to completion before the next.
package maxwell

import (
	"fmt"

	"github.com/virtualme1/yuzu/debug"
	"github.com/virtualme1/yuzu/regs"
)

// Engine is the 3D engine state machine.
type Engine struct {
	regs  regs.File
	state engineState

	translator AddressTranslator
	memory     GuestMemory
	rasterizer Rasterizer
	debugCtx   debug.Context

	// Macro call state. executingMacro is zero when no call is pending;
	// macroParams is empty whenever executingMacro is zero.
	executingMacro uint32
	macroParams    []uint32

	// Uploaded macro code keyed by entry*2 + regs.MacroRegistersStart.
	// The words are never interpreted, only their presence matters.
	uploadedMacros map[uint32][]uint32
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebugContext attaches a trace hook. When unset, trace points are
// no-ops.
func WithDebugContext(ctx debug.Context) Option {
	return func(e *Engine) {
		e.debugCtx = ctx
	}
}

// New creates a 3D engine wired to its collaborators. The translator,
// guest memory and rasterizer are required; the debug context is
// optional.
func New(translator AddressTranslator, memory GuestMemory, rasterizer Rasterizer, opts ...Option) *Engine {
	e := &Engine{
		translator:     translator,
		memory:         memory,
		rasterizer:     rasterizer,
		uploadedMacros: make(map[uint32][]uint32),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WriteRegister processes one register write from the command stream.
// remaining is the number of writes left in the caller's batch; it is
// only consulted to decide when an accumulated macro call is complete.
//
// Any returned error is final for the stream: the engine exposes no
// recovery API and the submitting side must halt.
func (e *Engine) WriteRegister(method, value, remaining uint32) error {
	if method >= regs.NumRegs {
		return fmt.Errorf("%w: method 0x%X", ErrInvalidRegister, method)
	}

	// While a macro call is pending, its argument register is the only
	// valid write target.
	if e.executingMacro != 0 && method != e.executingMacro+1 {
		return fmt.Errorf("%w: wrote register 0x%X during macro 0x%X",
			ErrContractViolation, method, e.executingMacro)
	}

	// Methods at MacroRegistersStart and above trigger microcode that
	// the guest uploaded during initialization.
	if method >= regs.MacroRegistersStart {
		if e.executingMacro == 0 {
			// A call must begin on the even entry register, not on the
			// odd argument register.
			if method%2 != 0 {
				return fmt.Errorf("%w: macro call started on argument register 0x%X",
					ErrContractViolation, method)
			}
			e.executingMacro = method
		}

		e.macroParams = append(e.macroParams, value)

		if remaining == 0 {
			return e.CallMacro(e.executingMacro, e.macroParams)
		}
		return nil
	}

	e.emitEvent(debug.CommandLoaded, debug.Snapshot{Method: method, Value: value})

	e.regs.Write(method, value)

	if err := e.applySideEffect(method, value); err != nil {
		return err
	}

	e.emitEvent(debug.CommandProcessed, debug.Snapshot{Method: method, Value: value})
	return nil
}

// applySideEffect runs the per-register action of an ordinary write.
func (e *Engine) applySideEffect(method, value uint32) error {
	switch {
	case method == regs.CodeAddressHigh || method == regs.CodeAddressLow:
		// Guests have been observed writing 0 here; whether nonzero
		// values are legal is unresolved, so they fail loudly instead
		// of silently skewing shader address math.
		if addr := e.regs.CodeAddress(); addr != 0 {
			return fmt.Errorf("%w: unexpected CODE_ADDRESS value 0x%X",
				ErrContractViolation, addr)
		}

	case regs.IsCBData(method):
		return e.processCBData(value)

	case method == regs.VertexEndGL:
		e.drawArrays()

	case method == regs.QueryGet:
		return e.processQueryGet()

	default:
		if stage, ok := regs.CBBindStage(method); ok {
			return e.processCBBind(stage)
		}
	}

	return nil
}

// emitEvent forwards a trace event when a debug context is attached.
func (e *Engine) emitEvent(event debug.Event, snap debug.Snapshot) {
	if e.debugCtx != nil {
		e.debugCtx.OnEvent(event, snap)
	}
}

// Register returns the current value of a register. It panics on an
// out-of-range index; reads are an engine-internal affair and callers
// pass trusted constants.
func (e *Engine) Register(i uint32) uint32 {
	return e.regs.Read(i)
}

// Regs returns a copy of the register file for inspection.
func (e *Engine) Regs() regs.File {
	return e.regs
}

// ConstBuffer returns the binding of one constant buffer slot.
func (e *Engine) ConstBuffer(stage regs.ShaderStage, slot uint32) ConstBufferBinding {
	return e.state.shaderStages[stage].ConstBuffers[slot]
}

// ShaderProgramSlot returns the recorded state of a shader program slot.
func (e *Engine) ShaderProgramSlot(program regs.ShaderProgram) ShaderProgramSlot {
	return e.state.shaderPrograms[program]
}

// MacroPending reports whether a macro call is accumulating arguments.
func (e *Engine) MacroPending() bool {
	return e.executingMacro != 0
}
