package maxwell

import (
	"fmt"

	"github.com/virtualme1/yuzu/regs"
)

// macroInfo describes one natively reimplemented macro routine.
type macroInfo struct {
	name      string
	arguments int
	handler   func(*Engine, []uint32) error
}

// macroHandlers maps macro entry registers to their native
// reimplementations. The table covers the known microcode programs the
// guest uploads during initialization; it is fixed at build time.
var macroHandlers = map[uint32]macroInfo{
	0xE1A: {"BindTextureInfoBuffer", 1, (*Engine).bindTextureInfoBuffer},
	0xE24: {"SetShader", 5, (*Engine).setShader},
	0xE2A: {"BindStorageBuffer", 1, (*Engine).bindStorageBuffer},
}

// UploadMacroCode stores raw microcode words for the macro reachable
// through the given entry index. The words are never interpreted; upload
// only satisfies the precondition CallMacro checks.
func (e *Engine) UploadMacroCode(entry uint32, code []uint32) {
	e.uploadedMacros[entry*2+regs.MacroRegistersStart] = code
}

// CallMacro dispatches an accumulated macro call to its native handler.
// Pending call state is cleared whether or not the handler succeeds.
func (e *Engine) CallMacro(method uint32, parameters []uint32) error {
	defer func() {
		e.executingMacro = 0
		e.macroParams = nil
	}()

	if _, ok := e.uploadedMacros[method]; !ok {
		return fmt.Errorf("%w: 0x%X", ErrUnknownMacro, method)
	}

	info, ok := macroHandlers[method]
	if !ok {
		return fmt.Errorf("%w: 0x%X", ErrUnimplementedMacro, method)
	}

	if len(parameters) != info.arguments {
		return fmt.Errorf("%w: macro %s takes %d arguments, got %d",
			ErrContractViolation, info.name, info.arguments, len(parameters))
	}

	return info.handler(e, parameters)
}

// bindTextureInfoBuffer reproduces the texture-info-buffer binding
// macro. Parameters: [0] = shader stage, usually Fragment.
//
// It stages the per-stage texture info buffer address and size into the
// active constant buffer configuration, preparing a subsequent bind.
func (e *Engine) bindTextureInfoBuffer(parameters []uint32) error {
	stage := regs.ShaderStage(parameters[0])
	if stage >= regs.NumShaderStages {
		return fmt.Errorf("%w: shader stage %d", ErrContractViolation, stage)
	}

	address := e.regs.TexInfoBufferAddress(stage)
	size := e.regs.TexInfoBufferSize(stage)

	e.regs.Write(regs.CBSize, size)
	e.regs.SetConstBufferAddress(address)
	return nil
}

// setShaderCBSize is the constant buffer size hardcoded in the SetShader
// macro's code.
const setShaderCBSize = 0x10000

// setShader reproduces the shader binding macro. Parameters:
//
//	[0] = shader program slot
//	[1] = shader id (unused by the observable state transitions)
//	[2] = offset to the start of the shader code
//	[3] = shader stage
//	[4] = constant buffer address >> 8
func (e *Engine) setShader(parameters []uint32) error {
	program := regs.ShaderProgram(parameters[0])
	address := parameters[2]
	stage := regs.ShaderStage(parameters[3])
	cbAddress := uint64(parameters[4]) << 8

	// Both indices come straight off the command stream.
	if program >= regs.NumShaderPrograms {
		return fmt.Errorf("%w: shader program %d", ErrContractViolation, program)
	}
	if stage >= regs.NumShaderStages {
		return fmt.Errorf("%w: shader stage %d", ErrContractViolation, stage)
	}

	e.state.shaderPrograms[program] = ShaderProgramSlot{
		Program: program,
		Stage:   stage,
		Address: address,
	}

	e.regs.SetShaderStartID(program, address)

	e.regs.Write(regs.CBSize, setShaderCBSize)
	e.regs.SetConstBufferAddress(cbAddress)

	// The macro binds the staged buffer to c1[] of the stage; these are
	// most likely the shader's constants.
	e.regs.SetCBBind(stage, true, 1)

	return e.processCBBind(stage)
}

// bindStorageBufferCBSize is the constant buffer size hardcoded in the
// BindStorageBuffer macro's code.
const bindStorageBufferCBSize = 0x5F00

// bindStorageBuffer reproduces the storage buffer binding macro.
// Parameters: [0] = buffer offset >> 2.
func (e *Engine) bindStorageBuffer(parameters []uint32) error {
	offset := parameters[0] << 2

	e.regs.Write(regs.CBSize, bindStorageBufferCBSize)
	e.regs.SetConstBufferAddress(e.regs.SSBOAddress())
	e.regs.Write(regs.CBPos, offset)
	return nil
}
