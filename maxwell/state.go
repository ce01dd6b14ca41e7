package maxwell

import "github.com/virtualme1/yuzu/regs"

// AddressTranslator converts GPU addresses into guest CPU addresses.
// The engine calls it synchronously on every guest memory access and
// never caches the result.
type AddressTranslator interface {
	PhysicalToVirtual(gpuAddr uint64) uint64
}

// GuestMemory is the shared guest address space. The engine owns none of
// it and performs plain, unsynchronized accesses; the caller guarantees
// mutual exclusion with other mutators.
type GuestMemory interface {
	Read32(addr uint64) uint32
	Write32(addr uint64, v uint32)
	ReadBlock(addr uint64, buf []byte)
}

// Rasterizer is the rendering backend the draw trigger hands batches to.
// The call is fire-and-forget from the engine's point of view.
type Rasterizer interface {
	AccelerateDrawBatch(isIndexed bool)
}

// ConstBufferBinding is the engine-side view of one constant buffer bind
// point of a shader stage. Address and Size are only meaningful while
// Enabled is set.
type ConstBufferBinding struct {
	Enabled bool
	Index   uint32
	Address uint64
	Size    uint32
}

// ShaderStageState holds the per-stage resource bindings.
type ShaderStageState struct {
	ConstBuffers [regs.MaxConstBuffers]ConstBufferBinding
}

// ShaderProgramSlot records the shader most recently bound to a program
// slot by the SetShader macro.
type ShaderProgramSlot struct {
	Program regs.ShaderProgram
	Stage   regs.ShaderStage
	Address uint32
}

// engineState is the engine-owned state that is not part of the register
// file proper.
type engineState struct {
	shaderStages   [regs.NumShaderStages]ShaderStageState
	shaderPrograms [regs.NumShaderPrograms]ShaderProgramSlot
}
