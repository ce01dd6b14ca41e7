// Package regs defines the Maxwell 3D engine register file layout.
//
// The hardware exposes one flat array of 32-bit registers. Guest software
// drives the engine purely through writes into this array; named fields
// (addresses, bind configurations, query state) are views over fixed index
// ranges of it. This package provides the flat array, the semantic index
// constants, and pure accessors that pack and unpack the named fields by
// explicit offset and width.
package regs

// NumRegs is the total number of 32-bit registers in the 3D engine.
const NumRegs = 0xE36

// MacroRegistersStart is the first register id that is actually a macro
// call rather than ordinary register state. Even ids in the macro range
// are call entries, odd ids are the matching argument registers.
const MacroRegistersStart = 0xE00

// Semantic register indices. Values follow the hardware method layout.
const (
	// TSC (sampler descriptor) table pointer and limit.
	TSCAddressHigh = 0x557
	TSCAddressLow  = 0x558
	TSCLimit       = 0x559

	// TIC (texture descriptor) table pointer and limit.
	TICAddressHigh = 0x55D
	TICAddressLow  = 0x55E
	TICLimit       = 0x55F

	// Shader code base address.
	CodeAddressHigh = 0x582
	CodeAddressLow  = 0x583

	// Draw state. Writing VertexEndGL kicks off a draw; VertexBeginGL
	// carries the primitive topology in its low bits.
	VertexEndGL   = 0x585
	VertexBeginGL = 0x586

	// Vertex buffer range for non-indexed draws.
	VertexBufferFirst = 0x35D
	VertexBufferCount = 0x35E

	// Query state. Writing QueryGet triggers query processing.
	QueryAddressHigh = 0x6C0
	QueryAddressLow  = 0x6C1
	QuerySequence    = 0x6C2
	QueryGet         = 0x6C3

	// Per-program shader configuration, ShaderConfigStride words each.
	// The entry point offset lives at ShaderConfigStartID within a slot.
	ShaderConfigBase    = 0x800
	ShaderConfigStride  = 0x10
	ShaderConfigStartID = 1

	// Active constant buffer configuration and streaming window. The
	// sixteen CBData aliases all feed the same streamed write port.
	CBSize        = 0x8E0
	CBAddressHigh = 0x8E1
	CBAddressLow  = 0x8E2
	CBPos         = 0x8E3
	CBDataBase    = 0x8E4
	CBDataCount   = 16

	// Per-stage constant buffer bind configuration, CBBindStride words
	// per stage.
	CBBindBase   = 0x904
	CBBindStride = 8

	// Index of the constant buffer slot holding texture handles.
	TexCBIndex = 0x982

	// Storage buffer info used by the BindStorageBuffer macro.
	SSBOAddressHigh = 0xD18
	SSBOAddressLow  = 0xD19

	// Per-stage texture info buffer address and size tables.
	TexInfoBufferAddrBase = 0xD2A
	TexInfoBufferSizeBase = 0xD2F
)

// ShaderStage identifies a pipeline stage with bindable resources.
type ShaderStage uint32

// Pipeline stages.
const (
	StageVertex ShaderStage = iota
	StageTesselationControl
	StageTesselationEval
	StageGeometry
	StageFragment

	NumShaderStages = 5
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StageTesselationControl:
		return "TesselationControl"
	case StageTesselationEval:
		return "TesselationEval"
	case StageGeometry:
		return "Geometry"
	case StageFragment:
		return "Fragment"
	}
	return "Unknown"
}

// ShaderProgram identifies one of the per-program shader slots. VertexA
// and VertexB both map to the vertex stage.
type ShaderProgram uint32

// Shader program slots.
const (
	ProgramVertexA ShaderProgram = iota
	ProgramVertexB
	ProgramTesselationControl
	ProgramTesselationEval
	ProgramGeometry
	ProgramFragment

	NumShaderPrograms = 6
)

// QueryMode selects what a QueryGet write reports.
type QueryMode uint32

// Query modes. Only Write is implemented by the engine.
const (
	QueryModeWrite QueryMode = 0
	QueryModeSync  QueryMode = 1
)

// PrimitiveTopology is the primitive type carried in VertexBeginGL.
type PrimitiveTopology uint32

// Primitive topologies.
const (
	TopologyPoints        PrimitiveTopology = 0x0
	TopologyLines         PrimitiveTopology = 0x1
	TopologyLineStrip     PrimitiveTopology = 0x3
	TopologyTriangles     PrimitiveTopology = 0x4
	TopologyTriangleStrip PrimitiveTopology = 0x5
	TopologyTriangleFan   PrimitiveTopology = 0x6
	TopologyQuads         PrimitiveTopology = 0x7
)

// MaxConstBuffers is the number of constant buffer bind points per stage.
const MaxConstBuffers = 18

// File is the flat register array. All engine-visible state that guest
// software controls directly lives here; interpretation of individual
// slots is done through the accessors below.
type File struct {
	Reg [NumRegs]uint32
}

// Read returns the value of register i. The caller must have validated i.
func (f *File) Read(i uint32) uint32 {
	return f.Reg[i]
}

// Write stores v into register i. The caller must have validated i.
func (f *File) Write(i uint32, v uint32) {
	f.Reg[i] = v
}

// packAddr combines a high/low register pair into a 64-bit address.
func (f *File) packAddr(hi, lo uint32) uint64 {
	return uint64(f.Reg[hi])<<32 | uint64(f.Reg[lo])
}

// CodeAddress returns the decoded shader code base address.
func (f *File) CodeAddress() uint64 {
	return f.packAddr(CodeAddressHigh, CodeAddressLow)
}

// TICAddress returns the base address of the texture descriptor table.
func (f *File) TICAddress() uint64 {
	return f.packAddr(TICAddressHigh, TICAddressLow)
}

// TSCAddress returns the base address of the sampler descriptor table.
func (f *File) TSCAddress() uint64 {
	return f.packAddr(TSCAddressHigh, TSCAddressLow)
}

// QueryAddress returns the target address of query completion writes.
func (f *File) QueryAddress() uint64 {
	return f.packAddr(QueryAddressHigh, QueryAddressLow)
}

// QueryGetMode extracts the mode field from the QueryGet register.
func (f *File) QueryGetMode() QueryMode {
	return QueryMode(f.Reg[QueryGet] & 0x3)
}

// ConstBufferAddress returns the address of the active constant buffer
// configuration.
func (f *File) ConstBufferAddress() uint64 {
	return f.packAddr(CBAddressHigh, CBAddressLow)
}

// SetConstBufferAddress splits addr into the active constant buffer
// address register pair.
func (f *File) SetConstBufferAddress(addr uint64) {
	f.Reg[CBAddressHigh] = uint32(addr >> 32)
	f.Reg[CBAddressLow] = uint32(addr)
}

// SSBOAddress returns the storage buffer address used by the
// BindStorageBuffer macro.
func (f *File) SSBOAddress() uint64 {
	return f.packAddr(SSBOAddressHigh, SSBOAddressLow)
}

// CBBindIndex returns the register index of a stage's bind configuration.
func CBBindIndex(stage ShaderStage) uint32 {
	return CBBindBase + uint32(stage)*CBBindStride
}

// CBBindValid reports whether the stage's bind configuration has its
// valid bit (bit 0) set.
func (f *File) CBBindValid(stage ShaderStage) bool {
	return f.Reg[CBBindIndex(stage)]&1 != 0
}

// CBBindSlot extracts the bind point index (bits 4-8) from the stage's
// bind configuration.
func (f *File) CBBindSlot(stage ShaderStage) uint32 {
	return (f.Reg[CBBindIndex(stage)] >> 4) & 0x1F
}

// SetCBBind packs valid and index into the stage's bind configuration.
func (f *File) SetCBBind(stage ShaderStage, valid bool, index uint32) {
	v := (index & 0x1F) << 4
	if valid {
		v |= 1
	}
	f.Reg[CBBindIndex(stage)] = v
}

// TexInfoBufferAddress returns the texture info buffer address for a
// stage. The register holds the address shifted right by 8.
func (f *File) TexInfoBufferAddress(stage ShaderStage) uint64 {
	return uint64(f.Reg[TexInfoBufferAddrBase+uint32(stage)]) << 8
}

// TexInfoBufferSize returns the texture info buffer size for a stage.
func (f *File) TexInfoBufferSize(stage ShaderStage) uint32 {
	return f.Reg[TexInfoBufferSizeBase+uint32(stage)]
}

// Topology returns the primitive topology of the current draw state.
func (f *File) Topology() PrimitiveTopology {
	return PrimitiveTopology(f.Reg[VertexBeginGL] & 0xFFFF)
}

// VertexCount returns the vertex count of the current draw state.
func (f *File) VertexCount() uint32 {
	return f.Reg[VertexBufferCount]
}

// ShaderStartID returns the code offset recorded in a program's shader
// configuration slot.
func (f *File) ShaderStartID(program ShaderProgram) uint32 {
	return f.Reg[ShaderConfigBase+uint32(program)*ShaderConfigStride+ShaderConfigStartID]
}

// SetShaderStartID stores the code offset into a program's shader
// configuration slot.
func (f *File) SetShaderStartID(program ShaderProgram, startID uint32) {
	f.Reg[ShaderConfigBase+uint32(program)*ShaderConfigStride+ShaderConfigStartID] = startID
}

// IsCBData reports whether register i is one of the sixteen constant
// buffer data aliases.
func IsCBData(i uint32) bool {
	return i >= CBDataBase && i < CBDataBase+CBDataCount
}

// CBBindStage maps a bind configuration register index to its stage.
// The second return is false when i is not a bind configuration register.
func CBBindStage(i uint32) (ShaderStage, bool) {
	if i < CBBindBase || i >= CBBindBase+NumShaderStages*CBBindStride {
		return 0, false
	}
	if (i-CBBindBase)%CBBindStride != 0 {
		return 0, false
	}
	return ShaderStage((i - CBBindBase) / CBBindStride), true
}
