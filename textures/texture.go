// Package textures provides texture (TIC) and sampler (TSC) descriptor
// decoding.
//
// Descriptors are fixed-layout 32-byte records that live in guest memory
// tables pointed to by engine registers. They are decoded verbatim from
// raw bytes into structured form; nothing in this package caches or owns
// guest memory.
package textures

import (
	"encoding/binary"
	"math"
)

// DescriptorSize is the size in bytes of a TIC or TSC table entry.
const DescriptorSize = 32

// HandleSize is the size in bytes of a packed texture handle word.
const HandleSize = 4

// Handle is a packed texture handle as stored in a texture info buffer.
// It combines an index into the TIC table with an index into the TSC
// table. An id of zero means the corresponding descriptor is unused.
type Handle uint32

// TICID returns the texture descriptor index (bits 0-19).
func (h Handle) TICID() uint32 {
	return uint32(h) & 0xFFFFF
}

// TSCID returns the sampler descriptor index (bits 20-31).
func (h Handle) TSCID() uint32 {
	return uint32(h) >> 20
}

// TextureFormat is the texel format field of a TIC entry.
type TextureFormat uint32

// ComponentType describes the data type of one color component.
type ComponentType uint32

// Component types.
const (
	ComponentInvalid ComponentType = iota
	ComponentSNorm
	ComponentUNorm
	ComponentSInt
	ComponentUInt
	ComponentSNormForceFP16
	ComponentUNormForceFP16
	ComponentFloat
)

// HeaderVersion is the memory layout variant of a TIC entry.
type HeaderVersion uint32

// Header versions.
const (
	HeaderOneDBuffer HeaderVersion = iota
	HeaderPitchColorKey
	HeaderPitch
	HeaderBlockLinear
	HeaderBlockLinearColorKey
)

// TextureType is the dimensionality field of a TIC entry.
type TextureType uint32

// Texture types.
const (
	Texture1D TextureType = iota
	Texture2D
	Texture3D
	TextureCubemap
	Texture1DArray
	Texture2DArray
	Texture1DBuffer
	Texture2DNoMipmap
	TextureCubeArray
)

// TICEntry is a decoded texture descriptor.
type TICEntry struct {
	Format        TextureFormat
	RType         ComponentType
	GType         ComponentType
	BType         ComponentType
	AType         ComponentType
	Address       uint64
	HeaderVersion HeaderVersion
	WidthMinus1   uint32
	HeightMinus1  uint32
	TextureType   TextureType
}

// Width returns the texture width in texels.
func (t TICEntry) Width() uint32 { return t.WidthMinus1 + 1 }

// Height returns the texture height in texels.
func (t TICEntry) Height() uint32 { return t.HeightMinus1 + 1 }

// UniformComponentType reports whether all four color components share
// one data type.
func (t TICEntry) UniformComponentType() bool {
	return t.RType == t.GType && t.RType == t.BType && t.RType == t.AType
}

// WrapMode is a TSC texture coordinate wrap mode.
type WrapMode uint32

// Wrap modes.
const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
	WrapClampToBorder
	WrapClamp
	WrapMirrorClampToEdge
	WrapMirrorClampToBorder
	WrapMirrorClamp
)

// TextureFilter is a TSC magnification/minification filter.
type TextureFilter uint32

// Texture filters.
const (
	FilterNearest TextureFilter = 1
	FilterLinear  TextureFilter = 2
)

// TSCEntry is a decoded sampler descriptor.
type TSCEntry struct {
	WrapU            WrapMode
	WrapV            WrapMode
	WrapP            WrapMode
	DepthCompare     bool
	DepthCompareFunc uint32
	MagFilter        TextureFilter
	MinFilter        TextureFilter
	MipFilter        TextureFilter
	BorderColor      [4]float32
}

// FullInfo is one resolved entry of a stage's texture info buffer.
type FullInfo struct {
	// Index is the zero-based position of the handle in the buffer.
	Index uint32

	// Enabled is set when the handle referenced a texture descriptor.
	Enabled bool

	TIC TICEntry
	TSC TSCEntry
}

// DecodeTIC decodes a raw 32-byte texture descriptor record.
func DecodeTIC(raw []byte) TICEntry {
	w := words(raw)

	return TICEntry{
		Format:        TextureFormat(w[0] & 0x7F),
		RType:         ComponentType((w[0] >> 7) & 0x7),
		GType:         ComponentType((w[0] >> 10) & 0x7),
		BType:         ComponentType((w[0] >> 13) & 0x7),
		AType:         ComponentType((w[0] >> 16) & 0x7),
		Address:       uint64(w[2]&0xFFFF)<<32 | uint64(w[1]),
		HeaderVersion: HeaderVersion((w[2] >> 21) & 0x7),
		WidthMinus1:   w[4] & 0xFFFF,
		TextureType:   TextureType((w[4] >> 23) & 0xF),
		HeightMinus1:  w[5] & 0xFFFF,
	}
}

// DecodeTSC decodes a raw 32-byte sampler descriptor record.
func DecodeTSC(raw []byte) TSCEntry {
	w := words(raw)

	e := TSCEntry{
		WrapU:            WrapMode(w[0] & 0x7),
		WrapV:            WrapMode((w[0] >> 3) & 0x7),
		WrapP:            WrapMode((w[0] >> 6) & 0x7),
		DepthCompare:     (w[0]>>9)&1 != 0,
		DepthCompareFunc: (w[0] >> 10) & 0x7,
		MagFilter:        TextureFilter(w[1] & 0x3),
		MinFilter:        TextureFilter((w[1] >> 4) & 0x3),
		MipFilter:        TextureFilter((w[1] >> 6) & 0x3),
	}
	for i := range e.BorderColor {
		e.BorderColor[i] = math.Float32frombits(w[4+i])
	}
	return e
}

// words reinterprets a descriptor record as little-endian 32-bit words.
func words(raw []byte) [DescriptorSize / 4]uint32 {
	var w [DescriptorSize / 4]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return w
}
