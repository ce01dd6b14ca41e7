package maxwell

import (
	"fmt"
	"iter"

	"github.com/virtualme1/yuzu/regs"
	"github.com/virtualme1/yuzu/textures"
)

// textureInfoOffset is where the handle entries begin inside a texture
// info buffer; the space before it is header data.
const textureInfoOffset = 0x20

// StageTextures resolves the textures currently reachable from a stage's
// texture info buffer, in ascending handle order, omitting handles that
// reference no texture. Descriptors are read fresh from guest memory on
// every call; nothing is cached.
//
// The returned sequence is single-use: it is consumed as it is ranged
// over and yields nothing on a second range. Resolution stops at the
// first error, which is delivered in the error position of the yield.
func (e *Engine) StageTextures(stage regs.ShaderStage) iter.Seq2[textures.FullInfo, error] {
	used := false

	return func(yield func(textures.FullInfo, error) bool) {
		if used {
			return
		}
		used = true

		index := e.regs.Read(regs.TexCBIndex)
		if index >= regs.MaxConstBuffers {
			yield(textures.FullInfo{}, fmt.Errorf("%w: texture config buffer index %d",
				ErrContractViolation, index))
			return
		}

		buffer := e.state.shaderStages[stage].ConstBuffers[index]
		if !buffer.Enabled || buffer.Address == 0 {
			yield(textures.FullInfo{}, fmt.Errorf("%w: stage %s", ErrTextureBufferNotBound, stage))
			return
		}

		end := buffer.Address + uint64(buffer.Size)

		for current := buffer.Address + textureInfoOffset; current < end; current += textures.HandleSize {
			handle := textures.Handle(e.memory.Read32(e.translator.PhysicalToVirtual(current)))

			info := textures.FullInfo{
				Index: uint32((current - buffer.Address - textureInfoOffset) / textures.HandleSize),
			}

			if id := handle.TICID(); id != 0 {
				info.Enabled = true

				tic, err := e.getTICEntry(id)
				if err != nil {
					yield(info, err)
					return
				}
				info.TIC = tic
			}

			if id := handle.TSCID(); id != 0 {
				info.TSC = e.getTSCEntry(id)
			}

			if !info.Enabled {
				continue
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// GetStageTextures collects StageTextures into a slice.
func (e *Engine) GetStageTextures(stage regs.ShaderStage) ([]textures.FullInfo, error) {
	var result []textures.FullInfo
	for info, err := range e.StageTextures(stage) {
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

// getTICEntry reads and validates the texture descriptor at the given
// index of the TIC table.
func (e *Engine) getTICEntry(index uint32) (textures.TICEntry, error) {
	address := e.regs.TICAddress() + uint64(index)*textures.DescriptorSize

	var raw [textures.DescriptorSize]byte
	e.memory.ReadBlock(e.translator.PhysicalToVirtual(address), raw[:])

	entry := textures.DecodeTIC(raw[:])

	// Only the layout combination games have been observed to use is
	// modeled; anything else fails rather than being coerced.
	if entry.HeaderVersion != textures.HeaderBlockLinear {
		return entry, fmt.Errorf("%w: header version %d", ErrUnsupportedTextureFormat, entry.HeaderVersion)
	}
	if entry.TextureType != textures.Texture2D {
		return entry, fmt.Errorf("%w: texture type %d", ErrUnsupportedTextureFormat, entry.TextureType)
	}
	if !entry.UniformComponentType() {
		return entry, fmt.Errorf("%w: mixed component types %d/%d/%d/%d",
			ErrUnsupportedTextureFormat, entry.RType, entry.GType, entry.BType, entry.AType)
	}

	return entry, nil
}

// getTSCEntry reads the sampler descriptor at the given index of the TSC
// table.
func (e *Engine) getTSCEntry(index uint32) textures.TSCEntry {
	address := e.regs.TSCAddress() + uint64(index)*textures.DescriptorSize

	var raw [textures.DescriptorSize]byte
	e.memory.ReadBlock(e.translator.PhysicalToVirtual(address), raw[:])

	return textures.DecodeTSC(raw[:])
}
