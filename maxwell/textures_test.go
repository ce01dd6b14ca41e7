package maxwell_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/virtualme1/yuzu/maxwell"
	"github.com/virtualme1/yuzu/memory"
	"github.com/virtualme1/yuzu/regs"
	"github.com/virtualme1/yuzu/textures"
)

// ticEntry is a minimal builder for raw texture descriptor records.
type ticEntry struct {
	header   textures.HeaderVersion
	texType  textures.TextureType
	rgbaType [4]textures.ComponentType
	width    uint32
	height   uint32
}

// write stores the record at the given index of the TIC table.
func (t ticEntry) write(ram *memory.RAM, tableBase uint64, index uint32) {
	base := tableBase + uint64(index)*textures.DescriptorSize

	w0 := uint32(t.rgbaType[0])<<7 | uint32(t.rgbaType[1])<<10 |
		uint32(t.rgbaType[2])<<13 | uint32(t.rgbaType[3])<<16
	ram.Write32(base, w0)
	ram.Write32(base+8, uint32(t.header)<<21)
	ram.Write32(base+16, (t.width-1)&0xFFFF|uint32(t.texType)<<23)
	ram.Write32(base+20, (t.height-1)&0xFFFF)
}

// supportedTIC returns a descriptor the resolver accepts.
func supportedTIC() ticEntry {
	return ticEntry{
		header:  textures.HeaderBlockLinear,
		texType: textures.Texture2D,
		rgbaType: [4]textures.ComponentType{
			textures.ComponentUNorm, textures.ComponentUNorm,
			textures.ComponentUNorm, textures.ComponentUNorm,
		},
		width:  64,
		height: 32,
	}
}

var _ = Describe("Texture resolver", func() {
	const (
		texCBSlot  = 5
		bufferAddr = 0x20000
		ticBase    = 0x30000
		tscBase    = 0x38000
	)

	var (
		ram    *memory.RAM
		engine *maxwell.Engine
	)

	// bindTexInfoBuffer binds a texture info buffer of the given size to
	// the fragment stage's texture config slot.
	bindTexInfoBuffer := func(size uint32) {
		Expect(engine.WriteRegister(regs.CBAddressHigh, 0, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.CBAddressLow, bufferAddr, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.CBSize, size, 0)).To(Succeed())
		Expect(engine.WriteRegister(
			regs.CBBindIndex(regs.StageFragment), 1|(texCBSlot<<4), 0)).To(Succeed())
	}

	BeforeEach(func() {
		ram = memory.NewRAM()
		engine = maxwell.New(memory.NewManager(), ram, &fakeRasterizer{})

		Expect(engine.WriteRegister(regs.TexCBIndex, texCBSlot, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.TICAddressHigh, 0, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.TICAddressLow, ticBase, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.TSCAddressHigh, 0, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.TSCAddressLow, tscBase, 0)).To(Succeed())
	})

	It("should fail when the texture info slot is not bound", func() {
		_, err := engine.GetStageTextures(regs.StageFragment)

		Expect(err).To(MatchError(maxwell.ErrTextureBufferNotBound))
		Expect(err).To(MatchError(maxwell.ErrResourceBounds))
	})

	It("should fail when the slot is bound but disabled", func() {
		Expect(engine.WriteRegister(regs.CBAddressLow, bufferAddr, 0)).To(Succeed())
		Expect(engine.WriteRegister(regs.CBSize, 0x28, 0)).To(Succeed())
		Expect(engine.WriteRegister(
			regs.CBBindIndex(regs.StageFragment), texCBSlot<<4, 0)).To(Succeed())

		_, err := engine.GetStageTextures(regs.StageFragment)

		Expect(err).To(MatchError(maxwell.ErrTextureBufferNotBound))
	})

	It("should resolve enabled handles and omit empty ones", func() {
		// Two handles: one referencing TIC 1 / TSC 2, one empty.
		bindTexInfoBuffer(0x20 + 2*textures.HandleSize)
		ram.Write32(bufferAddr+0x20, 1|2<<20)
		ram.Write32(bufferAddr+0x24, 0)
		supportedTIC().write(ram, ticBase, 1)

		infos, err := engine.GetStageTextures(regs.StageFragment)

		Expect(err).NotTo(HaveOccurred())
		Expect(infos).To(HaveLen(1))
		Expect(infos[0].Index).To(Equal(uint32(0)))
		Expect(infos[0].Enabled).To(BeTrue())
		Expect(infos[0].TIC.Width()).To(Equal(uint32(64)))
		Expect(infos[0].TIC.Height()).To(Equal(uint32(32)))
	})

	It("should keep handle positions as indices", func() {
		bindTexInfoBuffer(0x20 + 3*textures.HandleSize)
		ram.Write32(bufferAddr+0x20, 0)
		ram.Write32(bufferAddr+0x24, 2)
		ram.Write32(bufferAddr+0x28, 3)
		supportedTIC().write(ram, ticBase, 2)
		supportedTIC().write(ram, ticBase, 3)

		infos, err := engine.GetStageTextures(regs.StageFragment)

		Expect(err).NotTo(HaveOccurred())
		Expect(infos).To(HaveLen(2))
		Expect(infos[0].Index).To(Equal(uint32(1)))
		Expect(infos[1].Index).To(Equal(uint32(2)))
	})

	It("should resolve sampler descriptors alongside textures", func() {
		bindTexInfoBuffer(0x20 + textures.HandleSize)
		ram.Write32(bufferAddr+0x20, 1|3<<20)
		supportedTIC().write(ram, ticBase, 1)
		// TSC 3: clamp-to-edge wrap, linear filters.
		tscAddr := uint64(tscBase) + 3*textures.DescriptorSize
		ram.Write32(tscAddr, uint32(textures.WrapClampToEdge)|
			uint32(textures.WrapClampToEdge)<<3)
		ram.Write32(tscAddr+4, uint32(textures.FilterLinear)|
			uint32(textures.FilterLinear)<<4)

		infos, err := engine.GetStageTextures(regs.StageFragment)

		Expect(err).NotTo(HaveOccurred())
		Expect(infos).To(HaveLen(1))
		Expect(infos[0].TSC.WrapU).To(Equal(textures.WrapClampToEdge))
		Expect(infos[0].TSC.WrapV).To(Equal(textures.WrapClampToEdge))
		Expect(infos[0].TSC.MagFilter).To(Equal(textures.FilterLinear))
		Expect(infos[0].TSC.MinFilter).To(Equal(textures.FilterLinear))
	})

	DescribeTable("unsupported descriptor layouts",
		func(mutate func(*ticEntry)) {
			bindTexInfoBuffer(0x20 + textures.HandleSize)
			ram.Write32(bufferAddr+0x20, 1)
			entry := supportedTIC()
			mutate(&entry)
			entry.write(ram, ticBase, 1)

			_, err := engine.GetStageTextures(regs.StageFragment)

			Expect(err).To(MatchError(maxwell.ErrUnsupportedTextureFormat))
			Expect(err).To(MatchError(maxwell.ErrUnimplemented))
		},
		Entry("pitch layout", func(e *ticEntry) {
			e.header = textures.HeaderPitch
		}),
		Entry("3D texture", func(e *ticEntry) {
			e.texType = textures.Texture3D
		}),
		Entry("mixed component types", func(e *ticEntry) {
			e.rgbaType[3] = textures.ComponentFloat
		}),
	)

	It("should recompute results on every call", func() {
		bindTexInfoBuffer(0x20 + textures.HandleSize)
		ram.Write32(bufferAddr+0x20, 1)
		supportedTIC().write(ram, ticBase, 1)

		first, err := engine.GetStageTextures(regs.StageFragment)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(HaveLen(1))

		// Guest clears the handle; the next resolution sees it.
		ram.Write32(bufferAddr+0x20, 0)
		second, err := engine.GetStageTextures(regs.StageFragment)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(BeEmpty())
	})

	It("should yield nothing when the sequence is ranged twice", func() {
		bindTexInfoBuffer(0x20 + textures.HandleSize)
		ram.Write32(bufferAddr+0x20, 1)
		supportedTIC().write(ram, ticBase, 1)

		seq := engine.StageTextures(regs.StageFragment)

		count := 0
		for _, err := range seq {
			Expect(err).NotTo(HaveOccurred())
			count++
		}
		Expect(count).To(Equal(1))

		for range seq {
			count++
		}
		Expect(count).To(Equal(1))
	})
})
