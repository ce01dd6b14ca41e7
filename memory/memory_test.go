package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/virtualme1/yuzu/memory"
)

var _ = Describe("RAM", func() {
	var ram *memory.RAM

	BeforeEach(func() {
		ram = memory.NewRAM()
	})

	It("should read untouched memory as zero", func() {
		Expect(ram.Read8(0x1000)).To(BeZero())
		Expect(ram.Read32(0xFFFF_0000)).To(BeZero())
	})

	It("should round-trip scalar widths", func() {
		ram.Write8(0x10, 0xAB)
		ram.Write16(0x20, 0xBEEF)
		ram.Write32(0x30, 0xDEADBEEF)
		ram.Write64(0x40, 0x0123456789ABCDEF)

		Expect(ram.Read8(0x10)).To(Equal(uint8(0xAB)))
		Expect(ram.Read16(0x20)).To(Equal(uint16(0xBEEF)))
		Expect(ram.Read32(0x30)).To(Equal(uint32(0xDEADBEEF)))
		Expect(ram.Read64(0x40)).To(Equal(uint64(0x0123456789ABCDEF)))
	})

	It("should store values little-endian", func() {
		ram.Write32(0x100, 0x04030201)

		Expect(ram.Read8(0x100)).To(Equal(uint8(0x01)))
		Expect(ram.Read8(0x103)).To(Equal(uint8(0x04)))
	})

	It("should handle accesses straddling a page boundary", func() {
		addr := uint64(memory.PageSize - 2)
		ram.Write32(addr, 0x11223344)

		Expect(ram.Read32(addr)).To(Equal(uint32(0x11223344)))
		Expect(ram.Read8(memory.PageSize)).To(Equal(uint8(0x22)))
	})

	It("should copy blocks across pages", func() {
		data := make([]byte, 3*memory.PageSize)
		for i := range data {
			data[i] = byte(i)
		}
		start := uint64(memory.PageSize / 2)

		ram.WriteBlock(start, data)

		got := make([]byte, len(data))
		ram.ReadBlock(start, got)
		Expect(got).To(Equal(data))
	})

	It("should zero-fill unallocated holes in block reads", func() {
		ram.Write8(0x2000, 0xFF)

		buf := make([]byte, 4)
		ram.ReadBlock(0x1FFE, buf)

		Expect(buf).To(Equal([]byte{0, 0, 0xFF, 0}))
	})
})

var _ = Describe("Manager", func() {
	var manager *memory.Manager

	BeforeEach(func() {
		manager = memory.NewManager()
	})

	It("should pass unmapped addresses through unchanged", func() {
		Expect(manager.PhysicalToVirtual(0x1234)).To(Equal(uint64(0x1234)))
	})

	It("should translate mapped pages", func() {
		manager.Map(0x10000, 0x400000, memory.PageSize)

		Expect(manager.PhysicalToVirtual(0x10000)).To(Equal(uint64(0x400000)))
		Expect(manager.PhysicalToVirtual(0x10ABC)).To(Equal(uint64(0x400ABC)))
	})

	It("should translate every page of a multi-page mapping", func() {
		manager.Map(0x20000, 0x500000, 3*memory.PageSize)

		Expect(manager.PhysicalToVirtual(0x20000)).To(Equal(uint64(0x500000)))
		Expect(manager.PhysicalToVirtual(0x20000 + 2*memory.PageSize + 8)).
			To(Equal(uint64(0x500000 + 2*memory.PageSize + 8)))
	})

	It("should fall back to identity past the end of a mapping", func() {
		manager.Map(0x30000, 0x600000, memory.PageSize)

		past := uint64(0x30000 + memory.PageSize)
		Expect(manager.PhysicalToVirtual(past)).To(Equal(past))
	})

	It("should keep distinct mappings independent", func() {
		manager.Map(0x40000, 0x700000, memory.PageSize)
		manager.Map(0x50000, 0x800000, memory.PageSize)

		Expect(manager.PhysicalToVirtual(0x40010)).To(Equal(uint64(0x700010)))
		Expect(manager.PhysicalToVirtual(0x50010)).To(Equal(uint64(0x800010)))
	})
})
