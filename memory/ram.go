// Package memory provides the guest memory store and the GPU address
// translation collaborator used by the 3D engine.
package memory

import "encoding/binary"

// PageSize is the granularity of RAM allocation and MMU mappings.
const PageSize = 4096

// RAM is a sparse, page-backed guest memory store. Pages are allocated
// on first touch and read as zero before that. All accesses are
// little-endian and may straddle page boundaries.
type RAM struct {
	pages map[uint64]*[PageSize]byte
}

// NewRAM creates an empty guest memory store.
func NewRAM() *RAM {
	return &RAM{
		pages: make(map[uint64]*[PageSize]byte),
	}
}

// page returns the page containing addr, allocating it when alloc is set.
// The second return is the offset of addr within the page.
func (m *RAM) page(addr uint64, alloc bool) (*[PageSize]byte, uint64) {
	base := addr &^ (PageSize - 1)
	p, ok := m.pages[base]
	if !ok && alloc {
		p = &[PageSize]byte{}
		m.pages[base] = p
	}
	return p, addr - base
}

// Read8 reads one byte.
func (m *RAM) Read8(addr uint64) uint8 {
	p, off := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[off]
}

// Write8 writes one byte.
func (m *RAM) Write8(addr uint64, v uint8) {
	p, off := m.page(addr, true)
	p[off] = v
}

// Read16 reads a little-endian 16-bit value.
func (m *RAM) Read16(addr uint64) uint16 {
	var buf [2]byte
	m.ReadBlock(addr, buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

// Write16 writes a little-endian 16-bit value.
func (m *RAM) Write16(addr uint64, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	m.WriteBlock(addr, buf[:])
}

// Read32 reads a little-endian 32-bit value.
func (m *RAM) Read32(addr uint64) uint32 {
	var buf [4]byte
	m.ReadBlock(addr, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// Write32 writes a little-endian 32-bit value.
func (m *RAM) Write32(addr uint64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	m.WriteBlock(addr, buf[:])
}

// Read64 reads a little-endian 64-bit value.
func (m *RAM) Read64(addr uint64) uint64 {
	var buf [8]byte
	m.ReadBlock(addr, buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// Write64 writes a little-endian 64-bit value.
func (m *RAM) Write64(addr uint64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	m.WriteBlock(addr, buf[:])
}

// ReadBlock fills buf with guest memory starting at addr.
func (m *RAM) ReadBlock(addr uint64, buf []byte) {
	for len(buf) > 0 {
		p, off := m.page(addr, false)
		n := PageSize - int(off)
		if n > len(buf) {
			n = len(buf)
		}
		if p == nil {
			for i := 0; i < n; i++ {
				buf[i] = 0
			}
		} else {
			copy(buf[:n], p[off:int(off)+n])
		}
		buf = buf[n:]
		addr += uint64(n)
	}
}

// WriteBlock copies buf into guest memory starting at addr.
func (m *RAM) WriteBlock(addr uint64, buf []byte) {
	for len(buf) > 0 {
		p, off := m.page(addr, true)
		n := PageSize - int(off)
		if n > len(buf) {
			n = len(buf)
		}
		copy(p[off:int(off)+n], buf[:n])
		buf = buf[n:]
		addr += uint64(n)
	}
}
