package memory

import (
	"github.com/sarchlab/akita/v4/mem/vm"
)

// log2PageSize must match PageSize.
const log2PageSize = 12

// Manager is the GPU memory manager. It owns the mapping from GPU
// addresses to guest CPU addresses and performs the per-access
// translation the engine asks for. Mappings are page granular and kept
// in an Akita page table; nothing is cached on the engine side.
type Manager struct {
	pageTable vm.PageTable
}

// NewManager creates a memory manager with no mappings.
func NewManager() *Manager {
	return &Manager{
		pageTable: vm.NewPageTable(log2PageSize),
	}
}

// Map establishes a GPU-to-CPU mapping for size bytes starting at
// gpuAddr. All three arguments must be page aligned.
func (m *Manager) Map(gpuAddr, cpuAddr, size uint64) {
	for off := uint64(0); off < size; off += PageSize {
		m.pageTable.Insert(vm.Page{
			PID:      0,
			VAddr:    gpuAddr + off,
			PAddr:    cpuAddr + off,
			PageSize: PageSize,
			Valid:    true,
		})
	}
}

// PhysicalToVirtual translates a GPU address into a guest CPU address.
// Addresses outside any mapped range pass through untranslated, which
// lets small setups run against an identity-mapped address space.
func (m *Manager) PhysicalToVirtual(gpuAddr uint64) uint64 {
	page, found := m.pageTable.Find(0, gpuAddr)
	if !found || !page.Valid {
		return gpuAddr
	}
	return page.PAddr + (gpuAddr - page.VAddr)
}
