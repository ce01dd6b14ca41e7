package maxwell

import (
	"fmt"

	"github.com/virtualme1/yuzu/regs"
)

// processCBBind binds the buffer currently staged in the active constant
// buffer configuration to the slot named by the stage's bind
// configuration, replacing whatever was bound there.
func (e *Engine) processCBBind(stage regs.ShaderStage) error {
	// The index field is five bits wide but the hardware only has
	// MaxConstBuffers bind points per stage.
	index := e.regs.CBBindSlot(stage)
	if index >= regs.MaxConstBuffers {
		return fmt.Errorf("%w: constant buffer bind index %d", ErrContractViolation, index)
	}

	e.state.shaderStages[stage].ConstBuffers[index] = ConstBufferBinding{
		Enabled: e.regs.CBBindValid(stage),
		Index:   index,
		Address: e.regs.ConstBufferAddress(),
		Size:    e.regs.Read(regs.CBSize),
	}
	return nil
}

// processCBData streams one 32-bit word into the active constant buffer
// at the current write cursor and advances the cursor.
func (e *Engine) processCBData(value uint32) error {
	address := e.regs.ConstBufferAddress()
	if address == 0 {
		return ErrConstBufferNotBound
	}

	// The cursor is guest-writable, so the bound check must not wrap
	// in 32 bits.
	pos := e.regs.Read(regs.CBPos)
	size := e.regs.Read(regs.CBSize)
	if uint64(pos)+4 > uint64(size) {
		return fmt.Errorf("%w: pos 0x%X size 0x%X", ErrConstBufferOverflow, pos, size)
	}

	e.memory.Write32(e.translator.PhysicalToVirtual(address+uint64(pos)), value)

	e.regs.Write(regs.CBPos, pos+4)
	return nil
}
