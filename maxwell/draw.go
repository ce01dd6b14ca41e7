package maxwell

import (
	"fmt"

	"github.com/virtualme1/yuzu/debug"
	"github.com/virtualme1/yuzu/regs"
)

// drawArrays hands the current non-indexed batch to the rasterizer. The
// engine consumes no result; the rasterizer may keep working after the
// call returns.
func (e *Engine) drawArrays() {
	snap := debug.Snapshot{
		Topology:    uint32(e.regs.Topology()),
		VertexCount: e.regs.VertexCount(),
	}

	e.emitEvent(debug.IncomingPrimitiveBatch, snap)

	e.rasterizer.AccelerateDrawBatch(false)

	e.emitEvent(debug.FinishedPrimitiveBatch, snap)
}

// processQueryGet completes the query named by the query registers. The
// sequence address is a GPU address and is translated before the write.
func (e *Engine) processQueryGet() error {
	address := e.translator.PhysicalToVirtual(e.regs.QueryAddress())

	switch mode := e.regs.QueryGetMode(); mode {
	case regs.QueryModeWrite:
		e.memory.Write32(address, e.regs.Read(regs.QuerySequence))
		return nil
	default:
		// Other modes must not silently no-op; the guest would wait on
		// a completion that never lands.
		return fmt.Errorf("%w %d", ErrUnimplementedQueryMode, mode)
	}
}
