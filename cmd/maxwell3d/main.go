// Package main provides the command-line driver for the Maxwell 3D
// engine emulator. It loads a command-list file, wires up guest memory
// and the MMU, and feeds the register write stream to the engine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/virtualme1/yuzu/debug"
	"github.com/virtualme1/yuzu/loader"
	"github.com/virtualme1/yuzu/maxwell"
	"github.com/virtualme1/yuzu/memory"
	"github.com/virtualme1/yuzu/regs"
)

var verbose = flag.Bool("v", false, "Trace every command and batch event")

// printingRasterizer stands in for a rendering backend; it just reports
// the batches it is handed.
type printingRasterizer struct {
	batches int
}

func (r *printingRasterizer) AccelerateDrawBatch(isIndexed bool) {
	r.batches++
	fmt.Printf("draw batch %d (indexed=%v)\n", r.batches, isIndexed)
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: maxwell3d [options] <commands.txt>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	list, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading command list: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(list))
}

// run drives the engine with a parsed command list and returns the
// process exit code.
func run(list *loader.CommandList) int {
	ram := memory.NewRAM()
	manager := memory.NewManager()
	rasterizer := &printingRasterizer{}
	recorder := &debug.Recorder{}

	var opts []maxwell.Option
	if *verbose {
		opts = append(opts, maxwell.WithDebugContext(recorder))
	}
	engine := maxwell.New(manager, ram, rasterizer, opts...)

	for _, m := range list.Mappings {
		manager.Map(m.GPUAddr, m.CPUAddr, m.Size)
	}
	for _, p := range list.Pokes {
		ram.Write32(p.Addr, p.Value)
	}
	for _, m := range list.Macros {
		engine.UploadMacroCode(m.Entry, m.Code)
	}

	for i, w := range list.Writes {
		if err := engine.WriteRegister(w.Method, w.Value, w.Remaining); err != nil {
			fmt.Fprintf(os.Stderr, "Error at write %d (method 0x%X): %v\n", i, w.Method, err)
			return 1
		}
	}

	if *verbose {
		for _, rec := range recorder.Records {
			fmt.Printf("%-24s method=0x%03X value=0x%08X\n",
				rec.Event, rec.Snapshot.Method, rec.Snapshot.Value)
		}
	}

	printSummary(engine)
	return 0
}

// printSummary reports the interesting post-run engine state.
func printSummary(engine *maxwell.Engine) {
	fmt.Printf("Processed state:\n")
	for stage := regs.ShaderStage(0); stage < regs.NumShaderStages; stage++ {
		for slot := uint32(0); slot < regs.MaxConstBuffers; slot++ {
			cb := engine.ConstBuffer(stage, slot)
			if !cb.Enabled {
				continue
			}
			fmt.Printf("  %s c%d[]: address=0x%X size=0x%X\n",
				stage, cb.Index, cb.Address, cb.Size)
		}
	}
	for program := regs.ShaderProgram(0); program < regs.NumShaderPrograms; program++ {
		slot := engine.ShaderProgramSlot(program)
		if slot.Address == 0 {
			continue
		}
		fmt.Printf("  program %d: stage=%s address=0x%X\n",
			program, slot.Stage, slot.Address)
	}
}
