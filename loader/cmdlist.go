// Package loader provides command-list file loading for the 3D engine
// CLI. A command list is a text file describing macro uploads, memory
// setup, and the register write stream to feed the engine.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Write is one register write of the command stream.
type Write struct {
	// Method is the register id to write.
	Method uint32
	// Value is the value to write.
	Value uint32
	// Remaining is the number of writes left in the batch after this
	// one; it controls macro call completion.
	Remaining uint32
}

// MacroUpload is one uploaded microcode blob.
type MacroUpload struct {
	// Entry is the macro entry index.
	Entry uint32
	// Code is the raw microcode words.
	Code []uint32
}

// Mapping is one GPU-to-CPU address mapping directive.
type Mapping struct {
	GPUAddr uint64
	CPUAddr uint64
	Size    uint64
}

// Poke is one guest memory seed directive.
type Poke struct {
	Addr  uint64
	Value uint32
}

// CommandList is a parsed command-list file.
type CommandList struct {
	Macros   []MacroUpload
	Mappings []Mapping
	Pokes    []Poke
	Writes   []Write
}

// Load parses a command-list file. The format is line oriented, `#`
// starts a comment, and numbers accept 0x prefixes:
//
//	macro <entry> <word> [word ...]
//	map <gpuAddr> <cpuAddr> <size>
//	poke32 <addr> <value>
//	write <method> <value> <remaining>
func Load(path string) (*CommandList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open command list: %w", err)
	}
	defer func() { _ = f.Close() }()

	list := &CommandList{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if err := list.parseDirective(fields); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read command list: %w", err)
	}

	return list, nil
}

// parseDirective dispatches one non-empty line of the file.
func (l *CommandList) parseDirective(fields []string) error {
	switch fields[0] {
	case "macro":
		if len(fields) < 3 {
			return fmt.Errorf("macro needs an entry and at least one code word")
		}
		entry, err := parseU32(fields[1])
		if err != nil {
			return err
		}
		code := make([]uint32, 0, len(fields)-2)
		for _, f := range fields[2:] {
			w, err := parseU32(f)
			if err != nil {
				return err
			}
			code = append(code, w)
		}
		l.Macros = append(l.Macros, MacroUpload{Entry: entry, Code: code})

	case "map":
		if len(fields) != 4 {
			return fmt.Errorf("map needs <gpuAddr> <cpuAddr> <size>")
		}
		gpu, err := parseU64(fields[1])
		if err != nil {
			return err
		}
		cpu, err := parseU64(fields[2])
		if err != nil {
			return err
		}
		size, err := parseU64(fields[3])
		if err != nil {
			return err
		}
		l.Mappings = append(l.Mappings, Mapping{GPUAddr: gpu, CPUAddr: cpu, Size: size})

	case "poke32":
		if len(fields) != 3 {
			return fmt.Errorf("poke32 needs <addr> <value>")
		}
		addr, err := parseU64(fields[1])
		if err != nil {
			return err
		}
		value, err := parseU32(fields[2])
		if err != nil {
			return err
		}
		l.Pokes = append(l.Pokes, Poke{Addr: addr, Value: value})

	case "write":
		if len(fields) != 4 {
			return fmt.Errorf("write needs <method> <value> <remaining>")
		}
		method, err := parseU32(fields[1])
		if err != nil {
			return err
		}
		value, err := parseU32(fields[2])
		if err != nil {
			return err
		}
		remaining, err := parseU32(fields[3])
		if err != nil {
			return err
		}
		l.Writes = append(l.Writes, Write{Method: method, Value: value, Remaining: remaining})

	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}

	return nil
}

func parseU64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return v, nil
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return uint32(v), nil
}
