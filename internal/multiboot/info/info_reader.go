// Package info decodes the fixed boot information record and gates access
// to its optional field groups.
package info

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/cstring"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/elfsections"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/memorymap"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/modules"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/symbols"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// infoReader implements the InfoReader interface. The fixed record is read
// once at construction and immutable thereafter; iterators constructed from
// it pull further bytes through the capability on demand.
type infoReader struct {
	info *types.InfoT
	mem  interfaces.PhysicalMemory
}

// NewInfoReader decodes the boot information record at the given physical
// address. Construction is all-or-nothing: if the fixed region cannot be
// read, no reader is produced and the error wraps ErrUnmapped.
func NewInfoReader(mem interfaces.PhysicalMemory, addr types.PAddr) (interfaces.InfoReader, error) {
	if !addr.Validate() {
		return nil, fmt.Errorf("null boot information address: %w", interfaces.ErrUnmapped)
	}
	data, err := mem.Read(addr, types.InfoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot information at %#x: %w", addr, err)
	}

	info, err := parseInfo(data, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boot information: %w", err)
	}

	return &infoReader{
		info: info,
		mem:  mem,
	}, nil
}

// parseInfo parses raw bytes into an InfoT structure
func parseInfo(data []byte, endian binary.ByteOrder) (*types.InfoT, error) {
	if len(data) < types.InfoSize {
		return nil, fmt.Errorf("data too small for boot information: %d bytes", len(data))
	}

	info := &types.InfoT{}

	info.Flags = endian.Uint32(data[0:4])
	info.MemLower = endian.Uint32(data[4:8])
	info.MemUpper = endian.Uint32(data[8:12])

	info.BootDevice = types.BootDeviceT{
		Drive:      data[12],
		Partition1: data[13],
		Partition2: data[14],
		Partition3: data[15],
	}

	info.CmdLine = endian.Uint32(data[16:20])
	info.ModsCount = endian.Uint32(data[20:24])
	info.ModsAddr = endian.Uint32(data[24:28])

	copy(info.Syms[:], data[28:44])

	info.MmapLength = endian.Uint32(data[44:48])
	info.MmapAddr = endian.Uint32(data[48:52])
	info.DrivesLength = endian.Uint32(data[52:56])
	info.DrivesAddr = endian.Uint32(data[56:60])
	info.ConfigTable = endian.Uint32(data[60:64])
	info.BootLoaderName = endian.Uint32(data[64:68])
	info.APMTable = endian.Uint32(data[68:72])

	info.VBE = types.VBEInfoT{
		ControlInfo:  endian.Uint32(data[72:76]),
		ModeInfo:     endian.Uint32(data[76:80]),
		Mode:         endian.Uint16(data[80:82]),
		InterfaceSeg: endian.Uint16(data[82:84]),
		InterfaceOff: endian.Uint16(data[84:86]),
		InterfaceLen: endian.Uint16(data[86:88]),
	}

	info.Framebuffer = types.FramebufferT{
		Addr:   endian.Uint64(data[88:96]),
		Pitch:  endian.Uint32(data[96:100]),
		Width:  endian.Uint32(data[100:104]),
		Height: endian.Uint32(data[104:108]),
		BPP:    data[108],
		Type:   data[109],
	}
	copy(info.Framebuffer.ColorInfo[:], data[110:116])

	return info, nil
}

// Flags returns the raw validity bitmask.
func (ir *infoReader) Flags() uint32 {
	return ir.info.Flags
}

func (ir *infoReader) hasFlag(flag uint32) bool {
	return ir.info.Flags&flag != 0
}

// HasMemoryBounds checks whether the mem_lower and mem_upper fields are
// valid.
func (ir *infoReader) HasMemoryBounds() bool {
	return ir.hasFlag(types.InfoFlagMemory)
}

// LowerMemoryBound returns the amount of lower memory in kilobytes. Lower
// memory starts at address 0; the maximum possible value is 640.
func (ir *infoReader) LowerMemoryBound() (uint32, bool) {
	if !ir.HasMemoryBounds() {
		return 0, false
	}
	return ir.info.MemLower, true
}

// UpperMemoryBound returns the amount of upper memory in kilobytes. Upper
// memory starts at address 1 MiB; the value is at most the address of the
// first upper memory hole minus 1 MiB, but is not guaranteed to be it.
func (ir *infoReader) UpperMemoryBound() (uint32, bool) {
	if !ir.HasMemoryBounds() {
		return 0, false
	}
	return ir.info.MemUpper, true
}

// BootDevice returns the BIOS device the image was loaded from. Absent when
// the image was not loaded from a BIOS disk.
func (ir *infoReader) BootDevice() (types.BootDeviceT, bool) {
	if !ir.hasFlag(types.InfoFlagBootDevice) {
		return types.BootDeviceT{}, false
	}
	return ir.info.BootDevice, true
}

// CommandLine resolves the command line passed to the kernel.
func (ir *infoReader) CommandLine() (string, bool) {
	if !ir.hasFlag(types.InfoFlagCmdLine) {
		return "", false
	}
	return cstring.Resolve(ir.mem, types.PAddr(ir.info.CmdLine))
}

// BootLoaderName resolves the name of the bootloader.
func (ir *infoReader) BootLoaderName() (string, bool) {
	if !ir.hasFlag(types.InfoFlagBootLoaderName) {
		return "", false
	}
	return cstring.Resolve(ir.mem, types.PAddr(ir.info.BootLoaderName))
}

// Modules returns a fresh iterator over the boot modules.
func (ir *infoReader) Modules() (interfaces.ModuleIterator, bool) {
	if !ir.hasFlag(types.InfoFlagModules) {
		return nil, false
	}
	return modules.NewIterator(ir.mem, types.PAddr(ir.info.ModsAddr), ir.info.ModsCount), true
}

// Symbols returns the decoded symbol table descriptor.
func (ir *infoReader) Symbols() (types.SymbolTable, bool) {
	return symbols.Decode(ir.info.Syms, ir.info.Flags)
}

// MemoryRegions returns a fresh iterator over the memory map.
func (ir *infoReader) MemoryRegions() (interfaces.MemoryMapIterator, bool) {
	if !ir.hasFlag(types.InfoFlagMemoryMap) {
		return nil, false
	}
	return memorymap.NewIterator(ir.mem, types.PAddr(ir.info.MmapAddr), ir.info.MmapLength), true
}

// ElfSections returns a fresh iterator over the ELF section header table.
// Absent whenever the symbols descriptor is absent or not the ELF variant.
func (ir *infoReader) ElfSections() (interfaces.ElfSectionIterator, bool) {
	table, ok := ir.Symbols()
	if !ok || table.Kind != types.SymbolTableElf {
		return nil, false
	}
	return elfsections.NewIterator(ir.mem, table.Elf), true
}

// Drives returns the physical address and byte length of the drives table.
func (ir *infoReader) Drives() (types.PAddr, uint32, bool) {
	if !ir.hasFlag(types.InfoFlagDrives) {
		return 0, 0, false
	}
	return types.PAddr(ir.info.DrivesAddr), ir.info.DrivesLength, true
}

// ConfigTable returns the address of the ROM configuration table.
func (ir *infoReader) ConfigTable() (types.PAddr, bool) {
	if !ir.hasFlag(types.InfoFlagConfigTable) {
		return 0, false
	}
	return types.PAddr(ir.info.ConfigTable), true
}

// APMTable returns the address of the APM table.
func (ir *infoReader) APMTable() (types.PAddr, bool) {
	if !ir.hasFlag(types.InfoFlagAPMTable) {
		return 0, false
	}
	return types.PAddr(ir.info.APMTable), true
}

// VBE returns the VESA BIOS Extensions fields.
func (ir *infoReader) VBE() (types.VBEInfoT, bool) {
	if !ir.hasFlag(types.InfoFlagVBE) {
		return types.VBEInfoT{}, false
	}
	return ir.info.VBE, true
}

// Framebuffer returns the framebuffer fields.
func (ir *infoReader) Framebuffer() (types.FramebufferT, bool) {
	if !ir.hasFlag(types.InfoFlagFramebuffer) {
		return types.FramebufferT{}, false
	}
	return ir.info.Framebuffer, true
}
