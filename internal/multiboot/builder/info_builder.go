// Package builder assembles Multiboot boot information images, the
// bootloader-side counterpart of the readers. The fixed record, its strings
// and its tables are laid out in one contiguous allocation obtained through
// the PhysicalMemory capability.
package builder

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Module describes one blob to publish in the module table. The blob itself
// is already in memory at [Start, End); only the metadata is written. An
// empty Name publishes a null string pointer.
type Module struct {
	Start types.PAddr
	End   types.PAddr
	Name  string
}

// Builder accumulates field groups and marshals them with Build. The flag
// word is derived from which setters were called; callers cannot produce a
// record whose flags disagree with its content.
type Builder struct {
	flags uint32

	memLower uint32
	memUpper uint32

	bootDevice types.BootDeviceT

	cmdline        string
	bootLoaderName string

	modules []Module

	symbols types.SymbolTable

	regions []types.MemoryRegion

	vbe         types.VBEInfoT
	framebuffer types.FramebufferT
}

// NewBuilder returns a Builder with no field groups present.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetMemoryBounds publishes the lower and upper memory amounts in
// kilobytes. One call sets both; the format requires the pair.
func (b *Builder) SetMemoryBounds(lower, upper uint32) *Builder {
	b.memLower, b.memUpper = lower, upper
	b.flags |= types.InfoFlagMemory
	return b
}

// SetBootDevice publishes the BIOS boot device.
func (b *Builder) SetBootDevice(dev types.BootDeviceT) *Builder {
	b.bootDevice = dev
	b.flags |= types.InfoFlagBootDevice
	return b
}

// SetCommandLine publishes the kernel command line.
func (b *Builder) SetCommandLine(cmdline string) *Builder {
	b.cmdline = cmdline
	b.flags |= types.InfoFlagCmdLine
	return b
}

// SetBootLoaderName publishes the bootloader name.
func (b *Builder) SetBootLoaderName(name string) *Builder {
	b.bootLoaderName = name
	b.flags |= types.InfoFlagBootLoaderName
	return b
}

// AddModule appends one module table entry.
func (b *Builder) AddModule(mod Module) *Builder {
	b.modules = append(b.modules, mod)
	b.flags |= types.InfoFlagModules
	return b
}

// SetSymbols publishes a symbol table descriptor; the selector flag bit
// follows the descriptor's kind.
func (b *Builder) SetSymbols(table types.SymbolTable) *Builder {
	b.symbols = table
	b.flags &^= types.InfoFlagAOutSymbols | types.InfoFlagElfSymbols
	if table.Kind == types.SymbolTableAOut {
		b.flags |= types.InfoFlagAOutSymbols
	} else {
		b.flags |= types.InfoFlagElfSymbols
	}
	return b
}

// AddMemoryRegion appends one memory-map record.
func (b *Builder) AddMemoryRegion(base types.PAddr, length uint64, mtype types.MemoryType) *Builder {
	b.regions = append(b.regions, types.MemoryRegion{
		Size:     types.MemoryEntryBodyLen,
		BaseAddr: base,
		Length:   length,
		Type:     mtype,
		RawType:  uint32(mtype),
	})
	b.flags |= types.InfoFlagMemoryMap
	return b
}

// SetVBE publishes the VBE fields.
func (b *Builder) SetVBE(vbe types.VBEInfoT) *Builder {
	b.vbe = vbe
	b.flags |= types.InfoFlagVBE
	return b
}

// SetFramebuffer publishes the framebuffer fields.
func (b *Builder) SetFramebuffer(fb types.FramebufferT) *Builder {
	b.framebuffer = fb
	b.flags |= types.InfoFlagFramebuffer
	return b
}

// align4 rounds a layout offset up to the next 4-byte boundary.
func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// Build marshals the accumulated groups into one allocation and returns the
// physical address of the boot information record, ready to hand to a
// kernel in EBX.
func (b *Builder) Build(mem interfaces.PhysicalMemory) (types.PAddr, error) {
	for _, mod := range b.modules {
		if mod.End <= mod.Start {
			return 0, fmt.Errorf("module [%#x, %#x): end must be greater than start", mod.Start, mod.End)
		}
	}

	// Lay out relative offsets first so pointer fields can be encoded
	// once the base address is known.
	offset := uint32(types.InfoSize)

	cmdlineOff := offset
	if b.flags&types.InfoFlagCmdLine != 0 {
		offset += uint32(len(b.cmdline)) + 1
	}
	nameOff := offset
	if b.flags&types.InfoFlagBootLoaderName != 0 {
		offset += uint32(len(b.bootLoaderName)) + 1
	}

	modNameOffs := make([]uint32, len(b.modules))
	for i, mod := range b.modules {
		if mod.Name == "" {
			continue
		}
		modNameOffs[i] = offset
		offset += uint32(len(mod.Name)) + 1
	}

	modTableOff := align4(offset)
	offset = modTableOff + uint32(len(b.modules))*types.ModuleEntryLen

	mmapOff := align4(offset)
	offset = mmapOff + uint32(len(b.regions))*(types.MemoryEntrySizeFieldLen+types.MemoryEntryBodyLen)

	base, buf, err := mem.Allocate(offset)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %d bytes for boot information: %w", offset, err)
	}

	le := binary.LittleEndian

	le.PutUint32(buf[0:4], b.flags)
	le.PutUint32(buf[4:8], b.memLower)
	le.PutUint32(buf[8:12], b.memUpper)

	buf[12] = b.bootDevice.Drive
	buf[13] = b.bootDevice.Partition1
	buf[14] = b.bootDevice.Partition2
	buf[15] = b.bootDevice.Partition3

	if b.flags&types.InfoFlagCmdLine != 0 {
		copy(buf[cmdlineOff:], b.cmdline)
		le.PutUint32(buf[16:20], uint32(base)+cmdlineOff)
	}

	if b.flags&types.InfoFlagModules != 0 {
		le.PutUint32(buf[20:24], uint32(len(b.modules)))
		le.PutUint32(buf[24:28], uint32(base)+modTableOff)
		for i, mod := range b.modules {
			entry := buf[modTableOff+uint32(i)*types.ModuleEntryLen:]
			le.PutUint32(entry[0:4], uint32(mod.Start))
			le.PutUint32(entry[4:8], uint32(mod.End))
			if mod.Name != "" {
				copy(buf[modNameOffs[i]:], mod.Name)
				le.PutUint32(entry[8:12], uint32(base)+modNameOffs[i])
			}
			le.PutUint32(entry[12:16], 0)
		}
	}

	if b.flags&(types.InfoFlagAOutSymbols|types.InfoFlagElfSymbols) != 0 {
		syms := buf[28:44]
		if b.symbols.Kind == types.SymbolTableAOut {
			le.PutUint32(syms[0:4], b.symbols.AOut.TabSize)
			le.PutUint32(syms[4:8], b.symbols.AOut.StrSize)
			le.PutUint32(syms[8:12], b.symbols.AOut.Addr)
			le.PutUint32(syms[12:16], b.symbols.AOut.Reserved)
		} else {
			le.PutUint32(syms[0:4], b.symbols.Elf.Num)
			le.PutUint32(syms[4:8], b.symbols.Elf.Size)
			le.PutUint32(syms[8:12], b.symbols.Elf.Addr)
			le.PutUint32(syms[12:16], b.symbols.Elf.Shndx)
		}
	}

	if b.flags&types.InfoFlagMemoryMap != 0 {
		le.PutUint32(buf[44:48], uint32(len(b.regions))*(types.MemoryEntrySizeFieldLen+types.MemoryEntryBodyLen))
		le.PutUint32(buf[48:52], uint32(base)+mmapOff)
		for i, region := range b.regions {
			entry := buf[mmapOff+uint32(i)*(types.MemoryEntrySizeFieldLen+types.MemoryEntryBodyLen):]
			le.PutUint32(entry[0:4], region.Size)
			le.PutUint64(entry[4:12], uint64(region.BaseAddr))
			le.PutUint64(entry[12:20], region.Length)
			le.PutUint32(entry[20:24], region.RawType)
		}
	}

	if b.flags&types.InfoFlagBootLoaderName != 0 {
		copy(buf[nameOff:], b.bootLoaderName)
		le.PutUint32(buf[64:68], uint32(base)+nameOff)
	}

	if b.flags&types.InfoFlagVBE != 0 {
		le.PutUint32(buf[72:76], b.vbe.ControlInfo)
		le.PutUint32(buf[76:80], b.vbe.ModeInfo)
		le.PutUint16(buf[80:82], b.vbe.Mode)
		le.PutUint16(buf[82:84], b.vbe.InterfaceSeg)
		le.PutUint16(buf[84:86], b.vbe.InterfaceOff)
		le.PutUint16(buf[86:88], b.vbe.InterfaceLen)
	}

	if b.flags&types.InfoFlagFramebuffer != 0 {
		le.PutUint64(buf[88:96], b.framebuffer.Addr)
		le.PutUint32(buf[96:100], b.framebuffer.Pitch)
		le.PutUint32(buf[100:104], b.framebuffer.Width)
		le.PutUint32(buf[104:108], b.framebuffer.Height)
		buf[108] = b.framebuffer.BPP
		buf[109] = b.framebuffer.Type
		copy(buf[110:116], b.framebuffer.ColorInfo[:])
	}

	return base, nil
}
