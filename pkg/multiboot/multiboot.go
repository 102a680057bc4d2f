// Package multiboot is the public surface of go-multiboot: a read-only view
// over the Multiboot v1 boot information structure, decoded through a
// caller-supplied physical memory capability, plus the writer-side builder
// and the OS image header scanner.
package multiboot

import (
	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/builder"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/header"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/info"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Core types re-exported for callers.
type (
	// PAddr is a raw physical memory address.
	PAddr = types.PAddr
	// PhysicalMemory mediates all access to physical memory.
	PhysicalMemory = interfaces.PhysicalMemory
	// MemoryRegion is one decoded memory-map record.
	MemoryRegion = types.MemoryRegion
	// MemoryType classifies a memory-map region.
	MemoryType = types.MemoryType
	// Module is one decoded boot module entry.
	Module = types.Module
	// BootDevice is the decoded BIOS boot device field.
	BootDevice = types.BootDeviceT
	// SymbolTable is the tagged symbol descriptor choice.
	SymbolTable = types.SymbolTable
	// ElfSection is one decoded ELF section header.
	ElfSection = types.ElfSectionT
	// VBEInfo holds the VESA BIOS Extensions fields.
	VBEInfo = types.VBEInfoT
	// Framebuffer holds the framebuffer fields.
	Framebuffer = types.FramebufferT

	// MemoryMapIterator walks memory-map records.
	MemoryMapIterator = interfaces.MemoryMapIterator
	// ModuleIterator walks module table records.
	ModuleIterator = interfaces.ModuleIterator
	// ElfSectionIterator walks ELF section headers.
	ElfSectionIterator = interfaces.ElfSectionIterator
	// HeaderReader exposes a Multiboot header found in an OS image.
	HeaderReader = interfaces.HeaderReader

	// Builder assembles boot information images.
	Builder = builder.Builder
	// BuilderModule describes one module entry for the Builder.
	BuilderModule = builder.Module
)

// Memory region classifications.
const (
	MemoryAvailable = types.MemoryAvailable
	MemoryReserved  = types.MemoryReserved
	MemoryACPI      = types.MemoryACPI
	MemoryNVS       = types.MemoryNVS
	MemoryBadRAM    = types.MemoryBadRAM
	MemoryOther     = types.MemoryOther
)

// Symbol table kinds.
const (
	SymbolTableAOut = types.SymbolTableAOut
	SymbolTableElf  = types.SymbolTableElf
)

// BootloaderMagic is the value a compliant bootloader leaves in EAX.
const BootloaderMagic = types.BootloaderMagic

// Sentinel errors.
var (
	// ErrUnmapped reports an unreadable physical address range.
	ErrUnmapped = interfaces.ErrUnmapped
	// ErrAllocationFailed reports a failed capability allocation.
	ErrAllocationFailed = interfaces.ErrAllocationFailed
	// ErrHeaderNotFound reports an image without a Multiboot header.
	ErrHeaderNotFound = header.ErrHeaderNotFound
)

// Multiboot is the facade kernels interact with. It is immutable once
// constructed and borrows the capability for its whole lifetime: the caller
// must not reclaim the underlying boot memory while the facade or any
// iterator derived from it is still in use.
type Multiboot struct {
	reader interfaces.InfoReader
}

// FromAddr decodes the boot information structure at the physical address
// handed over in EBX. Construction fails with an error wrapping ErrUnmapped
// when the fixed record cannot be read; no partial facade is produced.
func FromAddr(mem PhysicalMemory, addr PAddr) (*Multiboot, error) {
	reader, err := info.NewInfoReader(mem, addr)
	if err != nil {
		return nil, err
	}
	return &Multiboot{reader: reader}, nil
}

// Flags returns the raw validity bitmask.
func (m *Multiboot) Flags() uint32 {
	return m.reader.Flags()
}

// LowerMemoryBound returns the amount of lower memory in kilobytes.
func (m *Multiboot) LowerMemoryBound() (uint32, bool) {
	return m.reader.LowerMemoryBound()
}

// UpperMemoryBound returns the amount of upper memory in kilobytes.
func (m *Multiboot) UpperMemoryBound() (uint32, bool) {
	return m.reader.UpperMemoryBound()
}

// BootDevice returns the BIOS device the image was loaded from.
func (m *Multiboot) BootDevice() (BootDevice, bool) {
	return m.reader.BootDevice()
}

// CommandLine resolves the command line passed to the kernel.
func (m *Multiboot) CommandLine() (string, bool) {
	return m.reader.CommandLine()
}

// BootLoaderName resolves the name of the bootloader.
func (m *Multiboot) BootLoaderName() (string, bool) {
	return m.reader.BootLoaderName()
}

// Modules returns a fresh iterator over the boot modules.
func (m *Multiboot) Modules() (ModuleIterator, bool) {
	return m.reader.Modules()
}

// Symbols returns the decoded symbol table descriptor.
func (m *Multiboot) Symbols() (SymbolTable, bool) {
	return m.reader.Symbols()
}

// MemoryRegions returns a fresh iterator over the memory map.
func (m *Multiboot) MemoryRegions() (MemoryMapIterator, bool) {
	return m.reader.MemoryRegions()
}

// ElfSections returns a fresh iterator over the ELF section header table.
func (m *Multiboot) ElfSections() (ElfSectionIterator, bool) {
	return m.reader.ElfSections()
}

// Drives returns the address and byte length of the drives table.
func (m *Multiboot) Drives() (PAddr, uint32, bool) {
	return m.reader.Drives()
}

// ConfigTable returns the address of the ROM configuration table.
func (m *Multiboot) ConfigTable() (PAddr, bool) {
	return m.reader.ConfigTable()
}

// APMTable returns the address of the APM table.
func (m *Multiboot) APMTable() (PAddr, bool) {
	return m.reader.APMTable()
}

// VBE returns the VESA BIOS Extensions fields.
func (m *Multiboot) VBE() (VBEInfo, bool) {
	return m.reader.VBE()
}

// Framebuffer returns the framebuffer fields.
func (m *Multiboot) Framebuffer() (Framebuffer, bool) {
	return m.reader.Framebuffer()
}

// HighestAddress returns the first page-aligned address past everything the
// boot information references.
func (m *Multiboot) HighestAddress() PAddr {
	return m.reader.HighestAddress()
}

// ScanImageHeader searches an OS image for its Multiboot header.
func ScanImageHeader(image []byte) (HeaderReader, error) {
	return header.NewHeaderReader(image)
}

// NewBuilder returns a writer-side builder for boot information images.
func NewBuilder() *Builder {
	return builder.NewBuilder()
}
