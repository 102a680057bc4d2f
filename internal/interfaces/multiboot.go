// File: internal/interfaces/multiboot.go
package interfaces

import "github.com/deploymenttheory/go-multiboot/internal/types"

// InfoReader exposes the decoded boot information structure. Every accessor
// for an optional field group first tests the corresponding flag bit and
// reports absence through its ok result; absence is a normal outcome, not an
// error, and is distinct from a failed physical read during construction.
type InfoReader interface {
	// Flags returns the raw validity bitmask.
	Flags() uint32

	// HasMemoryBounds checks flag bit 0.
	HasMemoryBounds() bool
	// LowerMemoryBound returns the amount of lower memory in kilobytes.
	// Lower memory starts at address 0 and tops out at 640 KiB.
	LowerMemoryBound() (uint32, bool)
	// UpperMemoryBound returns the amount of upper memory in kilobytes.
	// Upper memory starts at address 1 MiB.
	UpperMemoryBound() (uint32, bool)

	// BootDevice returns the BIOS device the image was loaded from.
	BootDevice() (types.BootDeviceT, bool)

	// CommandLine resolves the kernel command line.
	CommandLine() (string, bool)

	// BootLoaderName resolves the name of the bootloader.
	BootLoaderName() (string, bool)

	// Modules returns a fresh iterator over the boot modules. Each call
	// starts at the beginning; iterators share no cursor state.
	Modules() (ModuleIterator, bool)

	// Symbols returns the decoded symbol table descriptor. Both selector
	// bits set is malformed input and reports absent.
	Symbols() (types.SymbolTable, bool)

	// MemoryRegions returns a fresh iterator over the memory map. Each
	// call starts at the beginning; iterators share no cursor state.
	MemoryRegions() (MemoryMapIterator, bool)

	// ElfSections returns a fresh iterator over the ELF section header
	// table referenced by the symbols descriptor.
	ElfSections() (ElfSectionIterator, bool)

	// Drives returns the physical address and byte length of the drives
	// table.
	Drives() (types.PAddr, uint32, bool)

	// ConfigTable returns the address of the ROM configuration table.
	ConfigTable() (types.PAddr, bool)

	// APMTable returns the address of the APM table.
	APMTable() (types.PAddr, bool)

	// VBE returns the VESA BIOS Extensions fields.
	VBE() (types.VBEInfoT, bool)

	// Framebuffer returns the framebuffer fields.
	Framebuffer() (types.FramebufferT, bool)

	// HighestAddress returns the first 4 KiB-aligned physical address
	// past everything the boot information references, usable as a lower
	// bound for early allocators.
	HighestAddress() types.PAddr
}

// MemoryMapIterator walks the variable-stride memory map records. It
// terminates on declared-length exhaustion, on a zero or short record size,
// and on read failure; it never loops on malformed input.
type MemoryMapIterator interface {
	// Next returns the next region. ok is false when the sequence is
	// exhausted or iteration stopped early.
	Next() (types.MemoryRegion, bool)
}

// ModuleIterator walks the fixed-stride module table. A read failure
// terminates iteration early; entries already yielded remain valid.
type ModuleIterator interface {
	// Next returns the next module. ok is false when the sequence is
	// exhausted or iteration stopped early.
	Next() (types.Module, bool)
}

// ElfSectionIterator walks an ELF section header table, skipping unused
// entries.
type ElfSectionIterator interface {
	// Next returns the next section header. ok is false when the table
	// is exhausted or a read failed.
	Next() (types.ElfSectionT, bool)

	// SectionName resolves a section's name via the string table
	// section.
	SectionName(section types.ElfSectionT) (string, bool)
}

// HeaderReader exposes a Multiboot header located inside an OS image.
type HeaderReader interface {
	// HeaderStart returns the byte offset at which the header was found.
	HeaderStart() uint32

	// Flags returns the raw header flag word.
	Flags() uint32

	// WantsModulesPageAligned checks flag bit 0.
	WantsModulesPageAligned() bool

	// WantsMemoryInformation checks flag bit 1.
	WantsMemoryInformation() bool

	// WantsVideoMode checks flag bit 2.
	WantsVideoMode() bool

	// Addresses returns the load addresses; absent means the image must
	// be loaded as an ELF instead.
	Addresses() (types.HeaderAddressesT, bool)

	// VideoMode returns the preferred video mode.
	VideoMode() (types.VideoModeT, bool)
}
