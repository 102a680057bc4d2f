package types

// ELF Section Headers
// Layouts for the section header table referenced by the ELF symbols
// descriptor. Both the 32-bit (40-byte) and 64-bit (64-byte) entry formats
// occur in practice; the entry size from the descriptor selects between
// them.

const (
	// ElfSection32Len is the size of a 32-bit section header entry.
	ElfSection32Len = 40
	// ElfSection64Len is the size of a 64-bit section header entry.
	ElfSection64Len = 64
)

// ElfSectionType classifies a section header.
type ElfSectionType uint32

const (
	// ElfSectionUnused marks an inactive header with no associated
	// section.
	ElfSectionUnused ElfSectionType = 0
	// ElfSectionProgram holds information defined by the program.
	ElfSectionProgram ElfSectionType = 1
	// ElfSectionSymbolTable holds a linker symbol table.
	ElfSectionSymbolTable ElfSectionType = 2
	// ElfSectionStringTable holds a string table.
	ElfSectionStringTable ElfSectionType = 3
	// ElfSectionRelaRelocation holds relocation entries with explicit
	// addends.
	ElfSectionRelaRelocation ElfSectionType = 4
	// ElfSectionSymbolHashTable holds a symbol hash table.
	ElfSectionSymbolHashTable ElfSectionType = 5
	// ElfSectionDynamicLinking holds dynamic linking tables.
	ElfSectionDynamicLinking ElfSectionType = 6
	// ElfSectionNote marks the file in some way.
	ElfSectionNote ElfSectionType = 7
	// ElfSectionUninitialized occupies no file space but otherwise
	// resembles a program section.
	ElfSectionUninitialized ElfSectionType = 8
	// ElfSectionRelRelocation holds relocation entries without explicit
	// addends.
	ElfSectionRelRelocation ElfSectionType = 9
	// ElfSectionReserved is reserved with unspecified semantics.
	ElfSectionReserved ElfSectionType = 10
	// ElfSectionDynamicSymbolTable holds a dynamic loader symbol table.
	ElfSectionDynamicSymbolTable ElfSectionType = 11
)

// ELF section flag bits.
const (
	// ElfSectionFlagWritable marks data writable during execution.
	ElfSectionFlagWritable uint64 = 0x1
	// ElfSectionFlagAllocated marks sections that occupy memory during
	// execution.
	ElfSectionFlagAllocated uint64 = 0x2
	// ElfSectionFlagExecutable marks executable machine instructions.
	ElfSectionFlagExecutable uint64 = 0x4
)

// ElfSectionT is one decoded section header entry, widened to the 64-bit
// field sizes.
type ElfSectionT struct {
	// NameIndex is the offset of the section name in the string table
	// section.
	NameIndex uint32
	// Type classifies the section.
	Type ElfSectionType
	// Flags holds the section flag bits.
	Flags uint64
	// Addr is the address of the section in memory.
	Addr PAddr
	// Offset is the section's offset in the file.
	Offset uint64
	// Size is the section size in bytes.
	Size uint64
	// Link and Info are type-dependent references to other sections.
	Link uint32
	Info uint32
	// AddrAlign is the section's address alignment constraint; 0 and 1
	// mean none.
	AddrAlign uint64
	// EntrySize is the size of each fixed-size entry the section holds,
	// or zero.
	EntrySize uint64
}

// EndAddr returns the first address past the section in memory.
func (s ElfSectionT) EndAddr() PAddr {
	return s.Addr + PAddr(s.Size)
}

// IsAllocated checks whether the section occupies memory during execution.
func (s ElfSectionT) IsAllocated() bool {
	return s.Flags&ElfSectionFlagAllocated != 0
}

// IsWritable checks whether the section is writable during execution.
func (s ElfSectionT) IsWritable() bool {
	return s.Flags&ElfSectionFlagWritable != 0
}

// IsExecutable checks whether the section holds machine instructions.
func (s ElfSectionT) IsExecutable() bool {
	return s.Flags&ElfSectionFlagExecutable != 0
}
