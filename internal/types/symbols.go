package types

// Symbol Tables
// The 16-byte 'syms' region at offset 28 of the boot information structure.
// Its interpretation is selected by flag bit 4 (a.out) or flag bit 5 (ELF);
// the two are mutually exclusive.
// Reference: section 3.3, 'syms' field

// AOutSymbolsT describes where a.out format symbol information resides.
//
//	        +-------------------+
//	28      | tabsize           |
//	32      | strsize           |
//	36      | addr              |
//	40      | reserved (0)      |
//	        +-------------------+
type AOutSymbolsT struct {
	// TabSize equals the size parameter at the start of the symbol
	// section.
	TabSize uint32
	// StrSize equals the size parameter at the start of the string
	// section that follows the symbol table.
	StrSize uint32
	// Addr is the physical address of the a.out nlist array.
	Addr uint32
	// Reserved must be zero.
	Reserved uint32
}

// ElfSymbolsT describes where the ELF section header table resides.
//
//	        +-------------------+
//	28      | num               |
//	32      | size              |
//	36      | addr              |
//	40      | shndx             |
//	        +-------------------+
type ElfSymbolsT struct {
	// Num is the number of section header entries.
	Num uint32
	// Size is the size of each entry.
	Size uint32
	// Addr is the physical address of the section header table.
	Addr uint32
	// Shndx is the index of the entry naming the string table used as
	// the index of strings.
	Shndx uint32
}

// SymbolTableKind discriminates the decoded symbol union.
type SymbolTableKind int

const (
	SymbolTableAOut SymbolTableKind = iota
	SymbolTableElf
)

// SymbolTable is the tagged choice decoded from the syms region. Exactly one
// of AOut or Elf is meaningful, selected by Kind.
type SymbolTable struct {
	Kind SymbolTableKind
	AOut AOutSymbolsT
	Elf  ElfSymbolsT
}
