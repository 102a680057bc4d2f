// Package symbols decodes the 16-byte symbol union region of the boot
// information structure.
package symbols

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Decode interprets the raw syms region according to the selecting flag
// bits. It reports absent when neither selector is set, and also when both
// are set: the union has no defined interpretation then and guessing one
// would present garbage as symbol metadata.
func Decode(raw [16]byte, flags uint32) (types.SymbolTable, bool) {
	hasAOut := flags&types.InfoFlagAOutSymbols != 0
	hasElf := flags&types.InfoFlagElfSymbols != 0

	switch {
	case hasAOut && hasElf:
		return types.SymbolTable{}, false
	case hasAOut:
		return types.SymbolTable{
			Kind: types.SymbolTableAOut,
			AOut: types.AOutSymbolsT{
				TabSize:  binary.LittleEndian.Uint32(raw[0:4]),
				StrSize:  binary.LittleEndian.Uint32(raw[4:8]),
				Addr:     binary.LittleEndian.Uint32(raw[8:12]),
				Reserved: binary.LittleEndian.Uint32(raw[12:16]),
			},
		}, true
	case hasElf:
		return types.SymbolTable{
			Kind: types.SymbolTableElf,
			Elf: types.ElfSymbolsT{
				Num:   binary.LittleEndian.Uint32(raw[0:4]),
				Size:  binary.LittleEndian.Uint32(raw[4:8]),
				Addr:  binary.LittleEndian.Uint32(raw[8:12]),
				Shndx: binary.LittleEndian.Uint32(raw[12:16]),
			},
		}, true
	default:
		return types.SymbolTable{}, false
	}
}

// HighestAddress returns the first physical address past the symbol data, 0
// when the descriptor references nothing.
func HighestAddress(table types.SymbolTable) types.PAddr {
	switch table.Kind {
	case types.SymbolTableElf:
		e := table.Elf
		return types.PAddr(e.Addr) + types.PAddr(e.Num)*types.PAddr(e.Size)
	case types.SymbolTableAOut:
		a := table.AOut
		// The tabsize and strsize words precede the tables themselves.
		return types.PAddr(a.Addr) + types.PAddr(a.TabSize) + types.PAddr(a.StrSize) + 8
	default:
		return 0
	}
}
