// Package elfsections walks the ELF section header table referenced by the
// boot information's ELF symbols descriptor.
package elfsections

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/cstring"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Iterator is a lazy, finite walker over section header entries. Unused
// entries are skipped. The entry size comes from the untrusted descriptor;
// anything other than the two defined layouts terminates the walk before it
// starts.
type Iterator struct {
	mem       interfaces.PhysicalMemory
	base      types.PAddr
	entrySize uint32
	count     uint32
	index     uint32
	done      bool

	strings    types.ElfSectionT
	hasStrings bool
}

// NewIterator starts a walk over the table described by desc. The string
// table section named by shndx is resolved up front so section names can be
// looked up during the walk; failure to read it degrades names to absent.
func NewIterator(mem interfaces.PhysicalMemory, desc types.ElfSymbolsT) *Iterator {
	it := &Iterator{
		mem:       mem,
		base:      types.PAddr(desc.Addr),
		entrySize: desc.Size,
		count:     desc.Num,
	}
	if desc.Size != types.ElfSection32Len && desc.Size != types.ElfSection64Len {
		it.done = true
		return it
	}
	if desc.Shndx < desc.Num {
		if sec, ok := it.readAt(desc.Shndx); ok && sec.Type == types.ElfSectionStringTable {
			it.strings = sec
			it.hasStrings = true
		}
	}
	return it
}

// Next returns the next non-unused section header. ok is false when the
// table is exhausted or an entry could not be read.
func (it *Iterator) Next() (types.ElfSectionT, bool) {
	for !it.done && it.index < it.count {
		sec, ok := it.readAt(it.index)
		it.index++
		if !ok {
			it.done = true
			break
		}
		if sec.Type == types.ElfSectionUnused {
			continue
		}
		return sec, true
	}
	it.done = true
	return types.ElfSectionT{}, false
}

// SectionName resolves a section's name via the string table section.
func (it *Iterator) SectionName(section types.ElfSectionT) (string, bool) {
	if !it.hasStrings {
		return "", false
	}
	return cstring.Resolve(it.mem, it.strings.Addr+types.PAddr(section.NameIndex))
}

func (it *Iterator) readAt(index uint32) (types.ElfSectionT, bool) {
	offset := types.PAddr(index) * types.PAddr(it.entrySize)
	raw, err := it.mem.Read(it.base+offset, it.entrySize)
	if err != nil {
		return types.ElfSectionT{}, false
	}
	if it.entrySize == types.ElfSection32Len {
		return parseSection32(raw), true
	}
	return parseSection64(raw), true
}

func parseSection32(data []byte) types.ElfSectionT {
	return types.ElfSectionT{
		NameIndex: binary.LittleEndian.Uint32(data[0:4]),
		Type:      types.ElfSectionType(binary.LittleEndian.Uint32(data[4:8])),
		Flags:     uint64(binary.LittleEndian.Uint32(data[8:12])),
		Addr:      types.PAddr(binary.LittleEndian.Uint32(data[12:16])),
		Offset:    uint64(binary.LittleEndian.Uint32(data[16:20])),
		Size:      uint64(binary.LittleEndian.Uint32(data[20:24])),
		Link:      binary.LittleEndian.Uint32(data[24:28]),
		Info:      binary.LittleEndian.Uint32(data[28:32]),
		AddrAlign: uint64(binary.LittleEndian.Uint32(data[32:36])),
		EntrySize: uint64(binary.LittleEndian.Uint32(data[36:40])),
	}
}

func parseSection64(data []byte) types.ElfSectionT {
	return types.ElfSectionT{
		NameIndex: binary.LittleEndian.Uint32(data[0:4]),
		Type:      types.ElfSectionType(binary.LittleEndian.Uint32(data[4:8])),
		Flags:     binary.LittleEndian.Uint64(data[8:16]),
		Addr:      types.PAddr(binary.LittleEndian.Uint64(data[16:24])),
		Offset:    binary.LittleEndian.Uint64(data[24:32]),
		Size:      binary.LittleEndian.Uint64(data[32:40]),
		Link:      binary.LittleEndian.Uint32(data[40:44]),
		Info:      binary.LittleEndian.Uint32(data[44:48]),
		AddrAlign: binary.LittleEndian.Uint64(data[48:56]),
		EntrySize: binary.LittleEndian.Uint64(data[56:64]),
	}
}

var _ interfaces.ElfSectionIterator = (*Iterator)(nil)
