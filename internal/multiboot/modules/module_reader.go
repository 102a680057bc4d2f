// Package modules walks the fixed-stride module table referenced by the
// boot information structure.
package modules

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/cstring"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Iterator is a lazy, finite walker over the module table. It yields at most
// count entries; a read failure terminates iteration early without
// invalidating entries already yielded.
type Iterator struct {
	mem   interfaces.PhysicalMemory
	addr  types.PAddr
	count uint32
	index uint32
	done  bool
}

// NewIterator starts a walk over count module records at addr. Each accessor
// call on the info reader constructs a fresh Iterator; cursors are never
// shared.
func NewIterator(mem interfaces.PhysicalMemory, addr types.PAddr, count uint32) *Iterator {
	return &Iterator{mem: mem, addr: addr, count: count}
}

// Next returns the next module. ok is false once count entries have been
// yielded or a record could not be read. A module whose name string is
// unreadable is still yielded with valid addresses and an absent name.
func (it *Iterator) Next() (types.Module, bool) {
	if it.done || it.index >= it.count {
		it.done = true
		return types.Module{}, false
	}

	offset := types.PAddr(it.index) * types.ModuleEntryLen
	raw, err := it.mem.Read(it.addr+offset, types.ModuleEntryLen)
	if err != nil {
		it.done = true
		return types.Module{}, false
	}
	it.index++

	entry := types.ModuleT{
		Start:    binary.LittleEndian.Uint32(raw[0:4]),
		End:      binary.LittleEndian.Uint32(raw[4:8]),
		String:   binary.LittleEndian.Uint32(raw[8:12]),
		Reserved: binary.LittleEndian.Uint32(raw[12:16]),
	}

	mod := types.Module{
		Start: types.PAddr(entry.Start),
		End:   types.PAddr(entry.End),
	}
	mod.Name, mod.HasName = cstring.Resolve(it.mem, types.PAddr(entry.String))
	return mod, true
}

var _ interfaces.ModuleIterator = (*Iterator)(nil)
