// Package memorymap walks the variable-stride memory map records referenced
// by the boot information structure.
package memorymap

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// Iterator is a lazy, finite walker over memory-map records. The size field
// of each record is bootloader-controlled and untrusted, so iteration stops
// on a zero or short stride, on declared-length exhaustion, and on any read
// failure; entries already yielded stay valid.
type Iterator struct {
	mem     interfaces.PhysicalMemory
	current types.PAddr
	end     types.PAddr
	done    bool
}

// NewIterator starts a walk at addr covering length declared bytes. Each
// accessor call on the info reader constructs a fresh Iterator; cursors are
// never shared.
func NewIterator(mem interfaces.PhysicalMemory, addr types.PAddr, length uint32) *Iterator {
	return &Iterator{
		mem:     mem,
		current: addr,
		end:     addr + types.PAddr(length),
	}
}

// Next returns the next memory region. ok is false once the declared length
// is consumed or iteration terminated early on malformed or unreadable
// input.
func (it *Iterator) Next() (types.MemoryRegion, bool) {
	if it.done || it.current >= it.end {
		it.done = true
		return types.MemoryRegion{}, false
	}

	sizeRaw, err := it.mem.Read(it.current, types.MemoryEntrySizeFieldLen)
	if err != nil {
		it.done = true
		return types.MemoryRegion{}, false
	}
	size := binary.LittleEndian.Uint32(sizeRaw)

	// A conformant record body is at least 20 bytes. Zero or short sizes
	// are malformed; stopping here is what keeps a hostile size field
	// from looping the walk forever.
	if size < types.MemoryEntryBodyLen {
		it.done = true
		return types.MemoryRegion{}, false
	}

	body, err := it.mem.Read(it.current+types.MemoryEntrySizeFieldLen, types.MemoryEntryBodyLen)
	if err != nil {
		it.done = true
		return types.MemoryRegion{}, false
	}

	rawType := binary.LittleEndian.Uint32(body[16:20])
	region := types.MemoryRegion{
		Size:     size,
		BaseAddr: types.PAddr(binary.LittleEndian.Uint64(body[0:8])),
		Length:   binary.LittleEndian.Uint64(body[8:16]),
		Type:     types.MemoryTypeFromRaw(rawType),
		RawType:  rawType,
	}

	// The next record begins size + 4 bytes after the current size
	// field; the size field does not count itself.
	it.current += types.PAddr(size) + types.MemoryEntrySizeFieldLen
	return region, true
}

var _ interfaces.MemoryMapIterator = (*Iterator)(nil)
