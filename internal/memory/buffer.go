// Package memory provides PhysicalMemory capability implementations backed
// by ordinary process memory and by raw dump files. Boot-time callers supply
// their own implementation; these exist for tooling and tests.
package memory

import (
	"fmt"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// allocAlign is the alignment applied to every Allocate result. The boot
// information structure and its tables are 4-byte aligned on the wire.
const allocAlign = 4

// BufferMemory is an identity-mapped window over a byte slice: physical
// address base maps to data[0]. Reads outside the window report
// ErrUnmapped. Allocation hands out space from the tail of the window.
type BufferMemory struct {
	base types.PAddr
	data []byte
	next uint32
}

// NewBufferMemory maps data at the given physical base address. The
// allocation cursor starts past the existing content, so Allocate never
// clobbers it.
func NewBufferMemory(base types.PAddr, data []byte) *BufferMemory {
	return &BufferMemory{base: base, data: data, next: uint32(len(data))}
}

// NewArena maps a zeroed window of the given size at base, with the whole
// window available to Allocate.
func NewArena(base types.PAddr, size uint32) *BufferMemory {
	return &BufferMemory{base: base, data: make([]byte, size)}
}

// Read returns a borrowed view of length bytes at addr, or ErrUnmapped when
// the range falls outside the window.
func (b *BufferMemory) Read(addr types.PAddr, length uint32) ([]byte, error) {
	if addr < b.base {
		return nil, fmt.Errorf("read at %#x below window base %#x: %w", addr, b.base, interfaces.ErrUnmapped)
	}
	offset := uint64(addr - b.base)
	if offset+uint64(length) > uint64(len(b.data)) {
		return nil, fmt.Errorf("read of %d bytes at %#x past window end: %w", length, addr, interfaces.ErrUnmapped)
	}
	return b.data[offset : offset+uint64(length)], nil
}

// Allocate hands out length bytes from the unused tail of the window.
func (b *BufferMemory) Allocate(length uint32) (types.PAddr, []byte, error) {
	next := (b.next + allocAlign - 1) &^ (allocAlign - 1)
	if uint64(next)+uint64(length) > uint64(len(b.data)) {
		return 0, nil, fmt.Errorf("arena exhausted allocating %d bytes: %w", length, interfaces.ErrAllocationFailed)
	}
	addr := b.base + types.PAddr(next)
	b.next = next + length
	return addr, b.data[next : next+length], nil
}

// Deallocate is a no-op; arena memory is reclaimed wholesale when the buffer
// is dropped.
func (b *BufferMemory) Deallocate(addr types.PAddr) error {
	return nil
}

// Bytes exposes the backing slice, for callers that persist a built image.
func (b *BufferMemory) Bytes() []byte {
	return b.data
}

var _ interfaces.PhysicalMemory = (*BufferMemory)(nil)
