// File: internal/interfaces/physical_memory.go
package interfaces

import (
	"errors"

	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// ErrUnmapped reports that a physical address range could not be safely
// dereferenced. Readers treat it as a hard failure for the fixed boot
// information record and as end-of-sequence for dependent records.
var ErrUnmapped = errors.New("physical memory range is not mapped")

// ErrAllocationFailed reports that the capability could not provide backing
// memory for a requested allocation.
var ErrAllocationFailed = errors.New("physical memory allocation failed")

// PhysicalMemory mediates every access to physical memory. Physical to
// virtual translation is platform- and privilege-level-specific, so the
// decoder never dereferences an address itself; callers supply an
// implementation appropriate to their execution environment.
//
// No concurrency contract is imposed: implementations are assumed callable
// from the execution context that constructed the decoder, and callers on
// multi-core paths must serialize access themselves.
type PhysicalMemory interface {
	// Read returns a view of length bytes at the given physical address.
	// It must return ErrUnmapped rather than faulting when the range
	// cannot be dereferenced. The returned slice is borrowed; it is only
	// valid while the underlying memory is not reclaimed.
	Read(addr types.PAddr, length uint32) ([]byte, error)

	// Allocate reserves length bytes and returns their physical address
	// together with a writable view. Only writer-side callers use this;
	// read-only decoding never allocates. Implementations that only
	// support reading return ErrAllocationFailed.
	Allocate(length uint32) (types.PAddr, []byte, error)

	// Deallocate releases memory previously returned by Allocate. A null
	// address is a no-op.
	Deallocate(addr types.PAddr) error
}
