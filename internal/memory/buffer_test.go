package memory

import (
	"errors"
	"testing"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

func TestBufferMemoryRead(t *testing.T) {
	mem := NewBufferMemory(0x1000, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	got, err := mem.Read(0x1002, 4)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got[0] != 3 || got[3] != 6 {
		t.Errorf("Read() = %v, expected bytes 3..6", got)
	}
}

func TestBufferMemoryReadOutOfRange(t *testing.T) {
	mem := NewBufferMemory(0x1000, make([]byte, 8))

	testCases := []struct {
		name   string
		addr   types.PAddr
		length uint32
	}{
		{name: "Below base", addr: 0xFFF, length: 1},
		{name: "Past end", addr: 0x1006, length: 4},
		{name: "Far away", addr: 0xDEAD0000, length: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := mem.Read(tc.addr, tc.length); !errors.Is(err, interfaces.ErrUnmapped) {
				t.Errorf("Read(%#x, %d) error = %v, expected ErrUnmapped", tc.addr, tc.length, err)
			}
		})
	}
}

func TestBufferMemoryReadHugeLength(t *testing.T) {
	// length near uint32 max must not wrap the bounds check.
	mem := NewBufferMemory(0x1000, make([]byte, 8))
	if _, err := mem.Read(0x1000, 0xFFFFFFFF); !errors.Is(err, interfaces.ErrUnmapped) {
		t.Errorf("expected ErrUnmapped, got %v", err)
	}
}

func TestArenaAllocate(t *testing.T) {
	arena := NewArena(0x2000, 64)

	addr, buf, err := arena.Allocate(10)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if addr != 0x2000 {
		t.Errorf("first allocation at %#x, expected 0x2000", addr)
	}
	copy(buf, "0123456789")

	// Second allocation is 4-byte aligned past the first.
	addr2, _, err := arena.Allocate(4)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if addr2 != 0x200C {
		t.Errorf("second allocation at %#x, expected 0x200C", addr2)
	}

	// Writes through the allocation are visible to Read.
	got, err := arena.Read(0x2000, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(got) != "0123456789" {
		t.Errorf("Read() = %q", got)
	}
}

func TestArenaExhaustion(t *testing.T) {
	arena := NewArena(0x2000, 16)
	if _, _, err := arena.Allocate(32); !errors.Is(err, interfaces.ErrAllocationFailed) {
		t.Errorf("expected ErrAllocationFailed, got %v", err)
	}
}

func TestBufferMemoryAllocateDoesNotClobber(t *testing.T) {
	data := []byte{0xAA, 0xBB}
	mem := NewBufferMemory(0x1000, data)
	if _, _, err := mem.Allocate(1); !errors.Is(err, interfaces.ErrAllocationFailed) {
		t.Errorf("expected ErrAllocationFailed on full window, got %v", err)
	}
}
