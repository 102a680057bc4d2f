// Package cstring resolves zero-terminated strings referenced by physical
// pointers in the boot information structure.
package cstring

import (
	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// MaxLength caps string resolution. Bootloader strings are command lines
// and loader names; anything longer than this is treated as unterminated
// rather than read without bound.
const MaxLength = 4096

// probeLen is the window size used while scanning for the terminator. The
// scan never requests memory past the byte it needs, so a string ending just
// before an unmapped page still resolves.
const probeLen = 1

// Resolve reads the zero-terminated string at addr through the capability.
// It reports absent when addr is null, when no terminator is found within
// MaxLength bytes, or when any underlying read fails.
func Resolve(mem interfaces.PhysicalMemory, addr types.PAddr) (string, bool) {
	if !addr.Validate() {
		return "", false
	}

	length := uint32(0)
	for length < MaxLength {
		b, err := mem.Read(addr+types.PAddr(length), probeLen)
		if err != nil {
			return "", false
		}
		if b[0] == 0 {
			break
		}
		length++
	}
	if length == MaxLength {
		return "", false
	}
	if length == 0 {
		return "", true
	}

	// One contiguous read for the whole string, now that its length is
	// known.
	raw, err := mem.Read(addr, length)
	if err != nil {
		return "", false
	}
	return string(raw), true
}
