// Package types implements data structures for the Multiboot v1 boot
// information format. This package is based on the Multiboot Specification
// version 0.6.96.
package types

// General-Purpose Types
// Basic types that are used in a variety of contexts, and aren't associated
// with any particular structure.

// PAddr represents a raw physical memory address as handed over by the
// bootloader. It is never dereferenced directly; all access goes through the
// PhysicalMemory capability.
type PAddr uint64

// Validate checks that the physical address is non-null.
func (p PAddr) Validate() bool {
	return p != 0
}

// BootloaderMagic is the value found in EAX after a Multiboot v1 compliant
// bootloader jumps to the kernel entry point.
// Reference: section 3.2 "Machine state"
const BootloaderMagic uint32 = 0x2BADB002

// InfoSize is the size in bytes of the fixed boot information layout,
// through the framebuffer color info.
// Reference: section 3.3 "Boot information format"
const InfoSize = 116
