package types

// Memory Map
// The buffer referenced by mmap_addr/mmap_length: a sequence of
// variable-length records, each prefixed with a size field that does not
// count itself. The next record starts size + 4 bytes after the current
// size field.
// Reference: section 3.3, 'mmap_*' fields
//
//	        +-------------------+
//	-4      | size              |
//	        +-------------------+
//	0       | base_addr         |
//	8       | length            |
//	16      | type              |
//	        +-------------------+

const (
	// MemoryEntrySizeFieldLen is the length of the per-record size prefix.
	MemoryEntrySizeFieldLen = 4
	// MemoryEntryBodyLen is the minimum record body for a conformant
	// entry: base_addr, length and type.
	MemoryEntryBodyLen = 20
)

// MemoryType classifies a memory-map region.
type MemoryType uint32

const (
	// MemoryAvailable is RAM available to the operating system.
	MemoryAvailable MemoryType = 1
	// MemoryReserved is not available (ROM, memory-mapped devices).
	MemoryReserved MemoryType = 2
	// MemoryACPI is ACPI reclaimable memory.
	MemoryACPI MemoryType = 3
	// MemoryNVS is ACPI non-volatile storage that must be preserved.
	MemoryNVS MemoryType = 4
	// MemoryBadRAM covers defective RAM modules.
	MemoryBadRAM MemoryType = 5
	// MemoryOther is any classification outside the defined range.
	MemoryOther MemoryType = 0
)

// MemoryTypeFromRaw maps a raw type field to a MemoryType, folding unknown
// values into MemoryOther.
func MemoryTypeFromRaw(raw uint32) MemoryType {
	switch raw {
	case 1:
		return MemoryAvailable
	case 2:
		return MemoryReserved
	case 3:
		return MemoryACPI
	case 4:
		return MemoryNVS
	case 5:
		return MemoryBadRAM
	default:
		return MemoryOther
	}
}

func (t MemoryType) String() string {
	switch t {
	case MemoryAvailable:
		return "available"
	case MemoryReserved:
		return "reserved"
	case MemoryACPI:
		return "acpi-reclaimable"
	case MemoryNVS:
		return "nvs"
	case MemoryBadRAM:
		return "bad-ram"
	default:
		return "other"
	}
}

// MemoryRegion is one decoded memory-map record.
type MemoryRegion struct {
	// Size is the raw record size field, excluding the field itself.
	Size uint32
	// BaseAddr is the start of the region.
	BaseAddr PAddr
	// Length is the region size in bytes.
	Length uint64
	// Type classifies the region.
	Type MemoryType
	// RawType preserves the undecoded type field.
	RawType uint32
}

// EndAddr returns the first address past the region.
func (r MemoryRegion) EndAddr() PAddr {
	return r.BaseAddr + PAddr(r.Length)
}

// IsUsable checks whether the region is RAM available to the OS.
func (r MemoryRegion) IsUsable() bool {
	return r.Type == MemoryAvailable
}
