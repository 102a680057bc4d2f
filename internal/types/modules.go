package types

// Boot Modules
// The table referenced by mods_addr holds mods_count fixed-size records
// describing blobs the bootloader loaded alongside the kernel.
// Reference: section 3.3, 'mods_*' fields
//
//	        +-------------------+
//	0       | mod_start         |
//	4       | mod_end           |
//	8       | string            |
//	12      | reserved (0)      |
//	        +-------------------+

// ModuleEntryLen is the on-wire size of one module record.
const ModuleEntryLen = 16

// ModuleT is the raw module record.
type ModuleT struct {
	// Start is the inclusive physical start address of the module.
	Start uint32
	// End is the exclusive physical end address of the module.
	End uint32
	// String is a physical pointer to a zero-terminated ASCII string
	// associated with the module, or 0 if there is none. Typically a
	// command line or a pathname.
	String uint32
	// Reserved must be zero; it is ignored, not validated.
	Reserved uint32
}

// Module is one decoded module entry with its name resolved.
type Module struct {
	// Start is the inclusive physical start address of the module.
	Start PAddr
	// End is the exclusive physical end address of the module.
	End PAddr
	// Name is the resolved module string. HasName is false when the
	// string pointer was null or the string could not be read.
	Name    string
	HasName bool
}

// Length returns the module size in bytes.
func (m Module) Length() uint64 {
	return uint64(m.End - m.Start)
}
