package types

// OS Image Header
// The header a Multiboot-compliant kernel image carries within its first
// 8192 bytes, 32-bit aligned, so bootloaders can find and load it.
// Reference: section 3.1 "OS image format"
//
//	        +-------------------+
//	0       | magic             |    (required)
//	4       | flags             |    (required)
//	8       | checksum          |    (required)
//	        +-------------------+
//	12      | header_addr       |    (present if flags[16] is set)
//	16      | load_addr         |    (present if flags[16] is set)
//	20      | load_end_addr     |    (present if flags[16] is set)
//	24      | bss_end_addr      |    (present if flags[16] is set)
//	28      | entry_addr        |    (present if flags[16] is set)
//	        +-------------------+
//	32      | mode_type         |    (present if flags[2] is set)
//	36      | width             |    (present if flags[2] is set)
//	40      | height            |    (present if flags[2] is set)
//	44      | depth             |    (present if flags[2] is set)
//	        +-------------------+

// HeaderMagic identifies a Multiboot v1 image header.
const HeaderMagic uint32 = 0x1BADB002

const (
	// HeaderLen is the size of the full header including the optional
	// address and video fields.
	HeaderLen = 48
	// HeaderSearchLen bounds the region at the start of the image within
	// which the header must be located.
	HeaderSearchLen = 8192
)

// Image header flag bits.
const (
	// HeaderFlagPageAlign requests boot modules aligned on 4 KiB
	// boundaries.
	HeaderFlagPageAlign uint32 = 1 << 0
	// HeaderFlagMemoryInfo requests memory information in the boot
	// information structure.
	HeaderFlagMemoryInfo uint32 = 1 << 1
	// HeaderFlagVideoMode marks the video mode fields valid.
	HeaderFlagVideoMode uint32 = 1 << 2
	// HeaderFlagAddresses marks the address fields valid; they must then
	// be used to load the image regardless of what the ELF header says.
	HeaderFlagAddresses uint32 = 1 << 16
)

// HeaderT is the raw image header.
type HeaderT struct {
	Magic    uint32
	Flags    uint32
	Checksum uint32

	Addresses HeaderAddressesT
	VideoMode VideoModeT
}

// ChecksumValid checks the required magic + flags + checksum == 0 relation.
func (h HeaderT) ChecksumValid() bool {
	return h.Magic+h.Flags+h.Checksum == 0
}

// HeaderAddressesT holds the load addresses, valid when HeaderFlagAddresses
// is set.
type HeaderAddressesT struct {
	// HeaderAddr is the physical address corresponding to the start of
	// the header in the image.
	HeaderAddr uint32
	// LoadAddr is the physical address of the start of the text segment.
	// Must be <= HeaderAddr.
	LoadAddr uint32
	// LoadEndAddr is the physical end of the data segment, or 0 to load
	// the whole file.
	LoadEndAddr uint32
	// BSSEndAddr is the physical end of the bss segment, or 0 when there
	// is none.
	BSSEndAddr uint32
	// EntryAddr is the physical address the bootloader jumps to.
	EntryAddr uint32
}

// LoadOffset computes the file offset at which loading starts: the offset at
// which the header was found, minus (header_addr - load_addr).
// Reference: section 3.1.3 "The address fields of Multiboot header"
func (a HeaderAddressesT) LoadOffset(headerStart uint32) uint32 {
	return headerStart - (a.HeaderAddr - a.LoadAddr)
}

// Video mode types requested by an image header.
const (
	// VideoModeLinearGraphics requests a linear graphics mode.
	VideoModeLinearGraphics uint32 = 0
	// VideoModeEGAText requests a standard EGA text mode.
	VideoModeEGAText uint32 = 1
)

// VideoModeT holds the preferred video mode, valid when HeaderFlagVideoMode
// is set.
type VideoModeT struct {
	ModeType uint32
	// Width and Height are in pixels, or characters in text mode; 0
	// means no preference.
	Width  uint32
	Height uint32
	// Depth is bits per pixel in graphics modes, 0 in text modes.
	Depth uint32
}
