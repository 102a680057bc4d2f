package types

import "encoding/binary"

// Boot Information Structure
// The structure a bootloader places in memory and whose physical address it
// passes to the kernel in EBX. All integers are little-endian.
// Reference: section 3.3 "Boot information format"
//
//	        +-------------------+
//	0       | flags             |    (required)
//	        +-------------------+
//	4       | mem_lower         |    (present if flags[0] is set)
//	8       | mem_upper         |    (present if flags[0] is set)
//	        +-------------------+
//	12      | boot_device       |    (present if flags[1] is set)
//	        +-------------------+
//	16      | cmdline           |    (present if flags[2] is set)
//	        +-------------------+
//	20      | mods_count        |    (present if flags[3] is set)
//	24      | mods_addr         |    (present if flags[3] is set)
//	        +-------------------+
//	28 - 40 | syms              |    (present if flags[4] or flags[5] is set)
//	        +-------------------+
//	44      | mmap_length       |    (present if flags[6] is set)
//	48      | mmap_addr         |    (present if flags[6] is set)
//	        +-------------------+
//	52      | drives_length     |    (present if flags[7] is set)
//	56      | drives_addr       |    (present if flags[7] is set)
//	        +-------------------+
//	60      | config_table      |    (present if flags[8] is set)
//	        +-------------------+
//	64      | boot_loader_name  |    (present if flags[9] is set)
//	        +-------------------+
//	68      | apm_table         |    (present if flags[10] is set)
//	        +-------------------+
//	72      | vbe_control_info  |    (present if flags[11] is set)
//	76      | vbe_mode_info     |
//	80      | vbe_mode          |
//	82      | vbe_interface_seg |
//	84      | vbe_interface_off |
//	86      | vbe_interface_len |
//	        +-------------------+
//	88      | framebuffer_addr  |    (present if flags[12] is set)
//	96      | framebuffer_pitch |
//	100     | framebuffer_width |
//	104     | framebuffer_height|
//	108     | framebuffer_bpp   |
//	109     | framebuffer_type  |
//	110-115 | color_info        |
//	        +-------------------+

// Flag bits gating the validity of each field group in the boot information
// structure. An unset bit means the corresponding fields are undefined.
const (
	InfoFlagMemory uint32 = 1 << iota
	InfoFlagBootDevice
	InfoFlagCmdLine
	InfoFlagModules
	InfoFlagAOutSymbols
	InfoFlagElfSymbols
	InfoFlagMemoryMap
	InfoFlagDrives
	InfoFlagConfigTable
	InfoFlagBootLoaderName
	InfoFlagAPMTable
	InfoFlagVBE
	InfoFlagFramebuffer
)

// InfoT is the raw fixed-size boot information record as decoded from
// physical memory. Field validity is gated by Flags; accessors on the info
// reader apply that gate, raw values here are unfiltered.
type InfoT struct {
	Flags uint32

	MemLower uint32
	MemUpper uint32

	BootDevice BootDeviceT

	CmdLine uint32

	ModsCount uint32
	ModsAddr  uint32

	// Syms holds the raw 16-byte symbol union region; interpretation is
	// selected by InfoFlagAOutSymbols or InfoFlagElfSymbols.
	Syms [16]byte

	MmapLength uint32
	MmapAddr   uint32

	DrivesLength uint32
	DrivesAddr   uint32

	ConfigTable uint32

	BootLoaderName uint32

	APMTable uint32

	VBE VBEInfoT

	Framebuffer FramebufferT
}

// BootDeviceT is the 'boot_device' field: the BIOS device the image was
// loaded from. Partition numbering starts at zero; unused partition levels
// hold 0xFF.
type BootDeviceT struct {
	// Drive is the BIOS drive number as understood by the INT 0x13
	// low-level disk interface: e.g. 0x00 for the first floppy disk or
	// 0x80 for the first hard disk.
	Drive uint8
	// Partition1 is the top-level partition number.
	Partition1 uint8
	// Partition2 is a sub-partition in the top-level partition.
	Partition2 uint8
	// Partition3 is a sub-partition in the 2nd-level partition.
	Partition3 uint8
}

// Partition1IsValid checks whether the top-level partition is in use.
func (b BootDeviceT) Partition1IsValid() bool {
	return b.Partition1 != 0xFF
}

// Partition2IsValid checks whether the 2nd-level partition is in use.
func (b BootDeviceT) Partition2IsValid() bool {
	return b.Partition2 != 0xFF
}

// Partition3IsValid checks whether the 3rd-level partition is in use.
func (b BootDeviceT) Partition3IsValid() bool {
	return b.Partition3 != 0xFF
}

// VBEInfoT holds the VESA BIOS Extensions fields, valid when InfoFlagVBE is
// set.
type VBEInfoT struct {
	ControlInfo  uint32
	ModeInfo     uint32
	Mode         uint16
	InterfaceSeg uint16
	InterfaceOff uint16
	InterfaceLen uint16
}

// Framebuffer types stored in the framebuffer_type field.
const (
	// FramebufferTypeIndexed specifies indexed color with a palette.
	FramebufferTypeIndexed uint8 = 0
	// FramebufferTypeRGB specifies direct RGB color.
	FramebufferTypeRGB uint8 = 1
	// FramebufferTypeEGAText specifies EGA text mode; width and height are
	// expressed in characters and bpp is 16.
	FramebufferTypeEGAText uint8 = 2
)

// FramebufferT holds the framebuffer fields, valid when InfoFlagFramebuffer
// is set.
type FramebufferT struct {
	Addr   uint64
	Pitch  uint32
	Width  uint32
	Height uint32
	BPP    uint8
	Type   uint8
	// ColorInfo holds the raw 6-byte color info region; interpretation is
	// selected by Type.
	ColorInfo [6]byte
}

// PaletteInfo returns the indexed color description. Absent unless Type is
// FramebufferTypeIndexed.
func (f FramebufferT) PaletteInfo() (PaletteColorInfo, bool) {
	if f.Type != FramebufferTypeIndexed {
		return PaletteColorInfo{}, false
	}
	return PaletteColorInfo{
		PaletteAddr:      binary.LittleEndian.Uint32(f.ColorInfo[0:4]),
		PaletteNumColors: binary.LittleEndian.Uint16(f.ColorInfo[4:6]),
	}, true
}

// RGBInfo returns the direct color description. Absent unless Type is
// FramebufferTypeRGB.
func (f FramebufferT) RGBInfo() (RGBColorInfo, bool) {
	if f.Type != FramebufferTypeRGB {
		return RGBColorInfo{}, false
	}
	return RGBColorInfo{
		RedFieldPosition:   f.ColorInfo[0],
		RedMaskSize:        f.ColorInfo[1],
		GreenFieldPosition: f.ColorInfo[2],
		GreenMaskSize:      f.ColorInfo[3],
		BlueFieldPosition:  f.ColorInfo[4],
		BlueMaskSize:       f.ColorInfo[5],
	}, true
}

// IsEGAText checks whether the framebuffer is EGA text mode.
func (f FramebufferT) IsEGAText() bool {
	return f.Type == FramebufferTypeEGAText
}

// PaletteColorInfo describes indexed color mode: the physical address of the
// palette and the number of colors in it.
type PaletteColorInfo struct {
	PaletteAddr      uint32
	PaletteNumColors uint16
}

// RGBColorInfo describes the position and width in bits of each color
// component in direct RGB mode.
type RGBColorInfo struct {
	RedFieldPosition   uint8
	RedMaskSize        uint8
	GreenFieldPosition uint8
	GreenMaskSize      uint8
	BlueFieldPosition  uint8
	BlueMaskSize       uint8
}
