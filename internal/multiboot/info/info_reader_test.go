package info

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/memory"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

const infoBase = types.PAddr(0x9500)

// infoImage is a mutable boot information record plus trailing window space
// for strings and tables referenced by it.
type infoImage struct {
	data []byte
}

func newInfoImage(windowLen int) *infoImage {
	if windowLen < types.InfoSize {
		windowLen = types.InfoSize
	}
	return &infoImage{data: make([]byte, windowLen)}
}

func (im *infoImage) setFlags(flags uint32) {
	binary.LittleEndian.PutUint32(im.data[0:4], flags)
}

func (im *infoImage) putUint32(offset int, v uint32) {
	binary.LittleEndian.PutUint32(im.data[offset:], v)
}

// place copies payload into the window and returns its physical address.
func (im *infoImage) place(offset int, payload []byte) types.PAddr {
	copy(im.data[offset:], payload)
	return infoBase + types.PAddr(offset)
}

func (im *infoImage) reader(t *testing.T) interfaces.InfoReader {
	t.Helper()
	ir, err := NewInfoReader(memory.NewBufferMemory(infoBase, im.data), infoBase)
	require.NoError(t, err)
	return ir
}

func TestConstructionFailsOnUnmappedHeader(t *testing.T) {
	// Window shorter than the fixed record: construction must fail, no
	// reader produced.
	mem := memory.NewBufferMemory(infoBase, make([]byte, 64))
	ir, err := NewInfoReader(mem, infoBase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrUnmapped))
	assert.Nil(t, ir)
}

func TestConstructionFailsOnNullAddress(t *testing.T) {
	mem := memory.NewBufferMemory(infoBase, make([]byte, types.InfoSize))
	_, err := NewInfoReader(mem, 0)
	assert.True(t, errors.Is(err, interfaces.ErrUnmapped))
}

func TestUnsetFlagsGateEverything(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	// Garbage in every optional field region; flags stay zero, so none
	// of it may surface.
	for i := 4; i < types.InfoSize; i++ {
		im.data[i] = 0xA5
	}
	im.setFlags(0)

	ir := im.reader(t)

	assert.False(t, ir.HasMemoryBounds())
	_, ok := ir.LowerMemoryBound()
	assert.False(t, ok)
	_, ok = ir.UpperMemoryBound()
	assert.False(t, ok)
	_, ok = ir.BootDevice()
	assert.False(t, ok)
	_, ok = ir.CommandLine()
	assert.False(t, ok)
	_, ok = ir.BootLoaderName()
	assert.False(t, ok)
	_, ok = ir.Modules()
	assert.False(t, ok)
	_, ok = ir.Symbols()
	assert.False(t, ok)
	_, ok = ir.MemoryRegions()
	assert.False(t, ok)
	_, ok = ir.ElfSections()
	assert.False(t, ok)
	_, _, ok = ir.Drives()
	assert.False(t, ok)
	_, ok = ir.ConfigTable()
	assert.False(t, ok)
	_, ok = ir.APMTable()
	assert.False(t, ok)
	_, ok = ir.VBE()
	assert.False(t, ok)
	_, ok = ir.Framebuffer()
	assert.False(t, ok)
}

func TestMemoryBoundsOnly(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(types.InfoFlagMemory)
	im.putUint32(4, 640)   // mem_lower
	im.putUint32(8, 65536) // mem_upper

	ir := im.reader(t)

	lower, ok := ir.LowerMemoryBound()
	require.True(t, ok)
	assert.Equal(t, uint32(640), lower)

	upper, ok := ir.UpperMemoryBound()
	require.True(t, ok)
	assert.Equal(t, uint32(65536), upper)

	_, ok = ir.Modules()
	assert.False(t, ok, "modules must be absent with bit 3 unset")
	_, ok = ir.MemoryRegions()
	assert.False(t, ok, "memory map must be absent with bit 6 unset")
}

func TestMemoryMapEndToEnd(t *testing.T) {
	im := newInfoImage(512)
	im.setFlags(types.InfoFlagMemoryMap)

	entry := make([]byte, 24)
	binary.LittleEndian.PutUint32(entry[0:4], 20)
	binary.LittleEndian.PutUint64(entry[4:12], 0x100000)
	binary.LittleEndian.PutUint64(entry[12:20], 0x1000000)
	binary.LittleEndian.PutUint32(entry[20:24], 1)
	mmapAddr := im.place(128, entry)

	im.putUint32(44, 24) // mmap_length
	im.putUint32(48, uint32(mmapAddr))

	ir := im.reader(t)

	iter, ok := ir.MemoryRegions()
	require.True(t, ok)

	region, ok := iter.Next()
	require.True(t, ok)
	assert.Equal(t, types.MemoryAvailable, region.Type)
	assert.Equal(t, types.PAddr(0x100000), region.BaseAddr)
	assert.Equal(t, uint64(0x1000000), region.Length)
	assert.True(t, region.IsUsable())

	_, ok = iter.Next()
	assert.False(t, ok, "declared length of 24 bytes holds exactly one entry")

	// Accessors hand out fresh iterators; a second walk starts over.
	again, ok := ir.MemoryRegions()
	require.True(t, ok)
	first, ok := again.Next()
	require.True(t, ok)
	assert.Equal(t, region, first)
}

func TestCommandLineAndBootLoaderName(t *testing.T) {
	im := newInfoImage(512)
	im.setFlags(types.InfoFlagCmdLine | types.InfoFlagBootLoaderName)
	cmdAddr := im.place(200, []byte("console=ttyS0 root=/dev/ram0\x00"))
	nameAddr := im.place(260, []byte("GNU GRUB 0.97\x00"))
	im.putUint32(16, uint32(cmdAddr))
	im.putUint32(64, uint32(nameAddr))

	ir := im.reader(t)

	cmdline, ok := ir.CommandLine()
	require.True(t, ok)
	assert.Equal(t, "console=ttyS0 root=/dev/ram0", cmdline)

	name, ok := ir.BootLoaderName()
	require.True(t, ok)
	assert.Equal(t, "GNU GRUB 0.97", name)
}

func TestCommandLineUnreadableReportsAbsent(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(types.InfoFlagCmdLine)
	im.putUint32(16, 0xDEAD0000) // outside the mapped window

	ir := im.reader(t)
	_, ok := ir.CommandLine()
	assert.False(t, ok)
}

func TestBootDevice(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(types.InfoFlagBootDevice)
	im.data[12] = 0x80 // first hard disk
	im.data[13] = 0x00
	im.data[14] = 0xFF
	im.data[15] = 0xFF

	ir := im.reader(t)

	dev, ok := ir.BootDevice()
	require.True(t, ok)
	assert.Equal(t, uint8(0x80), dev.Drive)
	assert.True(t, dev.Partition1IsValid())
	assert.False(t, dev.Partition2IsValid())
	assert.False(t, dev.Partition3IsValid())
}

func TestModulesEndToEnd(t *testing.T) {
	im := newInfoImage(512)
	im.setFlags(types.InfoFlagModules)

	nameAddr := im.place(300, []byte("initrd.img\x00"))

	table := make([]byte, types.ModuleEntryLen)
	binary.LittleEndian.PutUint32(table[0:4], 0x400000)
	binary.LittleEndian.PutUint32(table[4:8], 0x500000)
	binary.LittleEndian.PutUint32(table[8:12], uint32(nameAddr))
	tableAddr := im.place(160, table)

	im.putUint32(20, 1) // mods_count
	im.putUint32(24, uint32(tableAddr))

	ir := im.reader(t)

	iter, ok := ir.Modules()
	require.True(t, ok)

	mod, ok := iter.Next()
	require.True(t, ok)
	assert.Equal(t, types.PAddr(0x400000), mod.Start)
	assert.Equal(t, types.PAddr(0x500000), mod.End)
	assert.Greater(t, mod.End, mod.Start)
	require.True(t, mod.HasName)
	assert.Equal(t, "initrd.img", mod.Name)

	_, ok = iter.Next()
	assert.False(t, ok)
}

func TestSymbolsBothBitsMalformed(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(types.InfoFlagAOutSymbols | types.InfoFlagElfSymbols)
	im.putUint32(28, 24)
	im.putUint32(32, 40)

	ir := im.reader(t)
	_, ok := ir.Symbols()
	assert.False(t, ok, "both selector bits set must report absent, not guess")
	_, ok = ir.ElfSections()
	assert.False(t, ok)
}

func TestVBEAndFramebuffer(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(types.InfoFlagVBE | types.InfoFlagFramebuffer)
	im.putUint32(72, 0x9000)              // vbe_control_info
	im.putUint32(76, 0x9200)              // vbe_mode_info
	im.data[80], im.data[81] = 0x18, 0x41 // vbe_mode 0x4118

	binary.LittleEndian.PutUint64(im.data[88:96], 0xFD000000) // framebuffer_addr
	im.putUint32(96, 1024*4)                                  // pitch
	im.putUint32(100, 1024)                                   // width
	im.putUint32(104, 768)                                    // height
	im.data[108] = 32                                         // bpp
	im.data[109] = types.FramebufferTypeRGB
	im.data[110], im.data[111] = 16, 8 // red position/size
	im.data[112], im.data[113] = 8, 8  // green position/size
	im.data[114], im.data[115] = 0, 8  // blue position/size

	ir := im.reader(t)

	vbe, ok := ir.VBE()
	require.True(t, ok)
	assert.Equal(t, uint16(0x4118), vbe.Mode)

	fb, ok := ir.Framebuffer()
	require.True(t, ok)
	assert.Equal(t, uint64(0xFD000000), fb.Addr)
	assert.Equal(t, uint32(1024), fb.Width)

	rgb, ok := fb.RGBInfo()
	require.True(t, ok)
	assert.Equal(t, uint8(16), rgb.RedFieldPosition)
	assert.Equal(t, uint8(8), rgb.BlueMaskSize)

	_, ok = fb.PaletteInfo()
	assert.False(t, ok, "RGB framebuffer has no palette info")
}

func TestHighestAddress(t *testing.T) {
	im := newInfoImage(1024)
	im.setFlags(types.InfoFlagCmdLine | types.InfoFlagModules)

	cmdAddr := im.place(400, []byte("quiet\x00"))
	im.putUint32(16, uint32(cmdAddr))

	nameAddr := im.place(420, []byte("mod\x00"))
	table := make([]byte, types.ModuleEntryLen)
	binary.LittleEndian.PutUint32(table[0:4], 0x400000)
	binary.LittleEndian.PutUint32(table[4:8], 0x500000)
	binary.LittleEndian.PutUint32(table[8:12], uint32(nameAddr))
	tableAddr := im.place(440, table)
	im.putUint32(20, 1)
	im.putUint32(24, uint32(tableAddr))

	ir := im.reader(t)

	// The module blob at [0x400000, 0x500000) dominates every other
	// reference; 0x500000 is already page aligned.
	assert.Equal(t, types.PAddr(0x500000), ir.HighestAddress())
}

func TestHighestAddressEmpty(t *testing.T) {
	im := newInfoImage(types.InfoSize)
	im.setFlags(0)
	ir := im.reader(t)
	assert.Equal(t, types.PAddr(0), ir.HighestAddress())
}
