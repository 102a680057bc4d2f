package multiboot

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-multiboot/internal/memory"
)

func TestFacadeEndToEnd(t *testing.T) {
	arena := memory.NewArena(0x9500, 8192)

	addr, err := NewBuilder().
		SetMemoryBounds(640, 65536).
		SetCommandLine("root=/dev/sda1 quiet").
		SetBootLoaderName("GNU GRUB 0.97").
		AddModule(BuilderModule{Start: 0x400000, End: 0x480000, Name: "initrd.img"}).
		AddMemoryRegion(0x0, 0x9F000, MemoryAvailable).
		AddMemoryRegion(0xF0000, 0x10000, MemoryReserved).
		AddMemoryRegion(0x100000, 0x7F00000, MemoryAvailable).
		Build(arena)
	require.NoError(t, err)

	mb, err := FromAddr(arena, addr)
	require.NoError(t, err)

	lower, ok := mb.LowerMemoryBound()
	require.True(t, ok)
	assert.Equal(t, uint32(640), lower)

	cmdline, ok := mb.CommandLine()
	require.True(t, ok)
	assert.Equal(t, "root=/dev/sda1 quiet", cmdline)

	name, ok := mb.BootLoaderName()
	require.True(t, ok)
	assert.Equal(t, "GNU GRUB 0.97", name)

	var usable uint64
	regions, ok := mb.MemoryRegions()
	require.True(t, ok)
	count := 0
	for {
		region, ok := regions.Next()
		if !ok {
			break
		}
		count++
		if region.IsUsable() {
			usable += region.Length
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, uint64(0x9F000+0x7F00000), usable)

	mods, ok := mb.Modules()
	require.True(t, ok)
	mod, ok := mods.Next()
	require.True(t, ok)
	assert.Equal(t, "initrd.img", mod.Name)

	// Groups the builder never set are absent.
	_, ok = mb.BootDevice()
	assert.False(t, ok)
	_, ok = mb.Symbols()
	assert.False(t, ok)
	_, ok = mb.Framebuffer()
	assert.False(t, ok)

	// The module blob end dominates the references the builder emitted.
	assert.Equal(t, PAddr(0x480000), mb.HighestAddress())
}

func TestFromAddrUnmapped(t *testing.T) {
	mem := memory.NewBufferMemory(0x9500, make([]byte, 32))
	mb, err := FromAddr(mem, 0x9500)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmapped))
	assert.Nil(t, mb)
}

func TestScanImageHeader(t *testing.T) {
	image := make([]byte, 4096)
	flags := uint32(0x3)
	binary.LittleEndian.PutUint32(image[16:], 0x1BADB002)
	binary.LittleEndian.PutUint32(image[20:], flags)
	binary.LittleEndian.PutUint32(image[24:], -(0x1BADB002 + flags))

	hr, err := ScanImageHeader(image)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), hr.HeaderStart())
	assert.True(t, hr.WantsModulesPageAligned())
	assert.True(t, hr.WantsMemoryInformation())

	_, err = ScanImageHeader(make([]byte, 512))
	assert.True(t, errors.Is(err, ErrHeaderNotFound))
}
