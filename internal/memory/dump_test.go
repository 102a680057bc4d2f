package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
)

func writeDump(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mem.dump")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDumpDeviceRead(t *testing.T) {
	path := writeDump(t, []byte("multiboot dump contents"))

	dev, err := OpenDump(path, &DumpConfig{BaseAddress: 0x9000})
	require.NoError(t, err)
	defer dev.Close()

	assert.Equal(t, int64(23), dev.Size())

	got, err := dev.Read(0x9000, 9)
	require.NoError(t, err)
	assert.Equal(t, "multiboot", string(got))

	got, err = dev.Read(0x900A, 4)
	require.NoError(t, err)
	assert.Equal(t, "dump", string(got))
}

func TestDumpDeviceReadOutOfRange(t *testing.T) {
	path := writeDump(t, make([]byte, 64))

	dev, err := OpenDump(path, &DumpConfig{BaseAddress: 0x9000})
	require.NoError(t, err)
	defer dev.Close()

	_, err = dev.Read(0x8FFF, 4)
	assert.True(t, errors.Is(err, interfaces.ErrUnmapped))

	_, err = dev.Read(0x9000+60, 8)
	assert.True(t, errors.Is(err, interfaces.ErrUnmapped))
}

func TestDumpDeviceReadCapped(t *testing.T) {
	path := writeDump(t, make([]byte, 64))

	dev, err := OpenDump(path, &DumpConfig{BaseAddress: 0, MaxReadLength: 16})
	require.NoError(t, err)
	defer dev.Close()

	_, err = dev.Read(0, 32)
	assert.True(t, errors.Is(err, interfaces.ErrUnmapped))
}

func TestDumpDeviceIsReadOnly(t *testing.T) {
	path := writeDump(t, make([]byte, 16))

	dev, err := OpenDump(path, &DumpConfig{})
	require.NoError(t, err)
	defer dev.Close()

	_, _, err = dev.Allocate(8)
	assert.True(t, errors.Is(err, interfaces.ErrAllocationFailed))
}

func TestOpenDumpMissingFile(t *testing.T) {
	_, err := OpenDump(filepath.Join(t.TempDir(), "absent.dump"), &DumpConfig{})
	require.Error(t, err)
}
