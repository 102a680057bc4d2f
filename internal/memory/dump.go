package memory

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// DumpDevice provides read-only physical memory access backed by a raw
// memory dump file, e.g. one produced with QEMU's pmemsave. The file
// contents are mapped starting at a configurable base physical address.
type DumpDevice struct {
	file *os.File
	size int64
	base types.PAddr

	maxRead uint32
}

// DumpConfig holds configuration for dump file handling
type DumpConfig struct {
	// BaseAddress is the physical address of the first byte of the dump.
	BaseAddress uint64 `mapstructure:"base_address"`
	// MaxReadLength caps a single Read request; larger requests report
	// ErrUnmapped rather than buffering unbounded attacker-controlled
	// lengths.
	MaxReadLength uint32 `mapstructure:"max_read_length"`
}

// LoadDumpConfig loads dump handling configuration using Viper
func LoadDumpConfig() (*DumpConfig, error) {
	viper.SetConfigName("multiboot-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.go-multiboot")
	viper.AddConfigPath("/etc/go-multiboot")

	// Set defaults
	viper.SetDefault("base_address", 0)
	viper.SetDefault("max_read_length", 16*1024*1024)

	// Allow environment variables
	viper.SetEnvPrefix("MULTIBOOT")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config DumpConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// OpenDump opens a raw memory dump file.
func OpenDump(path string, config *DumpConfig) (*DumpDevice, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat dump file: %w", err)
	}

	maxRead := config.MaxReadLength
	if maxRead == 0 {
		maxRead = 16 * 1024 * 1024
	}

	return &DumpDevice{
		file:    file,
		size:    stat.Size(),
		base:    types.PAddr(config.BaseAddress),
		maxRead: maxRead,
	}, nil
}

// Read returns length bytes at the given physical address. Ranges outside
// the dump, oversized requests, and I/O failures all report ErrUnmapped;
// the decoder treats them uniformly as unreadable memory.
func (d *DumpDevice) Read(addr types.PAddr, length uint32) ([]byte, error) {
	if length > d.maxRead {
		return nil, fmt.Errorf("read of %d bytes exceeds configured cap %d: %w", length, d.maxRead, interfaces.ErrUnmapped)
	}
	if addr < d.base {
		return nil, fmt.Errorf("read at %#x below dump base %#x: %w", addr, d.base, interfaces.ErrUnmapped)
	}
	offset := int64(addr - d.base)
	if offset+int64(length) > d.size {
		return nil, fmt.Errorf("read of %d bytes at %#x past dump end: %w", length, addr, interfaces.ErrUnmapped)
	}

	buf := make([]byte, length)
	if _, err := d.file.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("dump read at %#x: %w", addr, interfaces.ErrUnmapped)
	}
	return buf, nil
}

// Allocate is unsupported; dump files are read-only.
func (d *DumpDevice) Allocate(length uint32) (types.PAddr, []byte, error) {
	return 0, nil, interfaces.ErrAllocationFailed
}

// Deallocate is unsupported; dump files are read-only.
func (d *DumpDevice) Deallocate(addr types.PAddr) error {
	return nil
}

// Size returns the dump size in bytes.
func (d *DumpDevice) Size() int64 {
	return d.size
}

// Base returns the physical address of the first dump byte.
func (d *DumpDevice) Base() types.PAddr {
	return d.base
}

// Close closes the underlying file.
func (d *DumpDevice) Close() error {
	return d.file.Close()
}

var _ interfaces.PhysicalMemory = (*DumpDevice)(nil)
