// Package header locates and decodes the Multiboot header inside an OS
// image, the way a bootloader would before deciding how to load it.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-multiboot/internal/interfaces"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// ErrHeaderNotFound reports that no valid Multiboot header exists within the
// searched region of the image.
var ErrHeaderNotFound = errors.New("multiboot header not found")

// headerReader implements the HeaderReader interface
type headerReader struct {
	header      types.HeaderT
	headerStart uint32
}

// NewHeaderReader scans the first 8192 bytes of an OS image for a Multiboot
// header: the magic must sit on a 32-bit boundary and the magic, flags and
// checksum must sum to zero. A magic word with a bad checksum is skipped,
// not rejected; the scan continues at the next aligned word.
func NewHeaderReader(image []byte) (interfaces.HeaderReader, error) {
	searchLen := len(image)
	if searchLen > types.HeaderSearchLen {
		searchLen = types.HeaderSearchLen
	}

	for offset := 0; offset+4 <= searchLen; offset += 4 {
		if binary.LittleEndian.Uint32(image[offset:offset+4]) != types.HeaderMagic {
			continue
		}
		hdr, err := parseHeader(image[offset:])
		if err != nil {
			continue
		}
		if !hdr.ChecksumValid() {
			continue
		}
		return &headerReader{header: hdr, headerStart: uint32(offset)}, nil
	}
	return nil, ErrHeaderNotFound
}

// parseHeader decodes the full header layout starting at the magic word. A
// header that starts near the end of the image is zero-padded: the optional
// fields are gated by flag bits, so padding never fabricates data.
func parseHeader(data []byte) (types.HeaderT, error) {
	if len(data) < 12 {
		return types.HeaderT{}, fmt.Errorf("only %d bytes after magic, need the mandatory 12", len(data))
	}
	buf := make([]byte, types.HeaderLen)
	copy(buf, data)

	return types.HeaderT{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Flags:    binary.LittleEndian.Uint32(buf[4:8]),
		Checksum: binary.LittleEndian.Uint32(buf[8:12]),
		Addresses: types.HeaderAddressesT{
			HeaderAddr:  binary.LittleEndian.Uint32(buf[12:16]),
			LoadAddr:    binary.LittleEndian.Uint32(buf[16:20]),
			LoadEndAddr: binary.LittleEndian.Uint32(buf[20:24]),
			BSSEndAddr:  binary.LittleEndian.Uint32(buf[24:28]),
			EntryAddr:   binary.LittleEndian.Uint32(buf[28:32]),
		},
		VideoMode: types.VideoModeT{
			ModeType: binary.LittleEndian.Uint32(buf[32:36]),
			Width:    binary.LittleEndian.Uint32(buf[36:40]),
			Height:   binary.LittleEndian.Uint32(buf[40:44]),
			Depth:    binary.LittleEndian.Uint32(buf[44:48]),
		},
	}, nil
}

func (hr *headerReader) HeaderStart() uint32 {
	return hr.headerStart
}

func (hr *headerReader) Flags() uint32 {
	return hr.header.Flags
}

func (hr *headerReader) WantsModulesPageAligned() bool {
	return hr.header.Flags&types.HeaderFlagPageAlign != 0
}

func (hr *headerReader) WantsMemoryInformation() bool {
	return hr.header.Flags&types.HeaderFlagMemoryInfo != 0
}

func (hr *headerReader) WantsVideoMode() bool {
	return hr.header.Flags&types.HeaderFlagVideoMode != 0
}

// Addresses returns the load addresses. Absent means the image must be
// loaded as an ELF instead. A descriptor whose load_addr exceeds header_addr
// cannot be located in the file and is reported absent as well.
func (hr *headerReader) Addresses() (types.HeaderAddressesT, bool) {
	if hr.header.Flags&types.HeaderFlagAddresses == 0 {
		return types.HeaderAddressesT{}, false
	}
	if hr.header.Addresses.LoadAddr > hr.header.Addresses.HeaderAddr {
		return types.HeaderAddressesT{}, false
	}
	return hr.header.Addresses, true
}

func (hr *headerReader) VideoMode() (types.VideoModeT, bool) {
	if hr.header.Flags&types.HeaderFlagVideoMode == 0 {
		return types.VideoModeT{}, false
	}
	return hr.header.VideoMode, true
}
