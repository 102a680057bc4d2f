package info

import (
	"github.com/deploymenttheory/go-multiboot/internal/multiboot/symbols"
	"github.com/deploymenttheory/go-multiboot/internal/types"
)

// pageSize is the granularity HighestAddress rounds up to.
const pageSize = 4096

// HighestAddress returns the first page-aligned physical address past
// everything the boot information references: the strings, the symbol
// tables, the memory map and drives buffers, the module table and the
// modules themselves. Kernels use this as a safe lower bound when picking
// memory for their first allocator. Only field groups whose flag bit is set
// contribute.
func (ir *infoReader) HighestAddress() types.PAddr {
	var end types.PAddr

	if cmdline, ok := ir.CommandLine(); ok {
		end = max(end, types.PAddr(ir.info.CmdLine)+types.PAddr(len(cmdline))+1)
	}
	if name, ok := ir.BootLoaderName(); ok {
		end = max(end, types.PAddr(ir.info.BootLoaderName)+types.PAddr(len(name))+1)
	}
	if table, ok := ir.Symbols(); ok {
		end = max(end, symbols.HighestAddress(table))
	}
	if ir.hasFlag(types.InfoFlagMemoryMap) {
		end = max(end, types.PAddr(ir.info.MmapAddr)+types.PAddr(ir.info.MmapLength))
	}
	if ir.hasFlag(types.InfoFlagDrives) {
		end = max(end, types.PAddr(ir.info.DrivesAddr)+types.PAddr(ir.info.DrivesLength))
	}
	if ir.hasFlag(types.InfoFlagModules) {
		end = max(end, types.PAddr(ir.info.ModsAddr)+types.PAddr(ir.info.ModsCount)*types.ModuleEntryLen)
		if iter, ok := ir.Modules(); ok {
			for {
				mod, ok := iter.Next()
				if !ok {
					break
				}
				end = max(end, mod.End)
			}
		}
	}

	return (end + pageSize - 1) &^ (pageSize - 1)
}

func max(a, b types.PAddr) types.PAddr {
	if a > b {
		return a
	}
	return b
}
