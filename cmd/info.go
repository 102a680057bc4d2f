package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-multiboot/pkg/multiboot"
)

var infoCmd = &cobra.Command{
	Use:   "info [dump-path]",
	Short: "Decode the full boot information structure",
	Long: `Decode every field group of the Multiboot v1 boot information
structure present in a raw memory dump.

Examples:
  # Decode a QEMU pmemsave dump, structure handed over at 0x9500
  go-multiboot info mem.dump --addr 0x9500

  # Dump captured from a window starting above zero
  go-multiboot info mem.dump --addr 0x10500 --base 0x10000 -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addDumpFlags(infoCmd)
}

type infoReport struct {
	Flags          string  `json:"flags"`
	LowerMemoryKB  *uint32 `json:"lower_memory_kb,omitempty"`
	UpperMemoryKB  *uint32 `json:"upper_memory_kb,omitempty"`
	BootDrive      *string `json:"boot_drive,omitempty"`
	CommandLine    *string `json:"command_line,omitempty"`
	BootLoaderName *string `json:"boot_loader_name,omitempty"`
	ModuleCount    *int    `json:"module_count,omitempty"`
	MemoryRegions  *int    `json:"memory_regions,omitempty"`
	SymbolKind     *string `json:"symbol_kind,omitempty"`
	Framebuffer    *string `json:"framebuffer,omitempty"`
	HighestAddress string  `json:"highest_address"`
}

func runInfo(cmd *cobra.Command, dumpPath string) error {
	mb, closeDump, err := openBootInfo(cmd, dumpPath)
	if err != nil {
		return err
	}
	defer closeDump()

	report := infoReport{
		Flags:          fmt.Sprintf("%#x", mb.Flags()),
		HighestAddress: fmt.Sprintf("%#x", mb.HighestAddress()),
	}

	if lower, ok := mb.LowerMemoryBound(); ok {
		report.LowerMemoryKB = &lower
	}
	if upper, ok := mb.UpperMemoryBound(); ok {
		report.UpperMemoryKB = &upper
	}
	if dev, ok := mb.BootDevice(); ok {
		drive := fmt.Sprintf("%#02x", dev.Drive)
		report.BootDrive = &drive
	}
	if cmdline, ok := mb.CommandLine(); ok {
		report.CommandLine = &cmdline
	}
	if name, ok := mb.BootLoaderName(); ok {
		report.BootLoaderName = &name
	}
	if mods, ok := mb.Modules(); ok {
		count := 0
		for {
			if _, ok := mods.Next(); !ok {
				break
			}
			count++
		}
		report.ModuleCount = &count
	}
	if regions, ok := mb.MemoryRegions(); ok {
		count := 0
		for {
			if _, ok := regions.Next(); !ok {
				break
			}
			count++
		}
		report.MemoryRegions = &count
	}
	if table, ok := mb.Symbols(); ok {
		kind := "a.out"
		if table.Kind == multiboot.SymbolTableElf {
			kind = "ELF"
		}
		report.SymbolKind = &kind
	}
	if fb, ok := mb.Framebuffer(); ok {
		desc := fmt.Sprintf("%dx%d %dbpp at %#x", fb.Width, fb.Height, fb.BPP, fb.Addr)
		report.Framebuffer = &desc
	}

	if outputFormat == "json" {
		return emitJSON("info", report)
	}

	fmt.Printf("Boot information at %#x (flags %s)\n", infoAddr, report.Flags)
	if report.LowerMemoryKB != nil {
		fmt.Printf("  Lower memory:     %d KB\n", *report.LowerMemoryKB)
	}
	if report.UpperMemoryKB != nil {
		fmt.Printf("  Upper memory:     %d KB\n", *report.UpperMemoryKB)
	}
	if report.BootDrive != nil {
		fmt.Printf("  Boot drive:       %s\n", *report.BootDrive)
	}
	if report.CommandLine != nil {
		fmt.Printf("  Command line:     %q\n", *report.CommandLine)
	}
	if report.BootLoaderName != nil {
		fmt.Printf("  Boot loader:      %q\n", *report.BootLoaderName)
	}
	if report.ModuleCount != nil {
		fmt.Printf("  Modules:          %d\n", *report.ModuleCount)
	}
	if report.MemoryRegions != nil {
		fmt.Printf("  Memory regions:   %d\n", *report.MemoryRegions)
	}
	if report.SymbolKind != nil {
		fmt.Printf("  Symbols:          %s\n", *report.SymbolKind)
	}
	if report.Framebuffer != nil {
		fmt.Printf("  Framebuffer:      %s\n", *report.Framebuffer)
	}
	fmt.Printf("  Highest address:  %s\n", report.HighestAddress)
	return nil
}
