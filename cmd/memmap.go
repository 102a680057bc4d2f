package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var memmapUsableOnly bool

var memmapCmd = &cobra.Command{
	Use:   "memmap [dump-path]",
	Short: "Walk the BIOS-provided memory map",
	Long: `Walk the memory map records of the boot information structure and
print each region with its base, length and classification.

Examples:
  # All regions
  go-multiboot memmap mem.dump --addr 0x9500

  # Only regions usable as RAM, as JSON
  go-multiboot memmap mem.dump --addr 0x9500 --usable -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMemmap(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(memmapCmd)
	addDumpFlags(memmapCmd)
	memmapCmd.Flags().BoolVar(&memmapUsableOnly, "usable", false, "only show regions usable as RAM")
}

type memmapRow struct {
	Base    string `json:"base"`
	End     string `json:"end"`
	Length  uint64 `json:"length"`
	Type    string `json:"type"`
	RawType uint32 `json:"raw_type"`
}

func runMemmap(cmd *cobra.Command, dumpPath string) error {
	mb, closeDump, err := openBootInfo(cmd, dumpPath)
	if err != nil {
		return err
	}
	defer closeDump()

	regions, ok := mb.MemoryRegions()
	if !ok {
		return fmt.Errorf("boot information carries no memory map")
	}

	var rows []memmapRow
	var usable uint64
	for {
		region, ok := regions.Next()
		if !ok {
			break
		}
		if memmapUsableOnly && !region.IsUsable() {
			continue
		}
		if region.IsUsable() {
			usable += region.Length
		}
		rows = append(rows, memmapRow{
			Base:    fmt.Sprintf("%#x", region.BaseAddr),
			End:     fmt.Sprintf("%#x", region.EndAddr()),
			Length:  region.Length,
			Type:    region.Type.String(),
			RawType: region.RawType,
		})
	}

	if outputFormat == "json" {
		return emitJSON("memmap", struct {
			Regions     []memmapRow `json:"regions"`
			UsableBytes uint64      `json:"usable_bytes"`
		}{Regions: rows, UsableBytes: usable})
	}

	fmt.Printf("%-14s %-14s %-12s %s\n", "BASE", "END", "LENGTH", "TYPE")
	for _, row := range rows {
		fmt.Printf("%-14s %-14s %-12d %s\n", row.Base, row.End, row.Length, row.Type)
	}
	fmt.Printf("\nUsable RAM: %d bytes (%d MiB)\n", usable, usable/(1024*1024))
	return nil
}
