package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-multiboot/pkg/multiboot"
)

var headerCmd = &cobra.Command{
	Use:   "header [image-path]",
	Short: "Scan an OS image for its Multiboot header",
	Long: `Scan the first 8192 bytes of an OS image for a Multiboot v1 header
and print the loader requirements it declares.

Examples:
  go-multiboot header kernel.bin
  go-multiboot header kernel.bin -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHeader(args[0])
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}

type headerReport struct {
	Offset           uint32  `json:"offset"`
	Flags            string  `json:"flags"`
	PageAlignModules bool    `json:"page_align_modules"`
	WantsMemoryInfo  bool    `json:"wants_memory_info"`
	WantsVideoMode   bool    `json:"wants_video_mode"`
	LoadAddr         *string `json:"load_addr,omitempty"`
	EntryAddr        *string `json:"entry_addr,omitempty"`
}

func runHeader(imagePath string) error {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	logger.Debugw("scanning image", "path", imagePath, "bytes", len(image))

	hr, err := multiboot.ScanImageHeader(image)
	if err != nil {
		return err
	}

	report := headerReport{
		Offset:           hr.HeaderStart(),
		Flags:            fmt.Sprintf("%#x", hr.Flags()),
		PageAlignModules: hr.WantsModulesPageAligned(),
		WantsMemoryInfo:  hr.WantsMemoryInformation(),
		WantsVideoMode:   hr.WantsVideoMode(),
	}
	if addrs, ok := hr.Addresses(); ok {
		load := fmt.Sprintf("%#x", addrs.LoadAddr)
		entry := fmt.Sprintf("%#x", addrs.EntryAddr)
		report.LoadAddr = &load
		report.EntryAddr = &entry
	}

	if outputFormat == "json" {
		return emitJSON("header", report)
	}

	fmt.Printf("Multiboot header at offset %d (flags %s)\n", report.Offset, report.Flags)
	fmt.Printf("  Page-aligned modules:  %v\n", report.PageAlignModules)
	fmt.Printf("  Wants memory info:     %v\n", report.WantsMemoryInfo)
	fmt.Printf("  Wants video mode:      %v\n", report.WantsVideoMode)
	if report.LoadAddr != nil {
		fmt.Printf("  Load address:          %s\n", *report.LoadAddr)
		fmt.Printf("  Entry address:         %s\n", *report.EntryAddr)
	}
	return nil
}
