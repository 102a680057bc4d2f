package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-multiboot/internal/memory"
	"github.com/deploymenttheory/go-multiboot/pkg/multiboot"
)

var (
	// Dump interpretation flags shared by info, memmap and modules.
	infoAddr    uint64
	baseAddress uint64
)

func addDumpFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&infoAddr, "addr", 0, "physical address of the boot information structure (EBX value)")
	cmd.Flags().Uint64Var(&baseAddress, "base", 0, "physical address of the first dump byte (overrides config)")
	cmd.MarkFlagRequired("addr")
}

// openBootInfo opens the dump file and decodes the boot information at --addr.
// The returned close function releases the dump file; iterators derived from
// the facade must not outlive it.
func openBootInfo(cmd *cobra.Command, dumpPath string) (*multiboot.Multiboot, func() error, error) {
	config, err := memory.LoadDumpConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("base") {
		config.BaseAddress = baseAddress
	}
	logger.Debugw("opening dump", "path", dumpPath, "base", config.BaseAddress, "addr", infoAddr)

	dev, err := memory.OpenDump(dumpPath, config)
	if err != nil {
		return nil, nil, err
	}

	mb, err := multiboot.FromAddr(dev, multiboot.PAddr(infoAddr))
	if err != nil {
		dev.Close()
		return nil, nil, fmt.Errorf("failed to decode boot information at %#x: %w", infoAddr, err)
	}
	return mb, dev.Close, nil
}

// emitJSON prints a report as indented JSON with a unique report ID.
func emitJSON(kind string, payload any) error {
	report := struct {
		ReportID string `json:"report_id"`
		Kind     string `json:"kind"`
		Data     any    `json:"data"`
	}{
		ReportID: uuid.New().String(),
		Kind:     kind,
		Data:     payload,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
