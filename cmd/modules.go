package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [dump-path]",
	Short: "List the boot modules",
	Long: `List the boot modules the loader placed in memory alongside the
kernel, with their physical ranges and associated strings.

Examples:
  go-multiboot modules mem.dump --addr 0x9500
  go-multiboot modules mem.dump --addr 0x9500 -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModules(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
	addDumpFlags(modulesCmd)
}

type moduleRow struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length uint64 `json:"length"`
	Name   string `json:"name,omitempty"`
}

func runModules(cmd *cobra.Command, dumpPath string) error {
	mb, closeDump, err := openBootInfo(cmd, dumpPath)
	if err != nil {
		return err
	}
	defer closeDump()

	mods, ok := mb.Modules()
	if !ok {
		return fmt.Errorf("boot information carries no module table")
	}

	var rows []moduleRow
	for {
		mod, ok := mods.Next()
		if !ok {
			break
		}
		row := moduleRow{
			Start:  fmt.Sprintf("%#x", mod.Start),
			End:    fmt.Sprintf("%#x", mod.End),
			Length: mod.Length(),
		}
		if mod.HasName {
			row.Name = mod.Name
		}
		rows = append(rows, row)
	}

	if outputFormat == "json" {
		return emitJSON("modules", rows)
	}

	if len(rows) == 0 {
		fmt.Println("No modules loaded.")
		return nil
	}
	fmt.Printf("%-14s %-14s %-12s %s\n", "START", "END", "LENGTH", "NAME")
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%-14s %-14s %-12d %s\n", row.Start, row.End, row.Length, name)
	}
	return nil
}
