package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"metahealth/internal/scan"
)

var scanFlags struct {
	inputDir string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the .jsonl.gz data files a process run would read",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFlags.inputDir, "input", "i", "data", "Directory walked for .jsonl.gz data files")
}

func runScan(cmd *cobra.Command, args []string) error {
	files, err := scan.Discover(scanFlags.inputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d file(s)\n", len(files))
	return nil
}
