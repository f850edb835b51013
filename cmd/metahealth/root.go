package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "metahealth",
	Short: "Metadata completeness statistics for DataCite records",
	Long: "Metahealth aggregates metadata completeness statistics over DataCite\n" +
		"data files, per provider and per repository, and writes the snapshot\n" +
		"documents consumed by the metadata health API.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
