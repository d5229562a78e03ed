// Export command: JSONL dump of every table.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export every table as JSONL files",
	Long: `Export writes one <table>.jsonl file per table into the given directory,
using atomic writes, for backups and git-friendly diffing.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	counts, err := backend.Export(args[0])
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if flagJSON {
		out, err := json.MarshalIndent(counts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	for table, n := range counts {
		fmt.Printf("%s: %d records\n", table, n)
	}
	return nil
}
