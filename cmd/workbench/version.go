// Version command for the workbench CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/pkg/workbench"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("workbench", workbench.Version)
	},
}
