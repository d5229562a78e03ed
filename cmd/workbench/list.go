// List command: entities of one type, optionally narrowed by status.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/pkg/types"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List entities of one type",
	Long: `List queries entities of the given type, newest first.

Valid types: assumption, hypothesis, experiment, user_journey,
business_model_canvas, specimen, venture.

Example:
  workbench list assumption
  workbench list hypothesis --status validated`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
}

func runList(cmd *cobra.Command, args []string) error {
	entityType := args[0]
	if !types.CatalogType(entityType) {
		return fmt.Errorf("unknown entity type %q (valid: %s)", entityType, catalogTypesStr)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).ListEntities(context.Background(), entityType, listStatus))
}
