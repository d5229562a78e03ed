// Get command: fetch one entity by id or slug.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <type> <id-or-slug>",
	Short: "Get an entity by id or slug",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	entityType := args[0]
	if !types.CatalogType(entityType) {
		return fmt.Errorf("unknown entity type %q (valid: %s)", entityType, catalogTypesStr)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	a := newActions(backend)
	ctx := context.Background()

	res := a.GetEntity(ctx, types.EntityRef{Type: entityType, ID: args[1]})
	if !res.Success && res.Code == types.CodeNotFound {
		// Fall back to slug lookup.
		res = a.GetEntityBySlug(ctx, entityType, args[1])
	}
	return emit(res)
}
