// Create command: new entity with optional buffered relationships.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/internal/actions"
	"github.com/venturelab/workbench/internal/relate"
	"github.com/venturelab/workbench/pkg/types"
)

var (
	createSummary string
	createStatus  string
	createFields  []string
	createLinks   []string
)

var createCmd = &cobra.Command{
	Use:   "create <type> <title>",
	Short: "Create an entity",
	Long: `Create persists a new entity and optionally links it in one step.

Repeated --field flags set type-specific values. Repeated --link flags buffer
relationships that are synced right after the entity gets its id, exactly as
the create form does it.

Example:
  workbench create assumption "Users will pay monthly"
  workbench create hypothesis "Monthly beats annual" \
    --link tests:assumption:3f8a... --field metric=conversion`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createSummary, "summary", "", "free-text summary")
	createCmd.Flags().StringVar(&createStatus, "status", "", "initial status (default: draft)")
	createCmd.Flags().StringArrayVar(&createFields, "field", nil, "type-specific field as key=value (repeatable)")
	createCmd.Flags().StringArrayVar(&createLinks, "link", nil, "buffered link as link_type:target_type:target_id (repeatable)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	entityType := args[0]
	if !types.CatalogType(entityType) {
		return fmt.Errorf("unknown entity type %q (valid: %s)", entityType, catalogTypesStr)
	}

	fields, err := parseFields(createFields)
	if err != nil {
		return err
	}

	var buf relate.PendingBuffer
	for _, spec := range createLinks {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			return fmt.Errorf("invalid link %q (expected link_type:target_type:target_id)", spec)
		}
		if err := buf.AddLink(types.PendingLink{
			LinkType:   parts[0],
			TargetType: parts[1],
			TargetID:   parts[2],
		}); err != nil {
			return fmt.Errorf("invalid link %q: %w", spec, err)
		}
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	res := newActions(backend).CreateEntity(context.Background(), actions.CreateEntityInput{
		EntityType: entityType,
		Title:      args[1],
		Summary:    createSummary,
		Status:     createStatus,
		Fields:     fields,
		Pending:    &buf,
	})
	return emit(res)
}
