// Reorder commands: journey stages and stage touchpoints.
package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder",
	Short: "Reorder journey stages and touchpoints",
}

var reorderStagesCmd = &cobra.Command{
	Use:   "stages <journey_id> <stage_id...>",
	Short: "Rewrite a journey's stage order",
	Long: `The stage ids must be exactly the journey's current stages in the desired
order; anything else is rejected without writing.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReorderStages,
}

var moveStageCmd = &cobra.Command{
	Use:   "move-stage <journey_id> <stage_id> <offset>",
	Short: "Shift one stage by a relative offset (-1 up, +1 down)",
	Args:  cobra.ExactArgs(3),
	RunE:  runMoveStage,
}

var reorderTouchpointsCmd = &cobra.Command{
	Use:   "touchpoints <stage_id> <touchpoint_id...>",
	Short: "Rewrite a stage's touchpoint order",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runReorderTouchpoints,
}

func init() {
	reorderCmd.AddCommand(reorderStagesCmd)
	reorderCmd.AddCommand(moveStageCmd)
	reorderCmd.AddCommand(reorderTouchpointsCmd)
}

func runReorderStages(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).ReorderJourneyStages(context.Background(), args[0], args[1:]))
}

func runMoveStage(cmd *cobra.Command, args []string) error {
	offset, err := strconv.Atoi(args[2])
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).MoveJourneyStage(context.Background(), args[0], args[1], offset))
}

func runReorderTouchpoints(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).ReorderTouchpoints(context.Background(), args[0], args[1:]))
}
