// Journey stage and touchpoint ordering actions.
package actions

import (
	"context"

	"github.com/venturelab/workbench/pkg/types"
)

// ReorderJourneyStages rewrites a journey's stage order to match orderedIDs.
func (a *Actions) ReorderJourneyStages(ctx context.Context, journeyID string, orderedIDs []string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.journeys.ReorderStages(journeyID, orderedIDs); err != nil {
		return a.failFrom("reorder journey stages", err)
	}
	a.reval.Revalidate("/" + types.TypeUserJourney)
	return types.OK(nil)
}

// MoveJourneyStage shifts one stage by offset positions within its journey.
func (a *Actions) MoveJourneyStage(ctx context.Context, journeyID, stageID string, offset int) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.journeys.MoveStage(journeyID, stageID, offset); err != nil {
		return a.failFrom("move journey stage", err)
	}
	a.reval.Revalidate("/" + types.TypeUserJourney)
	return types.OK(nil)
}

// ReorderTouchpoints rewrites a stage's touchpoint order to match orderedIDs.
func (a *Actions) ReorderTouchpoints(ctx context.Context, stageID string, orderedIDs []string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.journeys.ReorderTouchpoints(stageID, orderedIDs); err != nil {
		return a.failFrom("reorder touchpoints", err)
	}
	a.reval.Revalidate("/" + types.TypeUserJourney)
	return types.OK(nil)
}

// MoveTouchpoint shifts one touchpoint by offset positions within its stage.
func (a *Actions) MoveTouchpoint(ctx context.Context, stageID, touchpointID string, offset int) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.journeys.MoveTouchpoint(stageID, touchpointID, offset); err != nil {
		return a.failFrom("move touchpoint", err)
	}
	a.reval.Revalidate("/" + types.TypeUserJourney)
	return types.OK(nil)
}
