// Journey ordering operations. Full reorders delegate to the backend's
// validated atomic primitives; single-step moves are computed here from a
// fresh read and applied through the same primitives, so an out-of-range
// move never writes anything.
package relate

import (
	"fmt"

	"github.com/venturelab/workbench/pkg/types"
)

// Journeys coordinates stage and touchpoint ordering.
type Journeys struct {
	store Store
}

// NewJourneys returns a Journeys coordinator backed by store.
func NewJourneys(store Store) *Journeys {
	return &Journeys{store: store}
}

// ReorderStages rewrites a journey's stage order to match orderedIDs.
func (j *Journeys) ReorderStages(journeyID string, orderedIDs []string) error {
	return j.store.ReorderStages(journeyID, orderedIDs)
}

// ReorderTouchpoints rewrites a stage's touchpoint order to match orderedIDs.
func (j *Journeys) ReorderTouchpoints(stageID string, orderedIDs []string) error {
	return j.store.ReorderTouchpoints(stageID, orderedIDs)
}

// MoveStage shifts one stage by offset positions within its journey
// (offset -1 moves it up, +1 down). A move that would land outside the
// sibling range fails with ErrMoveOutOfRange and writes nothing.
func (j *Journeys) MoveStage(journeyID, stageID string, offset int) error {
	ids, err := j.stageOrder(journeyID)
	if err != nil {
		return err
	}
	moved, err := shift(ids, stageID, offset)
	if err != nil {
		return err
	}
	if moved == nil {
		return nil
	}
	return j.store.ReorderStages(journeyID, moved)
}

// MoveTouchpoint is the stage-scoped analogue of MoveStage.
func (j *Journeys) MoveTouchpoint(stageID, touchpointID string, offset int) error {
	ids, err := j.touchpointOrder(stageID)
	if err != nil {
		return err
	}
	moved, err := shift(ids, touchpointID, offset)
	if err != nil {
		return err
	}
	if moved == nil {
		return nil
	}
	return j.store.ReorderTouchpoints(stageID, moved)
}

// stageOrder returns the journey's stage ids in current sequence order.
func (j *Journeys) stageOrder(journeyID string) ([]string, error) {
	tbl, err := j.store.GetTable(types.TableStages)
	if err != nil {
		return nil, err
	}
	records, err := tbl.Fetch(types.Filter{"journey_id": journeyID})
	if err != nil {
		return nil, fmt.Errorf("fetching stages: %w", err)
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.(*types.Stage).StageID
	}
	return ids, nil
}

// touchpointOrder returns the stage's touchpoint ids in current sequence
// order.
func (j *Journeys) touchpointOrder(stageID string) ([]string, error) {
	tbl, err := j.store.GetTable(types.TableTouchpoints)
	if err != nil {
		return nil, err
	}
	records, err := tbl.Fetch(types.Filter{"stage_id": stageID})
	if err != nil {
		return nil, fmt.Errorf("fetching touchpoints: %w", err)
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.(*types.Touchpoint).TouchpointID
	}
	return ids, nil
}

// shift returns a copy of ids with id moved by offset. Returns ErrNotFound
// when id is absent, ErrMoveOutOfRange when the destination falls outside
// the list, and (nil, nil) when offset is zero.
func shift(ids []string, id string, offset int) ([]string, error) {
	from := -1
	for i, v := range ids {
		if v == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, types.ErrNotFound
	}
	if offset == 0 {
		return nil, nil
	}
	to := from + offset
	if to < 0 || to >= len(ids) {
		return nil, types.ErrMoveOutOfRange
	}

	moved := make([]string, 0, len(ids))
	moved = append(moved, ids...)
	moved = append(moved[:from], moved[from+1:]...)
	moved = append(moved[:to], append([]string{id}, moved[to:]...)...)
	return moved, nil
}
