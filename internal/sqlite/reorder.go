// Atomic sequence-reorder primitives. Each takes a parent id and the full
// ordered list of sibling ids, validates that the list is an exact
// permutation of the current siblings, and rewrites every sequence in one
// transaction. A mismatched id set rejects the whole call; no partial
// reordering is ever applied.
package sqlite

import (
	"fmt"

	"github.com/venturelab/workbench/pkg/types"
)

// ReorderStages rewrites the sequence of every stage in a journey to match
// the position of its id in orderedIDs (0-based). Returns
// ErrSequenceSetMismatch when orderedIDs is not a permutation of the
// journey's current stages.
func (b *Backend) ReorderStages(journeyID string, orderedIDs []string) error {
	if journeyID == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.reorderRows("stages", "stage_id", "journey_id", journeyID, orderedIDs)
}

// ReorderTouchpoints is the stage-scoped analogue of ReorderStages.
func (b *Backend) ReorderTouchpoints(stageID string, orderedIDs []string) error {
	if stageID == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.reorderRows("touchpoints", "touchpoint_id", "stage_id", stageID, orderedIDs)
}

// RenumberLinks rewrites each link's position to its index in orderedLinkIDs,
// in one transaction. Callers supply the full link set of one ordered
// relationship slot; validation that the set is complete happens upstream
// where the slot is known.
func (b *Backend) RenumberLinks(orderedLinkIDs []string) error {
	if len(orderedLinkIDs) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning link renumber: %w", err)
	}
	defer tx.Rollback()

	for i, id := range orderedLinkIDs {
		if _, err := tx.Exec("UPDATE links SET position = ? WHERE link_id = ?", i, id); err != nil {
			return fmt.Errorf("renumbering link: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing link renumber: %w", err)
	}
	return nil
}

// reorderRows performs the validated transactional renumber shared by the
// two public primitives. The caller must hold b.mu.
func (b *Backend) reorderRows(tableName, idCol, parentCol, parentID string, orderedIDs []string) error {
	rows, err := b.db.Query(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", idCol, tableName, parentCol), parentID)
	if err != nil {
		return fmt.Errorf("reading %s for reorder: %w", tableName, err)
	}
	defer rows.Close()

	current := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning %s for reorder: %w", tableName, err)
		}
		current[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// The supplied list must be exactly the current sibling set: same
	// length, no unknown ids, no repeats.
	if len(orderedIDs) != len(current) {
		return types.ErrSequenceSetMismatch
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !current[id] || seen[id] {
			return types.ErrSequenceSetMismatch
		}
		seen[id] = true
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reorder transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf("UPDATE %s SET sequence = ? WHERE %s = ?", tableName, idCol)
	for i, id := range orderedIDs {
		if _, err := tx.Exec(stmt, i, id); err != nil {
			return fmt.Errorf("renumbering %s row: %w", tableName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}
