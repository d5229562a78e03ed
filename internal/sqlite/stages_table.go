// Stage and touchpoint table accessors. Sequences are 0-based and
// contiguous: creation appends, deletion renumbers the remaining siblings,
// and any other reordering goes through the Reorder* primitives.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/venturelab/workbench/pkg/types"
)

const stageColumns = "stage_id, journey_id, name, sequence, created_at, updated_at"

func (t *table) getStage(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+stageColumns+" FROM stages WHERE stage_id = ?", id)
	s, err := scanStage(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning stage: %w", err)
	}
	return s, nil
}

func scanStage(scan func(...any) error) (*types.Stage, error) {
	var s types.Stage
	var createdAt, updatedAt string
	if err := scan(&s.StageID, &s.JourneyID, &s.Name, &s.Sequence, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing stage created_at: %w", err)
	}
	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing stage updated_at: %w", err)
	}
	return &s, nil
}

func (t *table) setStage(id string, data any) (string, error) {
	s, ok := data.(*types.Stage)
	if !ok {
		return "", types.ErrInvalidData
	}
	if s.Name == "" {
		return "", types.ErrInvalidName
	}
	if s.JourneyID == "" {
		return "", types.ErrInvalidData
	}

	now := time.Now().UTC()
	isCreate := id == "" && s.StageID == ""
	if isCreate {
		s.StageID = newUUID()
		s.CreatedAt = now
		// Append: next sequence is the current sibling count.
		if err := t.backend.db.QueryRow(
			"SELECT COUNT(*) FROM stages WHERE journey_id = ?", s.JourneyID).Scan(&s.Sequence); err != nil {
			return "", fmt.Errorf("counting stages: %w", err)
		}
	} else if id != "" {
		s.StageID = id
	}
	s.UpdatedAt = now

	_, err := t.backend.db.Exec(`
		INSERT INTO stages (`+stageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(stage_id) DO UPDATE SET
			name = excluded.name,
			sequence = excluded.sequence,
			updated_at = excluded.updated_at`,
		s.StageID, s.JourneyID, s.Name, s.Sequence,
		s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting stage: %w", err)
	}
	return s.StageID, nil
}

func (t *table) deleteStage(id string) error {
	var journeyID string
	err := t.backend.db.QueryRow(
		"SELECT journey_id FROM stages WHERE stage_id = ?", id).Scan(&journeyID)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking stage: %w", err)
	}

	if _, err := t.backend.db.Exec(
		"DELETE FROM touchpoints WHERE stage_id = ?", id); err != nil {
		return fmt.Errorf("deleting stage touchpoints: %w", err)
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM stages WHERE stage_id = ?", id); err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return t.renumberStages(journeyID)
}

// renumberStages rewrites sibling sequences to be 0-based and contiguous,
// preserving the current order.
func (t *table) renumberStages(journeyID string) error {
	rows, err := t.backend.db.Query(
		"SELECT stage_id FROM stages WHERE journey_id = ? ORDER BY sequence", journeyID)
	if err != nil {
		return fmt.Errorf("reading stages for renumber: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return fmt.Errorf("scanning stage for renumber: %w", err)
		}
		ids = append(ids, sid)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, sid := range ids {
		if _, err := t.backend.db.Exec(
			"UPDATE stages SET sequence = ? WHERE stage_id = ?", i, sid); err != nil {
			return fmt.Errorf("renumbering stage: %w", err)
		}
	}
	return nil
}

// fetchStages queries stages ordered by sequence.
// Supported keys: journey_id.
func (t *table) fetchStages(filter types.Filter) ([]any, error) {
	query := "SELECT " + stageColumns + " FROM stages"
	var args []any

	journeyID, ok, err := filterString(filter, "journey_id")
	if err != nil {
		return nil, err
	}
	if ok {
		query += " WHERE journey_id = ?"
		args = append(args, journeyID)
	}
	query += " ORDER BY sequence"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching stages: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		s, err := scanStage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning stage: %w", err)
		}
		results = append(results, s)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

const touchpointColumns = "touchpoint_id, stage_id, name, channel, sequence, created_at, updated_at"

func (t *table) getTouchpoint(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+touchpointColumns+" FROM touchpoints WHERE touchpoint_id = ?", id)
	tp, err := scanTouchpoint(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning touchpoint: %w", err)
	}
	return tp, nil
}

func scanTouchpoint(scan func(...any) error) (*types.Touchpoint, error) {
	var tp types.Touchpoint
	var createdAt, updatedAt string
	if err := scan(&tp.TouchpointID, &tp.StageID, &tp.Name, &tp.Channel, &tp.Sequence, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	tp.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing touchpoint created_at: %w", err)
	}
	tp.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing touchpoint updated_at: %w", err)
	}
	return &tp, nil
}

func (t *table) setTouchpoint(id string, data any) (string, error) {
	tp, ok := data.(*types.Touchpoint)
	if !ok {
		return "", types.ErrInvalidData
	}
	if tp.Name == "" {
		return "", types.ErrInvalidName
	}
	if tp.StageID == "" {
		return "", types.ErrInvalidData
	}
	if !types.ValidChannel(tp.Channel) {
		return "", types.ErrInvalidChannel
	}

	now := time.Now().UTC()
	isCreate := id == "" && tp.TouchpointID == ""
	if isCreate {
		tp.TouchpointID = newUUID()
		tp.CreatedAt = now
		if err := t.backend.db.QueryRow(
			"SELECT COUNT(*) FROM touchpoints WHERE stage_id = ?", tp.StageID).Scan(&tp.Sequence); err != nil {
			return "", fmt.Errorf("counting touchpoints: %w", err)
		}
	} else if id != "" {
		tp.TouchpointID = id
	}
	tp.UpdatedAt = now

	_, err := t.backend.db.Exec(`
		INSERT INTO touchpoints (`+touchpointColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(touchpoint_id) DO UPDATE SET
			name = excluded.name,
			channel = excluded.channel,
			sequence = excluded.sequence,
			updated_at = excluded.updated_at`,
		tp.TouchpointID, tp.StageID, tp.Name, tp.Channel, tp.Sequence,
		tp.CreatedAt.Format(time.RFC3339), tp.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting touchpoint: %w", err)
	}
	return tp.TouchpointID, nil
}

func (t *table) deleteTouchpoint(id string) error {
	var stageID string
	err := t.backend.db.QueryRow(
		"SELECT stage_id FROM touchpoints WHERE touchpoint_id = ?", id).Scan(&stageID)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking touchpoint: %w", err)
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM touchpoints WHERE touchpoint_id = ?", id); err != nil {
		return fmt.Errorf("deleting touchpoint: %w", err)
	}

	// Renumber remaining siblings.
	rows, err := t.backend.db.Query(
		"SELECT touchpoint_id FROM touchpoints WHERE stage_id = ? ORDER BY sequence", stageID)
	if err != nil {
		return fmt.Errorf("reading touchpoints for renumber: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var tid string
		if err := rows.Scan(&tid); err != nil {
			return fmt.Errorf("scanning touchpoint for renumber: %w", err)
		}
		ids = append(ids, tid)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i, tid := range ids {
		if _, err := t.backend.db.Exec(
			"UPDATE touchpoints SET sequence = ? WHERE touchpoint_id = ?", i, tid); err != nil {
			return fmt.Errorf("renumbering touchpoint: %w", err)
		}
	}
	return nil
}

// fetchTouchpoints queries touchpoints ordered by sequence.
// Supported keys: stage_id.
func (t *table) fetchTouchpoints(filter types.Filter) ([]any, error) {
	query := "SELECT " + touchpointColumns + " FROM touchpoints"
	var args []any

	stageID, ok, err := filterString(filter, "stage_id")
	if err != nil {
		return nil, err
	}
	if ok {
		query += " WHERE stage_id = ?"
		args = append(args, stageID)
	}
	query += " ORDER BY sequence"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching touchpoints: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		tp, err := scanTouchpoint(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning touchpoint: %w", err)
		}
		results = append(results, tp)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}
