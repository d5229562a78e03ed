// Entities table accessor: the polymorphic catalog of assumptions,
// hypotheses, experiments, journeys, canvases, specimens, and ventures.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/venturelab/workbench/pkg/types"
)

const entityColumns = "entity_id, entity_type, title, slug, status, summary, fields, created_at, updated_at"

func (t *table) getEntity(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+entityColumns+" FROM entities WHERE entity_id = ?", id)
	e, err := scanEntity(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	return e, nil
}

// scanEntity hydrates an Entity from a row scan function, shared between
// QueryRow and Rows iteration.
func scanEntity(scan func(...any) error) (*types.Entity, error) {
	var e types.Entity
	var summary, fieldsJSON sql.NullString
	var createdAt, updatedAt string
	if err := scan(&e.EntityID, &e.EntityType, &e.Title, &e.Slug, &e.Status,
		&summary, &fieldsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if summary.Valid {
		e.Summary = summary.String
	}
	e.Fields = make(map[string]any)
	if fieldsJSON.Valid && fieldsJSON.String != "" && fieldsJSON.String != "null" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &e.Fields); err != nil {
			return nil, fmt.Errorf("parsing entity fields: %w", err)
		}
	}
	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing entity created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing entity updated_at: %w", err)
	}
	return &e, nil
}

func (t *table) setEntity(id string, data any) (string, error) {
	e, ok := data.(*types.Entity)
	if !ok {
		return "", types.ErrInvalidData
	}
	if !types.CatalogType(e.EntityType) {
		return "", types.ErrInvalidEntityType
	}
	if e.Title == "" {
		return "", types.ErrInvalidTitle
	}
	if e.Status != "" && !types.ValidStatus(e.Status) {
		return "", types.ErrInvalidStatus
	}

	now := time.Now().UTC()
	isCreate := id == "" && e.EntityID == ""

	if isCreate {
		e.EntityID = newUUID()
		e.CreatedAt = now
		if e.Status == "" {
			e.Status = types.StatusDraft
		}
	} else if id != "" {
		e.EntityID = id
	}
	e.UpdatedAt = now

	if e.Slug == "" {
		e.Slug = types.Slugify(e.Title)
	}
	if e.Slug == "" {
		e.Slug = e.EntityID
	}

	// Duplicate-slug check within the entity type, excluding the record
	// itself so updates can keep their slug.
	var dupID string
	err := t.backend.db.QueryRow(
		"SELECT entity_id FROM entities WHERE entity_type = ? AND slug = ? AND entity_id != ?",
		e.EntityType, e.Slug, e.EntityID).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateSlug
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking entity slug: %w", err)
	}

	fieldsJSON, err := json.Marshal(e.Fields)
	if err != nil {
		return "", fmt.Errorf("marshaling entity fields: %w", err)
	}
	var summary sql.NullString
	if e.Summary != "" {
		summary = sql.NullString{String: e.Summary, Valid: true}
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO entities (`+entityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			title = excluded.title,
			slug = excluded.slug,
			status = excluded.status,
			summary = excluded.summary,
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		e.EntityID, e.EntityType, e.Title, e.Slug, e.Status, summary,
		string(fieldsJSON),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		// Backstop for writers racing past the pre-check: the unique index
		// fires instead, and must read as the same condition.
		if isDuplicateSlug(err) {
			return "", types.ErrDuplicateSlug
		}
		return "", fmt.Errorf("upserting entity: %w", err)
	}

	return e.EntityID, nil
}

// isDuplicateSlug reports whether err is the unique (entity_type, slug)
// index rejecting an insert.
func isDuplicateSlug(err error) bool {
	return err != nil && strings.Contains(err.Error(),
		"UNIQUE constraint failed: entities.entity_type, entities.slug")
}

func (t *table) deleteEntity(id string) error {
	var entityType string
	err := t.backend.db.QueryRow(
		"SELECT entity_type FROM entities WHERE entity_id = ?", id).Scan(&entityType)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking entity: %w", err)
	}

	// Cascade: links on either side, evidence, feedback, and for journeys
	// the stage/touchpoint trees.
	if _, err := t.backend.db.Exec(
		"DELETE FROM links WHERE source_id = ? OR target_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting entity links: %w", err)
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM evidence WHERE entity_type = ? AND entity_id = ?", entityType, id); err != nil {
		return fmt.Errorf("deleting entity evidence: %w", err)
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM feedback WHERE entity_type = ? AND entity_id = ?", entityType, id); err != nil {
		return fmt.Errorf("deleting entity feedback: %w", err)
	}
	if entityType == types.TypeUserJourney {
		if _, err := t.backend.db.Exec(
			"DELETE FROM touchpoints WHERE stage_id IN (SELECT stage_id FROM stages WHERE journey_id = ?)", id); err != nil {
			return fmt.Errorf("deleting journey touchpoints: %w", err)
		}
		if _, err := t.backend.db.Exec(
			"DELETE FROM stages WHERE journey_id = ?", id); err != nil {
			return fmt.Errorf("deleting journey stages: %w", err)
		}
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM entities WHERE entity_id = ?", id); err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	return nil
}

func (t *table) fetchEntities(filter types.Filter) ([]any, error) {
	query := "SELECT " + entityColumns + " FROM entities"
	var conditions []string
	var args []any

	for _, key := range []string{"entity_type", "status", "slug"} {
		s, ok, err := filterString(filter, key)
		if err != nil {
			return nil, err
		}
		if ok {
			conditions = append(conditions, key+" = ?")
			args = append(args, s)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	query, err := appendPaging(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		e, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		results = append(results, e)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}
