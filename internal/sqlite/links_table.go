// Links table accessor. Enforces uniqueness of the
// (link_type, source_type, source_id, target_type, target_id) tuple; the
// sync layer relies on this as a backstop for its diff-based reconciliation.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/venturelab/workbench/pkg/types"
)

const linkColumns = "link_id, link_type, source_type, source_id, target_type, target_id, notes, position, created_at"

func (t *table) getLink(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+linkColumns+" FROM links WHERE link_id = ?", id)
	l, err := scanLink(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning link: %w", err)
	}
	return l, nil
}

func scanLink(scan func(...any) error) (*types.Link, error) {
	var l types.Link
	var notes sql.NullString
	var createdAt string
	if err := scan(&l.LinkID, &l.LinkType, &l.SourceType, &l.SourceID,
		&l.TargetType, &l.TargetID, &notes, &l.Position, &createdAt); err != nil {
		return nil, err
	}
	if notes.Valid {
		l.Notes = notes.String
	}
	var err error
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing link created_at: %w", err)
	}
	return &l, nil
}

func (t *table) setLink(id string, data any) (string, error) {
	l, ok := data.(*types.Link)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := l.Validate(); err != nil {
		return "", err
	}

	isCreate := id == "" && l.LinkID == ""
	if isCreate {
		l.LinkID = newUUID()
		l.CreatedAt = time.Now().UTC()
	} else if id != "" {
		l.LinkID = id
	}

	// Uniqueness of the endpoint tuple, excluding the row itself.
	var dupID string
	err := t.backend.db.QueryRow(
		`SELECT link_id FROM links
		 WHERE link_type = ? AND source_type = ? AND source_id = ?
		   AND target_type = ? AND target_id = ? AND link_id != ?`,
		l.LinkType, l.SourceType, l.SourceID, l.TargetType, l.TargetID, l.LinkID).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateLink
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking link uniqueness: %w", err)
	}

	var notes sql.NullString
	if l.Notes != "" {
		notes = sql.NullString{String: l.Notes, Valid: true}
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO links (`+linkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link_id) DO UPDATE SET
			link_type = excluded.link_type,
			source_type = excluded.source_type,
			source_id = excluded.source_id,
			target_type = excluded.target_type,
			target_id = excluded.target_id,
			notes = excluded.notes,
			position = excluded.position`,
		l.LinkID, l.LinkType, l.SourceType, l.SourceID,
		l.TargetType, l.TargetID, notes, l.Position,
		l.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting link: %w", err)
	}

	return l.LinkID, nil
}

func (t *table) deleteLink(id string) error {
	var exists int
	if err := t.backend.db.QueryRow(
		"SELECT 1 FROM links WHERE link_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking link: %w", err)
	}
	if _, err := t.backend.db.Exec("DELETE FROM links WHERE link_id = ?", id); err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	return nil
}

// fetchLinks queries links matching the filter, ordered by position then
// created_at so ordered slots come back in display order.
// Supported keys: link_type, source_type, source_id, target_type, target_id.
func (t *table) fetchLinks(filter types.Filter) ([]any, error) {
	query := "SELECT " + linkColumns + " FROM links"
	var conditions []string
	var args []any

	for _, key := range []string{"link_type", "source_type", "source_id", "target_type", "target_id"} {
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
	query += " ORDER BY position, created_at"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		l, err := scanLink(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		results = append(results, l)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}
