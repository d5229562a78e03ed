// Evidence and feedback table accessors. Both attach annotation rows to an
// entity via a polymorphic (entity_type, entity_id) pair; feedback keeps a
// tri-state stance (supports NULL means neutral).
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/venturelab/workbench/pkg/types"
)

const evidenceColumns = "evidence_id, entity_type, entity_id, evidence_type, title, content, source_url, confidence, supports, created_at"

func (t *table) getEvidence(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+evidenceColumns+" FROM evidence WHERE evidence_id = ?", id)
	e, err := scanEvidence(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning evidence: %w", err)
	}
	return e, nil
}

func scanEvidence(scan func(...any) error) (*types.Evidence, error) {
	var e types.Evidence
	var title, content, sourceURL sql.NullString
	var supports int
	var createdAt string
	if err := scan(&e.EvidenceID, &e.EntityType, &e.EntityID, &e.EvidenceType,
		&title, &content, &sourceURL, &e.Confidence, &supports, &createdAt); err != nil {
		return nil, err
	}
	if title.Valid {
		e.Title = title.String
	}
	if content.Valid {
		e.Content = content.String
	}
	if sourceURL.Valid {
		e.SourceURL = sourceURL.String
	}
	e.Supports = supports != 0
	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing evidence created_at: %w", err)
	}
	return &e, nil
}

func (t *table) setEvidence(id string, data any) (string, error) {
	e, ok := data.(*types.Evidence)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.EntityID == "" || !types.ValidEntityType(e.EntityType) {
		return "", types.ErrInvalidData
	}

	isCreate := id == "" && e.EvidenceID == ""
	if isCreate {
		e.EvidenceID = newUUID()
		e.CreatedAt = time.Now().UTC()
	} else if id != "" {
		e.EvidenceID = id
	}

	supports := 0
	if e.Supports {
		supports = 1
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO evidence (`+evidenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(evidence_id) DO UPDATE SET
			evidence_type = excluded.evidence_type,
			title = excluded.title,
			content = excluded.content,
			source_url = excluded.source_url,
			confidence = excluded.confidence,
			supports = excluded.supports`,
		e.EvidenceID, e.EntityType, e.EntityID, e.EvidenceType,
		nullable(e.Title), nullable(e.Content), nullable(e.SourceURL),
		e.Confidence, supports, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting evidence: %w", err)
	}
	return e.EvidenceID, nil
}

func (t *table) deleteEvidence(id string) error {
	var exists int
	if err := t.backend.db.QueryRow(
		"SELECT 1 FROM evidence WHERE evidence_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking evidence: %w", err)
	}
	if _, err := t.backend.db.Exec("DELETE FROM evidence WHERE evidence_id = ?", id); err != nil {
		return fmt.Errorf("deleting evidence: %w", err)
	}
	return nil
}

// fetchEvidence queries evidence rows.
// Supported keys: entity_type, entity_id, evidence_type.
func (t *table) fetchEvidence(filter types.Filter) ([]any, error) {
	query := "SELECT " + evidenceColumns + " FROM evidence"
	conditions, args, err := evidenceConditions(filter, []string{"entity_type", "entity_id", "evidence_type"})
	if err != nil {
		return nil, err
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching evidence: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		e, err := scanEvidence(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		results = append(results, e)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

const feedbackColumns = "feedback_id, entity_type, entity_id, hat_type, feedback_type, content, supports, created_at"

func (t *table) getFeedback(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+feedbackColumns+" FROM feedback WHERE feedback_id = ?", id)
	f, err := scanFeedback(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning feedback: %w", err)
	}
	return f, nil
}

func scanFeedback(scan func(...any) error) (*types.Feedback, error) {
	var f types.Feedback
	var content sql.NullString
	var supports sql.NullInt64
	var createdAt string
	if err := scan(&f.FeedbackID, &f.EntityType, &f.EntityID, &f.HatType,
		&f.FeedbackType, &content, &supports, &createdAt); err != nil {
		return nil, err
	}
	if content.Valid {
		f.Content = content.String
	}
	if supports.Valid {
		v := supports.Int64 != 0
		f.Supports = &v
	}
	var err error
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing feedback created_at: %w", err)
	}
	return &f, nil
}

func (t *table) setFeedback(id string, data any) (string, error) {
	f, ok := data.(*types.Feedback)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	if f.EntityID == "" || !types.ValidEntityType(f.EntityType) {
		return "", types.ErrInvalidData
	}

	isCreate := id == "" && f.FeedbackID == ""
	if isCreate {
		f.FeedbackID = newUUID()
		f.CreatedAt = time.Now().UTC()
	} else if id != "" {
		f.FeedbackID = id
	}

	var supports sql.NullInt64
	if f.Supports != nil {
		v := int64(0)
		if *f.Supports {
			v = 1
		}
		supports = sql.NullInt64{Int64: v, Valid: true}
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO feedback (`+feedbackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(feedback_id) DO UPDATE SET
			hat_type = excluded.hat_type,
			feedback_type = excluded.feedback_type,
			content = excluded.content,
			supports = excluded.supports`,
		f.FeedbackID, f.EntityType, f.EntityID, f.HatType, f.FeedbackType,
		nullable(f.Content), supports, f.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting feedback: %w", err)
	}
	return f.FeedbackID, nil
}

func (t *table) deleteFeedback(id string) error {
	var exists int
	if err := t.backend.db.QueryRow(
		"SELECT 1 FROM feedback WHERE feedback_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking feedback: %w", err)
	}
	if _, err := t.backend.db.Exec("DELETE FROM feedback WHERE feedback_id = ?", id); err != nil {
		return fmt.Errorf("deleting feedback: %w", err)
	}
	return nil
}

// fetchFeedback queries feedback rows.
// Supported keys: entity_type, entity_id, hat_type, feedback_type.
func (t *table) fetchFeedback(filter types.Filter) ([]any, error) {
	query := "SELECT " + feedbackColumns + " FROM feedback"
	conditions, args, err := evidenceConditions(filter, []string{"entity_type", "entity_id", "hat_type", "feedback_type"})
	if err != nil {
		return nil, err
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching feedback: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		f, err := scanFeedback(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		results = append(results, f)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

// evidenceConditions builds equality conditions for string filter keys.
func evidenceConditions(filter types.Filter, keys []string) ([]string, []any, error) {
	var conditions []string
	var args []any
	for _, key := range keys {
		s, ok, err := filterString(filter, key)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			conditions = append(conditions, key+" = ?")
			args = append(args, s)
		}
	}
	return conditions, args, nil
}

// nullable wraps a string as a NULL-when-empty column value.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
