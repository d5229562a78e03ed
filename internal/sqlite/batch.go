// Bulk insert operations used by the relationship sync layer. Each batch
// runs in one transaction so a flush either lands whole or not at all.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/venturelab/workbench/pkg/types"
)

// InsertLinks inserts a batch of new links in one transaction. Every link
// must validate; ids and timestamps are assigned here. An empty batch is a
// no-op.
func (b *Backend) InsertLinks(links []*types.Link) error {
	if len(links) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	for _, l := range links {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning link batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, l := range links {
		if l.LinkID == "" {
			l.LinkID = newUUID()
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		var notes sql.NullString
		if l.Notes != "" {
			notes = sql.NullString{String: l.Notes, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO links (`+linkColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.LinkID, l.LinkType, l.SourceType, l.SourceID,
			l.TargetType, l.TargetID, notes, l.Position,
			l.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting link: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing link batch: %w", err)
	}
	return nil
}

// DeleteLinks removes a batch of links by id in one transaction.
// An empty batch is a no-op.
func (b *Backend) DeleteLinks(linkIDs []string) error {
	if len(linkIDs) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning link delete batch: %w", err)
	}
	defer tx.Rollback()

	for _, id := range linkIDs {
		if _, err := tx.Exec("DELETE FROM links WHERE link_id = ?", id); err != nil {
			return fmt.Errorf("deleting link: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing link delete batch: %w", err)
	}
	return nil
}

// InsertEvidence inserts a batch of evidence rows in one transaction.
func (b *Backend) InsertEvidence(items []*types.Evidence) error {
	if len(items) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	for _, e := range items {
		if err := e.Validate(); err != nil {
			return err
		}
		if e.EntityID == "" || !types.ValidEntityType(e.EntityType) {
			return types.ErrInvalidData
		}
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning evidence batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, e := range items {
		if e.EvidenceID == "" {
			e.EvidenceID = newUUID()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		supports := 0
		if e.Supports {
			supports = 1
		}
		if _, err := tx.Exec(`
			INSERT INTO evidence (`+evidenceColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.EvidenceID, e.EntityType, e.EntityID, e.EvidenceType,
			nullable(e.Title), nullable(e.Content), nullable(e.SourceURL),
			e.Confidence, supports, e.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting evidence: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing evidence batch: %w", err)
	}
	return nil
}

// InsertFeedback inserts a batch of feedback rows in one transaction.
func (b *Backend) InsertFeedback(items []*types.Feedback) error {
	if len(items) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	for _, f := range items {
		if err := f.Validate(); err != nil {
			return err
		}
		if f.EntityID == "" || !types.ValidEntityType(f.EntityType) {
			return types.ErrInvalidData
		}
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning feedback batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, f := range items {
		if f.FeedbackID == "" {
			f.FeedbackID = newUUID()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
		var supports sql.NullInt64
		if f.Supports != nil {
			v := int64(0)
			if *f.Supports {
				v = 1
			}
			supports = sql.NullInt64{Int64: v, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO feedback (`+feedbackColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.FeedbackID, f.EntityType, f.EntityID, f.HatType, f.FeedbackType,
			nullable(f.Content), supports, f.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("inserting feedback: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing feedback batch: %w", err)
	}
	return nil
}
