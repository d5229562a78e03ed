// Pending buffer: collects relationship choices, evidence, and feedback made
// while the parent entity has no persisted id yet, and replays them as real
// writes once it does. The flush is insert-only; nothing that already exists
// is diffed or deleted, because a freshly created parent has no rows to diff
// against.
package relate

import (
	"fmt"

	"github.com/venturelab/workbench/pkg/types"
)

// PendingBuffer accumulates the relationship state of a create-mode form.
// The zero value is ready to use. Items are validated on entry so the flush
// only ever sees well-formed records.
type PendingBuffer struct {
	links    []types.PendingLink
	evidence []types.PendingEvidence
	feedback []types.PendingFeedback
}

// AddLink appends a pending link after validating it.
func (b *PendingBuffer) AddLink(l types.PendingLink) error {
	if err := l.Validate(); err != nil {
		return err
	}
	b.links = append(b.links, l)
	return nil
}

// AddEvidence appends a pending evidence item after validating it.
func (b *PendingBuffer) AddEvidence(e types.PendingEvidence) error {
	if err := e.Validate(); err != nil {
		return err
	}
	b.evidence = append(b.evidence, e)
	return nil
}

// AddFeedback appends a pending feedback item after validating it.
func (b *PendingBuffer) AddFeedback(f types.PendingFeedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	b.feedback = append(b.feedback, f)
	return nil
}

// Links returns the buffered links in insertion order.
func (b *PendingBuffer) Links() []types.PendingLink {
	return b.links
}

// RemoveLink drops the buffered link at index i. Out-of-range indexes are
// ignored; the form may race its own redraws.
func (b *PendingBuffer) RemoveLink(i int) {
	if i < 0 || i >= len(b.links) {
		return
	}
	b.links = append(b.links[:i], b.links[i+1:]...)
}

// Empty reports whether the buffer holds nothing to flush.
func (b *PendingBuffer) Empty() bool {
	return len(b.links) == 0 && len(b.evidence) == 0 && len(b.feedback) == 0
}

// FlushPending replays a create-mode buffer against the now-persisted parent.
// An empty buffer returns immediately without touching the store. The parent
// must carry its persisted id. Links land first, then evidence, then
// feedback; each batch is transactional on its own.
func (s *Syncer) FlushPending(parent types.EntityRef, buf *PendingBuffer) error {
	if buf == nil || buf.Empty() {
		return nil
	}
	if err := parent.Require(); err != nil {
		return err
	}
	if err := s.flushLinks(parent, buf.links); err != nil {
		return fmt.Errorf("flushing pending links: %w", err)
	}
	if err := s.SyncPendingEvidence(parent, buf.evidence); err != nil {
		return fmt.Errorf("flushing pending evidence: %w", err)
	}
	if err := s.SyncPendingFeedback(parent, buf.feedback); err != nil {
		return fmt.Errorf("flushing pending feedback: %w", err)
	}
	*buf = PendingBuffer{}
	return nil
}

// flushLinks materializes buffered links into rows. Orientation follows the
// parent's slot registry: a pending link filling an inbound slot is stored
// with the chosen entity as source and the parent as target. Positions are
// assigned per ordered slot in buffer order; duplicates collapse to the
// first occurrence.
func (s *Syncer) flushLinks(parent types.EntityRef, pending []types.PendingLink) error {
	if len(pending) == 0 {
		return nil
	}

	type slotKey struct{ linkType, otherType string }
	nextPos := make(map[slotKey]int)
	seen := make(map[types.Link]bool)

	var inserts []*types.Link
	for _, p := range pending {
		slot, found := findSlot(parent.Type, p.LinkType, p.TargetType)

		l := types.Link{LinkType: p.LinkType, Notes: p.Notes}
		if found && slot.Inbound() {
			l.SourceType, l.SourceID = p.TargetType, p.TargetID
			l.TargetType, l.TargetID = parent.Type, parent.ID
		} else {
			l.SourceType, l.SourceID = parent.Type, parent.ID
			l.TargetType, l.TargetID = p.TargetType, p.TargetID
		}

		key := l
		key.Notes = ""
		if seen[key] {
			continue
		}
		seen[key] = true

		if found && slot.Ordered {
			k := slotKey{p.LinkType, p.TargetType}
			l.Position = nextPos[k]
			nextPos[k]++
		}

		insert := l
		inserts = append(inserts, &insert)
	}
	return s.store.InsertLinks(inserts)
}

// findSlot locates the parent type's slot managing (linkType, otherType).
func findSlot(parentType, linkType, otherType string) (types.Slot, bool) {
	for _, slot := range types.SlotsFor(parentType) {
		if slot.LinkType == linkType && slot.TargetType == otherType {
			return slot, true
		}
	}
	return types.Slot{}, false
}
