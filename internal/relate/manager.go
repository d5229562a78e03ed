// Manager: the slot-oriented surface over links. Reads assemble each parent
// type's configured slots into display-ready groups with resolved labels;
// edits route through the slot registry so direction and ordering are always
// honored.
package relate

import (
	"fmt"
	"sort"

	"github.com/venturelab/workbench/pkg/types"
)

// Item is one resolved link inside a slot view.
type Item struct {
	LinkID   string          `json:"link_id"`
	Ref      types.EntityRef `json:"ref"`
	Label    string          `json:"label"`
	Notes    string          `json:"notes,omitempty"`
	Position int             `json:"position"`
}

// SlotView is one relationship slot with its resolved items.
type SlotView struct {
	Label      string `json:"label"`
	LinkType   string `json:"link_type"`
	TargetType string `json:"target_type"`
	Direction  string `json:"direction"`
	Ordered    bool   `json:"ordered"`
	Items      []Item `json:"items"`
}

// Group collects slot views under a display heading.
type Group struct {
	Name  string     `json:"name"`
	Slots []SlotView `json:"slots"`
}

// Manager reads and edits relationships slot by slot.
type Manager struct {
	store  Store
	syncer *Syncer
}

// NewManager returns a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store, syncer: NewSyncer(store)}
}

// Syncer exposes the underlying set-reconciliation engine for callers that
// sync raw id lists without going through a slot.
func (m *Manager) Syncer() *Syncer {
	return m.syncer
}

// Relationships assembles every configured slot of the parent's type into
// groups, in registry order. Each link is resolved to the opposite entity's
// display label; links whose opposite record was deleted out from under them
// render a placeholder instead of failing the whole read.
func (m *Manager) Relationships(parent types.EntityRef) ([]Group, error) {
	if err := parent.Require(); err != nil {
		return nil, err
	}

	entities, err := m.store.GetTable(types.TableEntities)
	if err != nil {
		return nil, err
	}

	var groups []Group
	byName := make(map[string]int)
	for _, slot := range types.SlotsFor(parent.Type) {
		view, err := m.slotView(parent, slot, entities)
		if err != nil {
			return nil, err
		}
		idx, ok := byName[slot.Group]
		if !ok {
			groups = append(groups, Group{Name: slot.Group})
			idx = len(groups) - 1
			byName[slot.Group] = idx
		}
		groups[idx].Slots = append(groups[idx].Slots, view)
	}
	return groups, nil
}

func (m *Manager) slotView(parent types.EntityRef, slot types.Slot, entities types.Table) (SlotView, error) {
	view := SlotView{
		Label:      slot.Label,
		LinkType:   slot.LinkType,
		TargetType: slot.TargetType,
		Direction:  slot.Direction,
		Ordered:    slot.Ordered,
	}
	if view.Direction == "" {
		view.Direction = types.DirOutbound
	}

	links, err := m.syncer.fetchSide(parent, slot.LinkType, slot.TargetType, slot.Inbound())
	if err != nil {
		return SlotView{}, err
	}

	for _, l := range links {
		ref := l.Target()
		if slot.Inbound() {
			ref = l.Source()
		}
		view.Items = append(view.Items, Item{
			LinkID:   l.LinkID,
			Ref:      ref,
			Label:    resolveLabel(entities, ref, slot.DisplayField),
			Notes:    l.Notes,
			Position: l.Position,
		})
	}
	if slot.Ordered {
		sort.SliceStable(view.Items, func(i, j int) bool {
			return view.Items[i].Position < view.Items[j].Position
		})
	}
	return view, nil
}

// resolveLabel looks up the opposite entity's display field. A missing
// record yields a short placeholder so stale links stay visible and
// removable.
func resolveLabel(entities types.Table, ref types.EntityRef, field string) string {
	rec, err := entities.Get(ref.ID)
	if err != nil {
		short := ref.ID
		if len(short) > 8 {
			short = short[:8]
		}
		return fmt.Sprintf("(missing %s %s)", ref.Type, short)
	}
	return rec.(*types.Entity).DisplayLabel(field)
}

// SetSlot syncs one slot to the desired set of opposite-side ids. The slot
// is located by (linkType, otherType) in the parent type's registry and its
// direction decides which side of the join is reconciled. On an ordered slot
// the desired list also dictates the position order: after the reconcile the
// surviving links are renumbered 0-based and contiguous following desiredIDs.
// Returns ErrSlotNotFound when the parent type exposes no such slot.
func (m *Manager) SetSlot(parent types.EntityRef, linkType, otherType string, desiredIDs []string) error {
	if err := parent.Require(); err != nil {
		return err
	}
	slot, ok := findSlot(parent.Type, linkType, otherType)
	if !ok {
		return types.ErrSlotNotFound
	}

	var err error
	if slot.Inbound() {
		err = m.syncer.SyncLinksAsTarget(parent, linkType, otherType, desiredIDs)
	} else {
		err = m.syncer.SyncLinks(parent, linkType, otherType, desiredIDs)
	}
	if err != nil || !slot.Ordered {
		return err
	}
	return m.renumberDesired(parent, slot, desiredIDs)
}

// renumberDesired rewrites an ordered slot's positions to follow the desired
// id order after a reconcile. The sync has already made membership equal to
// the deduplicated desired set, so every desired id resolves to a link.
func (m *Manager) renumberDesired(parent types.EntityRef, slot types.Slot, desiredIDs []string) error {
	links, err := m.syncer.fetchSide(parent, slot.LinkType, slot.TargetType, slot.Inbound())
	if err != nil {
		return err
	}
	linkByOther := make(map[string]string, len(links))
	for _, l := range links {
		if slot.Inbound() {
			linkByOther[l.SourceID] = l.LinkID
		} else {
			linkByOther[l.TargetID] = l.LinkID
		}
	}

	linkIDs := make([]string, 0, len(linkByOther))
	seen := make(map[string]bool, len(desiredIDs))
	for _, id := range desiredIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if linkID, ok := linkByOther[id]; ok {
			linkIDs = append(linkIDs, linkID)
		}
	}
	return m.store.RenumberLinks(linkIDs)
}

// Add creates one link in the parent's slot for (linkType, otherType).
// Ordered slots append at the end. Returns the persisted link; a link to the
// same entity that already exists fails with ErrDuplicateLink.
func (m *Manager) Add(parent types.EntityRef, linkType, otherType, otherID, notes string) (*types.Link, error) {
	if err := parent.Require(); err != nil {
		return nil, err
	}
	other := types.EntityRef{Type: otherType, ID: otherID}
	if err := other.Require(); err != nil {
		return nil, err
	}
	slot, ok := findSlot(parent.Type, linkType, otherType)
	if !ok {
		return nil, types.ErrSlotNotFound
	}

	l := &types.Link{LinkType: linkType, Notes: notes}
	if slot.Inbound() {
		l.SourceType, l.SourceID = otherType, otherID
		l.TargetType, l.TargetID = parent.Type, parent.ID
	} else {
		l.SourceType, l.SourceID = parent.Type, parent.ID
		l.TargetType, l.TargetID = otherType, otherID
	}
	if slot.Ordered {
		existing, err := m.syncer.fetchSide(parent, linkType, otherType, slot.Inbound())
		if err != nil {
			return nil, err
		}
		l.Position = len(existing)
	}

	links, err := m.store.GetTable(types.TableLinks)
	if err != nil {
		return nil, err
	}
	id, err := links.Set("", l)
	if err != nil {
		return nil, err
	}
	l.LinkID = id
	return l, nil
}

// Remove deletes one link from the parent's relationships by link id. The
// link must actually touch the parent; removing someone else's link via a
// guessed id reads as ErrNotFound. When the link sat in an ordered slot the
// remaining positions are renumbered to stay contiguous.
func (m *Manager) Remove(parent types.EntityRef, linkID string) error {
	if err := parent.Require(); err != nil {
		return err
	}
	links, err := m.store.GetTable(types.TableLinks)
	if err != nil {
		return err
	}
	rec, err := links.Get(linkID)
	if err != nil {
		return err
	}
	l := rec.(*types.Link)
	if l.Source() != parent && l.Target() != parent {
		return types.ErrNotFound
	}

	if err := links.Delete(linkID); err != nil {
		return err
	}

	slot, ok := slotForLink(parent, l)
	if !ok || !slot.Ordered {
		return nil
	}
	remaining, err := m.syncer.fetchSide(parent, slot.LinkType, slot.TargetType, slot.Inbound())
	if err != nil {
		return err
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Position < remaining[j].Position
	})
	ids := make([]string, len(remaining))
	for i, r := range remaining {
		ids[i] = r.LinkID
	}
	return m.store.RenumberLinks(ids)
}

// ReorderSlot rewrites the positions of an ordered slot to match the order
// of opposite-side ids in orderedIDs. The list must be an exact permutation
// of the slot's current membership; a mismatch fails with
// ErrSequenceSetMismatch before anything is written.
func (m *Manager) ReorderSlot(parent types.EntityRef, linkType, otherType string, orderedIDs []string) error {
	if err := parent.Require(); err != nil {
		return err
	}
	slot, ok := findSlot(parent.Type, linkType, otherType)
	if !ok || !slot.Ordered {
		return types.ErrSlotNotFound
	}

	existing, err := m.syncer.fetchSide(parent, linkType, otherType, slot.Inbound())
	if err != nil {
		return err
	}
	linkByOther := make(map[string]string, len(existing))
	for _, l := range existing {
		otherID := l.TargetID
		if slot.Inbound() {
			otherID = l.SourceID
		}
		linkByOther[otherID] = l.LinkID
	}

	if len(orderedIDs) != len(linkByOther) {
		return types.ErrSequenceSetMismatch
	}
	seen := make(map[string]bool, len(orderedIDs))
	linkIDs := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		linkID, ok := linkByOther[id]
		if !ok || seen[id] {
			return types.ErrSequenceSetMismatch
		}
		seen[id] = true
		linkIDs = append(linkIDs, linkID)
	}
	return m.store.RenumberLinks(linkIDs)
}

// slotForLink finds which of the parent's slots a persisted link belongs to.
func slotForLink(parent types.EntityRef, l *types.Link) (types.Slot, bool) {
	otherType := l.TargetType
	if l.Target() == parent {
		otherType = l.SourceType
	}
	slot, ok := findSlot(parent.Type, l.LinkType, otherType)
	if !ok {
		return types.Slot{}, false
	}
	// The link's orientation has to match the slot's declared direction.
	if slot.Inbound() != (l.Target() == parent) {
		return types.Slot{}, false
	}
	return slot, ok
}
