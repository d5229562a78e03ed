// Package relate keeps link rows in agreement with the relationship choices
// made on an entity's edit surface. The core operation is a set
// reconciliation: given the parent, a link type, and the desired set of
// opposite-side ids, it diffs against the persisted rows and issues the
// minimal deletes and inserts. Running the same sync twice is a no-op.
//
// See docs/ARCHITECTURE.md § Relationship Model.
package relate

import (
	"fmt"

	"github.com/venturelab/workbench/pkg/types"
)

// Store is the persistence surface the sync layer needs. *sqlite.Backend
// satisfies it.
type Store interface {
	GetTable(name string) (types.Table, error)
	InsertLinks(links []*types.Link) error
	DeleteLinks(linkIDs []string) error
	InsertEvidence(items []*types.Evidence) error
	InsertFeedback(items []*types.Feedback) error
	RenumberLinks(orderedLinkIDs []string) error
	ReorderStages(journeyID string, orderedIDs []string) error
	ReorderTouchpoints(stageID string, orderedIDs []string) error
}

// Syncer reconciles persisted links against a desired set.
type Syncer struct {
	store Store
}

// NewSyncer returns a Syncer backed by store.
func NewSyncer(store Store) *Syncer {
	return &Syncer{store: store}
}

// SyncLinks makes the set of linkType links from source to entities of
// targetType equal exactly desiredIDs. Links to targets not in desiredIDs
// are deleted, missing ones are inserted, and links already present are left
// untouched. Duplicate and empty ids in desiredIDs are ignored. The source
// must carry a persisted id; nothing is written otherwise.
func (s *Syncer) SyncLinks(source types.EntityRef, linkType, targetType string, desiredIDs []string) error {
	return s.sync(source, linkType, targetType, desiredIDs, false)
}

// SyncLinksAsTarget is the inbound mirror of SyncLinks: it reconciles the
// linkType links from entities of sourceType pointing at target, so that
// exactly desiredIDs remain as sources.
func (s *Syncer) SyncLinksAsTarget(target types.EntityRef, linkType, sourceType string, desiredIDs []string) error {
	return s.sync(target, linkType, sourceType, desiredIDs, true)
}

func (s *Syncer) sync(parent types.EntityRef, linkType, otherType string, desiredIDs []string, inbound bool) error {
	if err := parent.Require(); err != nil {
		return err
	}
	if !types.ValidLinkType(linkType) {
		return types.ErrInvalidLinkType
	}
	if !types.ValidEntityType(otherType) {
		return types.ErrInvalidEntityType
	}

	existing, err := s.fetchSide(parent, linkType, otherType, inbound)
	if err != nil {
		return err
	}

	// Map the opposite-side id of each persisted link to its link id.
	existingByOther := make(map[string]string, len(existing))
	for _, l := range existing {
		if inbound {
			existingByOther[l.SourceID] = l.LinkID
		} else {
			existingByOther[l.TargetID] = l.LinkID
		}
	}

	desired := make(map[string]bool, len(desiredIDs))
	var inserts []*types.Link
	for _, id := range desiredIDs {
		if id == "" || desired[id] {
			continue
		}
		desired[id] = true
		if _, ok := existingByOther[id]; ok {
			continue
		}
		l := &types.Link{LinkType: linkType}
		if inbound {
			l.SourceType, l.SourceID = otherType, id
			l.TargetType, l.TargetID = parent.Type, parent.ID
		} else {
			l.SourceType, l.SourceID = parent.Type, parent.ID
			l.TargetType, l.TargetID = otherType, id
		}
		inserts = append(inserts, l)
	}

	var deletes []string
	for otherID, linkID := range existingByOther {
		if !desired[otherID] {
			deletes = append(deletes, linkID)
		}
	}

	// Deletes land first so re-adding a just-removed target never trips the
	// uniqueness backstop.
	if err := s.store.DeleteLinks(deletes); err != nil {
		return fmt.Errorf("removing stale links: %w", err)
	}
	if err := s.store.InsertLinks(inserts); err != nil {
		return fmt.Errorf("inserting new links: %w", err)
	}
	return nil
}

// fetchSide returns the persisted links of one relationship slot, with the
// parent on the source side (outbound) or the target side (inbound).
func (s *Syncer) fetchSide(parent types.EntityRef, linkType, otherType string, inbound bool) ([]*types.Link, error) {
	tbl, err := s.store.GetTable(types.TableLinks)
	if err != nil {
		return nil, err
	}

	filter := types.Filter{"link_type": linkType}
	if inbound {
		filter["source_type"] = otherType
		filter["target_type"] = parent.Type
		filter["target_id"] = parent.ID
	} else {
		filter["source_type"] = parent.Type
		filter["source_id"] = parent.ID
		filter["target_type"] = otherType
	}

	records, err := tbl.Fetch(filter)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	links := make([]*types.Link, 0, len(records))
	for _, rec := range records {
		links = append(links, rec.(*types.Link))
	}
	return links, nil
}
