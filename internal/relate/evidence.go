// Evidence and feedback replay. Unlike link sync these are append-only
// journals; syncing pending items never deletes what is already recorded.
package relate

import (
	"github.com/venturelab/workbench/pkg/types"
)

// SyncPendingEvidence materializes pending evidence items against the parent
// and inserts them as one batch. Exactly one row lands per buffered item; an
// empty slice is a no-op.
func (s *Syncer) SyncPendingEvidence(parent types.EntityRef, pending []types.PendingEvidence) error {
	if len(pending) == 0 {
		return nil
	}
	if err := parent.Require(); err != nil {
		return err
	}
	items := make([]*types.Evidence, 0, len(pending))
	for _, p := range pending {
		if err := p.Validate(); err != nil {
			return err
		}
		items = append(items, p.Materialize(parent))
	}
	return s.store.InsertEvidence(items)
}

// SyncPendingFeedback is the feedback analogue of SyncPendingEvidence.
func (s *Syncer) SyncPendingFeedback(parent types.EntityRef, pending []types.PendingFeedback) error {
	if len(pending) == 0 {
		return nil
	}
	if err := parent.Require(); err != nil {
		return err
	}
	items := make([]*types.Feedback, 0, len(pending))
	for _, p := range pending {
		if err := p.Validate(); err != nil {
			return err
		}
		items = append(items, p.Materialize(parent))
	}
	return s.store.InsertFeedback(items)
}
