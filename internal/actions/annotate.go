// Evidence and feedback actions.
package actions

import (
	"context"

	"github.com/venturelab/workbench/pkg/types"
)

// AddEvidence records one evidence item against the parent.
func (a *Actions) AddEvidence(ctx context.Context, parent types.EntityRef, item types.PendingEvidence) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.manager.Syncer().SyncPendingEvidence(parent, []types.PendingEvidence{item}); err != nil {
		return a.failFrom("add evidence", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(nil)
}

// AddFeedback records one feedback item against the parent.
func (a *Actions) AddFeedback(ctx context.Context, parent types.EntityRef, item types.PendingFeedback) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.manager.Syncer().SyncPendingFeedback(parent, []types.PendingFeedback{item}); err != nil {
		return a.failFrom("add feedback", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(nil)
}

// ListEvidence returns the parent's evidence items.
func (a *Actions) ListEvidence(ctx context.Context, parent types.EntityRef) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := parent.Require(); err != nil {
		return a.failFrom("list evidence", err)
	}
	tbl, err := a.store.GetTable(types.TableEvidence)
	if err != nil {
		return a.failFrom("list evidence", err)
	}
	recs, err := tbl.Fetch(types.Filter{"entity_type": parent.Type, "entity_id": parent.ID})
	if err != nil {
		return a.failFrom("list evidence", err)
	}
	return types.OK(recs)
}

// ListFeedback returns the parent's feedback items.
func (a *Actions) ListFeedback(ctx context.Context, parent types.EntityRef) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := parent.Require(); err != nil {
		return a.failFrom("list feedback", err)
	}
	tbl, err := a.store.GetTable(types.TableFeedback)
	if err != nil {
		return a.failFrom("list feedback", err)
	}
	recs, err := tbl.Fetch(types.Filter{"entity_type": parent.Type, "entity_id": parent.ID})
	if err != nil {
		return a.failFrom("list feedback", err)
	}
	return types.OK(recs)
}
