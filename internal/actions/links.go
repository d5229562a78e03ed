// Relationship actions: slot reads and the link mutations behind them.
package actions

import (
	"context"

	"github.com/venturelab/workbench/pkg/types"
)

// Relationships assembles the parent's relationship slots into display-ready
// groups.
func (a *Actions) Relationships(ctx context.Context, parent types.EntityRef) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	groups, err := a.manager.Relationships(parent)
	if err != nil {
		return a.failFrom("relationships", err)
	}
	return types.OK(groups)
}

// UpdateEntityLinks syncs one relationship slot to the desired set of
// opposite-side ids.
func (a *Actions) UpdateEntityLinks(ctx context.Context, parent types.EntityRef, linkType, otherType string, desiredIDs []string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.manager.SetSlot(parent, linkType, otherType, desiredIDs); err != nil {
		return a.failFrom("update entity links", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(nil)
}

// AddLink creates one link in the parent's slot for (linkType, otherType).
func (a *Actions) AddLink(ctx context.Context, parent types.EntityRef, linkType, otherType, otherID, notes string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	l, err := a.manager.Add(parent, linkType, otherType, otherID, notes)
	if err != nil {
		return a.failFrom("add link", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(l)
}

// RemoveLink deletes one of the parent's links by link id.
func (a *Actions) RemoveLink(ctx context.Context, parent types.EntityRef, linkID string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.manager.Remove(parent, linkID); err != nil {
		return a.failFrom("remove link", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(nil)
}

// ReorderLinks rewrites an ordered slot to match the supplied opposite-side
// id order.
func (a *Actions) ReorderLinks(ctx context.Context, parent types.EntityRef, linkType, otherType string, orderedIDs []string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := a.manager.ReorderSlot(parent, linkType, otherType, orderedIDs); err != nil {
		return a.failFrom("reorder links", err)
	}
	a.reval.Revalidate("/" + parent.Type)
	return types.OK(nil)
}
