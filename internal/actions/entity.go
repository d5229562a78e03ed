// Entity CRUD actions, including the two-phase create.
package actions

import (
	"context"

	"github.com/venturelab/workbench/internal/relate"
	"github.com/venturelab/workbench/pkg/types"
)

// CreateEntityInput carries a create-mode form submission: the entity fields
// plus whatever relationships, evidence, and feedback were buffered before
// the entity had an id. Remote callers supply Links/Evidence/Feedback in the
// request body; in-process callers may hand over a buffer directly. Both are
// merged before the flush.
type CreateEntityInput struct {
	EntityType string         `json:"entity_type"`
	Title      string         `json:"title"`
	Summary    string         `json:"summary,omitempty"`
	Status     string         `json:"status,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`

	Links    []types.PendingLink     `json:"links,omitempty"`
	Evidence []types.PendingEvidence `json:"evidence,omitempty"`
	Feedback []types.PendingFeedback `json:"feedback,omitempty"`

	Pending *relate.PendingBuffer `json:"-"`
}

// pendingBuffer merges the serialized pending items into the in-process
// buffer, validating each. Returns nil when there is nothing to flush.
func (in CreateEntityInput) pendingBuffer() (*relate.PendingBuffer, error) {
	buf := in.Pending
	if buf == nil {
		buf = &relate.PendingBuffer{}
	}
	for _, l := range in.Links {
		if err := buf.AddLink(l); err != nil {
			return nil, err
		}
	}
	for _, e := range in.Evidence {
		if err := buf.AddEvidence(e); err != nil {
			return nil, err
		}
	}
	for _, f := range in.Feedback {
		if err := buf.AddFeedback(f); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// CreateEntity inserts the entity, then replays the pending buffer against
// the new id. A failed replay does not roll the entity back: the record is
// already committed and the operator can re-sync from the edit surface, so
// the action reports success with a warning instead.
func (a *Actions) CreateEntity(ctx context.Context, in CreateEntityInput) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}

	// Validate the buffered items up front so bad input fails with zero
	// writes instead of a committed parent and a warning.
	pending, err := in.pendingBuffer()
	if err != nil {
		return a.failFrom("create entity", err)
	}

	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("create entity", err)
	}
	e := &types.Entity{
		EntityType: in.EntityType,
		Title:      in.Title,
		Summary:    in.Summary,
		Status:     in.Status,
		Fields:     in.Fields,
	}
	id, err := entities.Set("", e)
	if err != nil {
		return a.failFrom("create entity", err)
	}
	e.EntityID = id
	a.reval.Revalidate("/" + in.EntityType)

	if err := a.manager.Syncer().FlushPending(e.Ref(), pending); err != nil {
		a.log.Printf("create entity %s: pending flush: %v", id, err)
		return types.OKWithWarning(e, "entity saved, but some related records could not be synced")
	}
	return types.OK(e)
}

// GetEntity fetches one entity by reference.
func (a *Actions) GetEntity(ctx context.Context, ref types.EntityRef) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := ref.Require(); err != nil {
		return a.failFrom("get entity", err)
	}
	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("get entity", err)
	}
	rec, err := entities.Get(ref.ID)
	if err != nil {
		return a.failFrom("get entity", err)
	}
	return types.OK(rec)
}

// GetEntityBySlug fetches one entity by its per-type slug.
func (a *Actions) GetEntityBySlug(ctx context.Context, entityType, slug string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("get entity by slug", err)
	}
	recs, err := entities.Fetch(types.Filter{"entity_type": entityType, "slug": slug})
	if err != nil {
		return a.failFrom("get entity by slug", err)
	}
	if len(recs) == 0 {
		return types.Fail(types.CodeNotFound, "record not found")
	}
	return types.OK(recs[0])
}

// ListEntities returns the entities of one type, optionally narrowed by
// status.
func (a *Actions) ListEntities(ctx context.Context, entityType, status string) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if !types.CatalogType(entityType) {
		return types.Fail(types.CodeValidationError, types.ErrInvalidEntityType.Error())
	}
	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("list entities", err)
	}
	filter := types.Filter{"entity_type": entityType}
	if status != "" {
		filter["status"] = status
	}
	recs, err := entities.Fetch(filter)
	if err != nil {
		return a.failFrom("list entities", err)
	}
	return types.OK(recs)
}

// UpdateEntity rewrites an existing entity's editable fields. The slug and
// creation timestamp are preserved by the store.
func (a *Actions) UpdateEntity(ctx context.Context, ref types.EntityRef, in CreateEntityInput) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := ref.Require(); err != nil {
		return a.failFrom("update entity", err)
	}
	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("update entity", err)
	}
	rec, err := entities.Get(ref.ID)
	if err != nil {
		return a.failFrom("update entity", err)
	}
	e := rec.(*types.Entity)
	e.Title = in.Title
	e.Summary = in.Summary
	if in.Status != "" {
		if err := e.SetStatus(in.Status); err != nil {
			return a.failFrom("update entity", err)
		}
	}
	if in.Fields != nil {
		e.Fields = in.Fields
	}
	if _, err := entities.Set(ref.ID, e); err != nil {
		return a.failFrom("update entity", err)
	}
	a.reval.Revalidate("/" + e.EntityType)
	return types.OK(e)
}

// DeleteEntity removes an entity and its dependent links, evidence, and
// feedback.
func (a *Actions) DeleteEntity(ctx context.Context, ref types.EntityRef) types.ActionResult {
	if _, res := a.authenticate(ctx); res != nil {
		return *res
	}
	if err := ref.Require(); err != nil {
		return a.failFrom("delete entity", err)
	}
	entities, err := a.store.GetTable(types.TableEntities)
	if err != nil {
		return a.failFrom("delete entity", err)
	}
	if err := entities.Delete(ref.ID); err != nil {
		return a.failFrom("delete entity", err)
	}
	a.reval.Revalidate("/" + ref.Type)
	return types.OK(nil)
}
