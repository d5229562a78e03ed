// Unit tests for the action layer: envelopes, authentication gating, error
// mapping, and the two-phase create.
package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/workbench/internal/relate"
	"github.com/venturelab/workbench/internal/sqlite"
	"github.com/venturelab/workbench/pkg/types"
)

func newTestBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func newTestActions(t *testing.T) (*Actions, *sqlite.Backend) {
	t.Helper()
	b := newTestBackend(t)
	return New(b, nil, nil, nil), b
}

// denyAuth refuses every request.
type denyAuth struct{}

func (denyAuth) Authenticate(context.Context) (User, error) {
	return User{}, errors.New("no token")
}

// recordingReval captures the revalidated paths.
type recordingReval struct {
	paths []string
}

func (r *recordingReval) Revalidate(paths ...string) {
	r.paths = append(r.paths, paths...)
}

// flakyStore delegates to a real backend but can be told to fail link
// inserts, to exercise the partial-success path.
type flakyStore struct {
	relate.Store
	failInsertLinks bool
}

func (f *flakyStore) InsertLinks(links []*types.Link) error {
	if f.failInsertLinks {
		return errors.New("disk full")
	}
	return f.Store.InsertLinks(links)
}

func createAssumption(t *testing.T, a *Actions, title string) *types.Entity {
	t.Helper()
	res := a.CreateEntity(context.Background(), CreateEntityInput{
		EntityType: types.TypeAssumption, Title: title,
	})
	require.True(t, res.Success, res.Error)
	return res.Data.(*types.Entity)
}

func TestAuthenticationGate(t *testing.T) {
	b := newTestBackend(t)
	a := New(b, denyAuth{}, nil, nil)
	ctx := context.Background()

	res := a.CreateEntity(ctx, CreateEntityInput{EntityType: types.TypeAssumption, Title: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, types.CodeUnauthorized, res.Code)

	// Nothing reached the store.
	entities, err := b.GetTable(types.TableEntities)
	require.NoError(t, err)
	got, err := entities.Fetch(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Reads are gated too.
	res = a.ListEntities(ctx, types.TypeAssumption, "")
	assert.Equal(t, types.CodeUnauthorized, res.Code)
}

func TestCreateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the persisted entity", func(t *testing.T) {
		a, _ := newTestActions(t)
		e := createAssumption(t, a, "Users will pay monthly")
		assert.NotEmpty(t, e.EntityID)
		assert.Equal(t, "users-will-pay-monthly", e.Slug)
		assert.Equal(t, types.StatusDraft, e.Status)
	})

	t.Run("duplicate slug maps to a validation message", func(t *testing.T) {
		a, _ := newTestActions(t)
		createAssumption(t, a, "Pricing")
		res := a.CreateEntity(ctx, CreateEntityInput{EntityType: types.TypeAssumption, Title: "Pricing"})
		assert.False(t, res.Success)
		assert.Equal(t, types.CodeValidationError, res.Code)
		assert.Equal(t, "slug already in use", res.Error)
	})

	t.Run("empty title fails before any write", func(t *testing.T) {
		a, b := newTestActions(t)
		res := a.CreateEntity(ctx, CreateEntityInput{EntityType: types.TypeAssumption})
		assert.Equal(t, types.CodeValidationError, res.Code)

		entities, err := b.GetTable(types.TableEntities)
		require.NoError(t, err)
		got, err := entities.Fetch(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("flushes the pending buffer against the new id", func(t *testing.T) {
		a, b := newTestActions(t)
		h := createAssumption(t, a, "Base assumption")

		var buf relate.PendingBuffer
		require.NoError(t, buf.AddLink(types.PendingLink{
			LinkType: types.LinkTypeTests, TargetType: types.TypeAssumption, TargetID: h.EntityID,
		}))
		require.NoError(t, buf.AddEvidence(types.PendingEvidence{
			EvidenceType: types.EvidenceInterview, Confidence: 0.6, Supports: true,
		}))

		res := a.CreateEntity(ctx, CreateEntityInput{
			EntityType: types.TypeHypothesis, Title: "New hypothesis", Pending: &buf,
		})
		require.True(t, res.Success, res.Error)
		assert.Empty(t, res.Warning)
		created := res.Data.(*types.Entity)

		links, err := b.GetTable(types.TableLinks)
		require.NoError(t, err)
		gotLinks, err := links.Fetch(types.Filter{"source_id": created.EntityID})
		require.NoError(t, err)
		assert.Len(t, gotLinks, 1)

		evidence, err := b.GetTable(types.TableEvidence)
		require.NoError(t, err)
		gotEv, err := evidence.Fetch(types.Filter{"entity_id": created.EntityID})
		require.NoError(t, err)
		assert.Len(t, gotEv, 1)
	})

	t.Run("serialized pending items flush like a buffer", func(t *testing.T) {
		a, b := newTestActions(t)
		target := createAssumption(t, a, "Target")

		res := a.CreateEntity(ctx, CreateEntityInput{
			EntityType: types.TypeHypothesis,
			Title:      "Remote hypothesis",
			Links: []types.PendingLink{{
				LinkType: types.LinkTypeTests, TargetType: types.TypeAssumption, TargetID: target.EntityID,
			}},
			Evidence: []types.PendingEvidence{{
				EvidenceType: types.EvidenceResearch, Confidence: 0.3, Supports: true,
			}},
		})
		require.True(t, res.Success, res.Error)
		created := res.Data.(*types.Entity)

		links, err := b.GetTable(types.TableLinks)
		require.NoError(t, err)
		gotLinks, err := links.Fetch(types.Filter{"source_id": created.EntityID})
		require.NoError(t, err)
		assert.Len(t, gotLinks, 1)

		evidence, err := b.GetTable(types.TableEvidence)
		require.NoError(t, err)
		gotEv, err := evidence.Fetch(types.Filter{"entity_id": created.EntityID})
		require.NoError(t, err)
		assert.Len(t, gotEv, 1)
	})

	t.Run("invalid pending item fails before any write", func(t *testing.T) {
		a, b := newTestActions(t)
		res := a.CreateEntity(ctx, CreateEntityInput{
			EntityType: types.TypeHypothesis,
			Title:      "H",
			Links:      []types.PendingLink{{LinkType: "points_at", TargetType: types.TypeAssumption, TargetID: "a1"}},
		})
		assert.Equal(t, types.CodeValidationError, res.Code)

		entities, err := b.GetTable(types.TableEntities)
		require.NoError(t, err)
		got, err := entities.Fetch(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("failed flush keeps the entity and warns", func(t *testing.T) {
		b := newTestBackend(t)
		store := &flakyStore{Store: b, failInsertLinks: true}
		a := New(store, nil, nil, nil)

		seed := New(b, nil, nil, nil)
		target := createAssumption(t, seed, "Target")

		var buf relate.PendingBuffer
		require.NoError(t, buf.AddLink(types.PendingLink{
			LinkType: types.LinkTypeTests, TargetType: types.TypeAssumption, TargetID: target.EntityID,
		}))

		res := a.CreateEntity(ctx, CreateEntityInput{
			EntityType: types.TypeHypothesis, Title: "H", Pending: &buf,
		})
		require.True(t, res.Success)
		assert.NotEmpty(t, res.Warning)

		// The parent committed despite the failed sync.
		created := res.Data.(*types.Entity)
		entities, err := b.GetTable(types.TableEntities)
		require.NoError(t, err)
		_, err = entities.Get(created.EntityID)
		assert.NoError(t, err)
	})

	t.Run("notifies the revalidator", func(t *testing.T) {
		b := newTestBackend(t)
		reval := &recordingReval{}
		a := New(b, nil, reval, nil)
		createAssumption(t, a, "A")
		assert.Contains(t, reval.paths, "/"+types.TypeAssumption)
	})
}

func TestEntityReads(t *testing.T) {
	ctx := context.Background()

	t.Run("get by reference and by slug", func(t *testing.T) {
		a, _ := newTestActions(t)
		e := createAssumption(t, a, "Users will pay")

		res := a.GetEntity(ctx, e.Ref())
		require.True(t, res.Success)
		assert.Equal(t, e.EntityID, res.Data.(*types.Entity).EntityID)

		res = a.GetEntityBySlug(ctx, types.TypeAssumption, "users-will-pay")
		require.True(t, res.Success)
		assert.Equal(t, e.EntityID, res.Data.(*types.Entity).EntityID)
	})

	t.Run("missing records map to NOT_FOUND", func(t *testing.T) {
		a, _ := newTestActions(t)
		res := a.GetEntity(ctx, types.EntityRef{Type: types.TypeAssumption, ID: "nope"})
		assert.Equal(t, types.CodeNotFound, res.Code)
		res = a.GetEntityBySlug(ctx, types.TypeAssumption, "nope")
		assert.Equal(t, types.CodeNotFound, res.Code)
	})

	t.Run("list validates the entity type", func(t *testing.T) {
		a, _ := newTestActions(t)
		res := a.ListEntities(ctx, "gizmo", "")
		assert.Equal(t, types.CodeValidationError, res.Code)
	})

	t.Run("detached store maps to a generic database error", func(t *testing.T) {
		b := newTestBackend(t)
		a := New(b, nil, nil, nil)
		require.NoError(t, b.Detach())

		res := a.ListEntities(ctx, types.TypeAssumption, "")
		assert.Equal(t, types.CodeDatabaseError, res.Code)
		assert.Equal(t, "storage operation failed", res.Error)
	})
}

func TestLinkActions(t *testing.T) {
	ctx := context.Background()

	t.Run("update links and read them back grouped", func(t *testing.T) {
		a, _ := newTestActions(t)
		assumption := createAssumption(t, a, "A")
		res := a.CreateEntity(ctx, CreateEntityInput{EntityType: types.TypeHypothesis, Title: "H"})
		require.True(t, res.Success)
		h := res.Data.(*types.Entity)

		res = a.UpdateEntityLinks(ctx, assumption.Ref(), types.LinkTypeTests, types.TypeHypothesis, []string{h.EntityID})
		require.True(t, res.Success, res.Error)

		res = a.Relationships(ctx, assumption.Ref())
		require.True(t, res.Success)
		groups := res.Data.([]relate.Group)
		var found bool
		for _, g := range groups {
			for _, s := range g.Slots {
				if s.Label == "Tested by" && len(s.Items) == 1 {
					found = true
					assert.Equal(t, "H", s.Items[0].Label)
				}
			}
		}
		assert.True(t, found, "hypothesis should appear in the Tested by slot")
	})

	t.Run("mutations on an unpersisted parent are rejected", func(t *testing.T) {
		a, _ := newTestActions(t)
		res := a.UpdateEntityLinks(ctx, types.EntityRef{Type: types.TypeAssumption},
			types.LinkTypeTests, types.TypeHypothesis, []string{"h1"})
		assert.Equal(t, types.CodeValidationError, res.Code)
	})
}

func TestJourneyActions(t *testing.T) {
	ctx := context.Background()

	t.Run("reorder validates the id set", func(t *testing.T) {
		a, b := newTestActions(t)
		stages, err := b.GetTable(types.TableStages)
		require.NoError(t, err)
		id1, err := stages.Set("", &types.Stage{JourneyID: "j1", Name: "a"})
		require.NoError(t, err)
		_, err = stages.Set("", &types.Stage{JourneyID: "j1", Name: "b"})
		require.NoError(t, err)

		res := a.ReorderJourneyStages(ctx, "j1", []string{id1})
		assert.Equal(t, types.CodeValidationError, res.Code)
	})

	t.Run("out-of-range move is a validation error", func(t *testing.T) {
		a, b := newTestActions(t)
		stages, err := b.GetTable(types.TableStages)
		require.NoError(t, err)
		id1, err := stages.Set("", &types.Stage{JourneyID: "j1", Name: "a"})
		require.NoError(t, err)

		res := a.MoveJourneyStage(ctx, "j1", id1, -1)
		assert.Equal(t, types.CodeValidationError, res.Code)
	})
}

func TestAnnotationActions(t *testing.T) {
	ctx := context.Background()

	t.Run("add and list evidence", func(t *testing.T) {
		a, _ := newTestActions(t)
		e := createAssumption(t, a, "A")

		res := a.AddEvidence(ctx, e.Ref(), types.PendingEvidence{
			EvidenceType: types.EvidenceSurvey, Confidence: 0.4,
		})
		require.True(t, res.Success, res.Error)

		res = a.ListEvidence(ctx, e.Ref())
		require.True(t, res.Success)
		assert.Len(t, res.Data.([]any), 1)
	})

	t.Run("confidence out of range is a validation error", func(t *testing.T) {
		a, _ := newTestActions(t)
		e := createAssumption(t, a, "A")
		res := a.AddEvidence(ctx, e.Ref(), types.PendingEvidence{
			EvidenceType: types.EvidenceSurvey, Confidence: 2,
		})
		assert.Equal(t, types.CodeValidationError, res.Code)
	})

	t.Run("feedback stance defaults to neutral", func(t *testing.T) {
		a, _ := newTestActions(t)
		e := createAssumption(t, a, "A")
		res := a.AddFeedback(ctx, e.Ref(), types.PendingFeedback{
			HatType: types.HatBlue, FeedbackType: types.FeedbackComment, Content: "summing up",
		})
		require.True(t, res.Success, res.Error)

		res = a.ListFeedback(ctx, e.Ref())
		require.True(t, res.Success)
		items := res.Data.([]any)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].(*types.Feedback).Supports)
	})
}
