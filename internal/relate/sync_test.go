// Unit tests for link set reconciliation.
package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/workbench/internal/sqlite"
	"github.com/venturelab/workbench/pkg/types"
)

// newTestStore attaches a fresh sqlite backend in a temp directory.
func newTestStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

// createEntity persists a catalog entity and returns its reference.
func createEntity(t *testing.T, b *sqlite.Backend, entityType, title string) types.EntityRef {
	t.Helper()
	tbl, err := b.GetTable(types.TableEntities)
	require.NoError(t, err)
	id, err := tbl.Set("", &types.Entity{EntityType: entityType, Title: title})
	require.NoError(t, err)
	return types.EntityRef{Type: entityType, ID: id}
}

// targetIDs fetches the parent's outbound links of one slot and returns a
// target-id → link-id map.
func targetIDs(t *testing.T, b *sqlite.Backend, source types.EntityRef, linkType, targetType string) map[string]string {
	t.Helper()
	tbl, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)
	got, err := tbl.Fetch(types.Filter{
		"link_type":   linkType,
		"source_type": source.Type,
		"source_id":   source.ID,
		"target_type": targetType,
	})
	require.NoError(t, err)

	out := make(map[string]string, len(got))
	for _, item := range got {
		l := item.(*types.Link)
		out[l.TargetID] = l.LinkID
	}
	return out
}

// countingStore records how many store calls a guarded operation makes.
type countingStore struct {
	calls int
}

func (c *countingStore) GetTable(string) (types.Table, error) {
	c.calls++
	return nil, types.ErrTableNotFound
}
func (c *countingStore) InsertLinks([]*types.Link) error { c.calls++; return nil }
func (c *countingStore) DeleteLinks([]string) error { c.calls++; return nil }
func (c *countingStore) InsertEvidence([]*types.Evidence) error { c.calls++; return nil }
func (c *countingStore) InsertFeedback([]*types.Feedback) error { c.calls++; return nil }
func (c *countingStore) RenumberLinks([]string) error { c.calls++; return nil }
func (c *countingStore) ReorderStages(string, []string) error { c.calls++; return nil }
func (c *countingStore) ReorderTouchpoints(string, []string) error {
	c.calls++
	return nil
}

func TestSyncLinks(t *testing.T) {
	t.Run("creates a link per desired target", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")
		a2 := createEntity(t, b, types.TypeAssumption, "A2")

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a1.ID, a2.ID}))

		got := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)
		assert.Len(t, got, 2)
		assert.Contains(t, got, a1.ID)
		assert.Contains(t, got, a2.ID)
	})

	t.Run("running the same sync twice changes nothing", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")
		a2 := createEntity(t, b, types.TypeAssumption, "A2")
		desired := []string{a1.ID, a2.ID}

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, desired))
		before := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)
		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, desired))
		after := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)

		// Surviving links keep their row identity, not just their endpoints.
		assert.Equal(t, before, after)
	})

	t.Run("converges to the desired set and keeps survivors intact", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")
		a2 := createEntity(t, b, types.TypeAssumption, "A2")
		a3 := createEntity(t, b, types.TypeAssumption, "A3")

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a1.ID, a2.ID}))
		before := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a2.ID, a3.ID}))
		after := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)

		assert.Len(t, after, 2)
		assert.NotContains(t, after, a1.ID)
		assert.Contains(t, after, a3.ID)
		assert.Equal(t, before[a2.ID], after[a2.ID], "kept link keeps its id")
	})

	t.Run("empty desired set removes every link in the slot", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a1.ID}))
		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, nil))
		assert.Empty(t, targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption))
	})

	t.Run("duplicate and empty ids in the desired list are ignored", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")

		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a1.ID, "", a1.ID}))
		assert.Len(t, targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption), 1)
	})

	t.Run("only touches the named slot", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a1 := createEntity(t, b, types.TypeAssumption, "A1")
		h2 := createEntity(t, b, types.TypeHypothesis, "H2")

		// A related-hypothesis link must survive a tests-slot sync.
		require.NoError(t, s.SyncLinks(h, types.LinkTypeRelated, types.TypeHypothesis, []string{h2.ID}))
		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, []string{a1.ID}))
		require.NoError(t, s.SyncLinks(h, types.LinkTypeTests, types.TypeAssumption, nil))

		assert.Len(t, targetIDs(t, b, h, types.LinkTypeRelated, types.TypeHypothesis), 1)
	})

	t.Run("parent without id writes nothing", func(t *testing.T) {
		store := &countingStore{}
		s := NewSyncer(store)
		err := s.SyncLinks(types.EntityRef{Type: types.TypeHypothesis}, types.LinkTypeTests, types.TypeAssumption, []string{"a1"})
		assert.ErrorIs(t, err, types.ErrMissingIdentifier)
		assert.Zero(t, store.calls, "guard must fire before any store call")
	})

	t.Run("invalid link and entity types are rejected", func(t *testing.T) {
		store := &countingStore{}
		s := NewSyncer(store)
		parent := types.EntityRef{Type: types.TypeHypothesis, ID: "h1"}

		err := s.SyncLinks(parent, "points_at", types.TypeAssumption, nil)
		assert.ErrorIs(t, err, types.ErrInvalidLinkType)
		err = s.SyncLinks(parent, types.LinkTypeTests, "gizmo", nil)
		assert.ErrorIs(t, err, types.ErrInvalidEntityType)
		assert.Zero(t, store.calls)
	})
}

func TestSyncLinksAsTarget(t *testing.T) {
	t.Run("stores links with the parent on the target side", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		a := createEntity(t, b, types.TypeAssumption, "A")
		h1 := createEntity(t, b, types.TypeHypothesis, "H1")
		h2 := createEntity(t, b, types.TypeHypothesis, "H2")

		require.NoError(t, s.SyncLinksAsTarget(a, types.LinkTypeTests, types.TypeHypothesis, []string{h1.ID, h2.ID}))

		// Each hypothesis now has an outbound tests link at the assumption.
		for _, h := range []types.EntityRef{h1, h2} {
			got := targetIDs(t, b, h, types.LinkTypeTests, types.TypeAssumption)
			assert.Contains(t, got, a.ID)
		}
	})

	t.Run("converges the inbound side", func(t *testing.T) {
		b := newTestStore(t)
		s := NewSyncer(b)
		a := createEntity(t, b, types.TypeAssumption, "A")
		h1 := createEntity(t, b, types.TypeHypothesis, "H1")
		h2 := createEntity(t, b, types.TypeHypothesis, "H2")

		require.NoError(t, s.SyncLinksAsTarget(a, types.LinkTypeTests, types.TypeHypothesis, []string{h1.ID}))
		require.NoError(t, s.SyncLinksAsTarget(a, types.LinkTypeTests, types.TypeHypothesis, []string{h2.ID}))

		assert.Empty(t, targetIDs(t, b, h1, types.LinkTypeTests, types.TypeAssumption))
		assert.Len(t, targetIDs(t, b, h2, types.LinkTypeTests, types.TypeAssumption), 1)
	})
}
