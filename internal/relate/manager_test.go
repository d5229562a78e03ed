// Unit tests for the slot-oriented relationship surface.
package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/workbench/pkg/types"
)

// slotByLabel digs one slot view out of grouped relationship output.
func slotByLabel(t *testing.T, groups []Group, label string) SlotView {
	t.Helper()
	for _, g := range groups {
		for _, s := range g.Slots {
			if s.Label == label {
				return s
			}
		}
	}
	t.Fatalf("no slot labeled %q", label)
	return SlotView{}
}

func TestRelationships(t *testing.T) {
	t.Run("groups slots and resolves labels", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		a := createEntity(t, b, types.TypeAssumption, "Users will pay")
		h := createEntity(t, b, types.TypeHypothesis, "Monthly beats annual")

		require.NoError(t, m.SetSlot(a, types.LinkTypeTests, types.TypeHypothesis, []string{h.ID}))

		groups, err := m.Relationships(a)
		require.NoError(t, err)

		slot := slotByLabel(t, groups, "Tested by")
		assert.Equal(t, types.DirInbound, slot.Direction)
		require.Len(t, slot.Items, 1)
		assert.Equal(t, "Monthly beats annual", slot.Items[0].Label)
		assert.Equal(t, h, slot.Items[0].Ref)

		// Every configured slot shows up even when empty.
		related := slotByLabel(t, groups, "Related assumptions")
		assert.Empty(t, related.Items)
	})

	t.Run("missing opposite record renders a placeholder", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a := createEntity(t, b, types.TypeAssumption, "A")
		require.NoError(t, m.SetSlot(h, types.LinkTypeTests, types.TypeAssumption, []string{a.ID}))

		// Simulate a stale link by inserting one by hand at a gone id.
		require.NoError(t, b.InsertLinks([]*types.Link{{
			LinkType:   types.LinkTypeTests,
			SourceType: types.TypeHypothesis, SourceID: h.ID,
			TargetType: types.TypeAssumption, TargetID: "0123456789abcdef",
		}}))

		groups, err := m.Relationships(h)
		require.NoError(t, err)
		slot := slotByLabel(t, groups, "Tests assumption")
		require.Len(t, slot.Items, 2)

		labels := []string{slot.Items[0].Label, slot.Items[1].Label}
		assert.Contains(t, labels, "A")
		assert.Contains(t, labels, "(missing assumption 01234567)")
	})

	t.Run("parent without id is rejected", func(t *testing.T) {
		m := NewManager(&countingStore{})
		_, err := m.Relationships(types.EntityRef{Type: types.TypeAssumption})
		assert.ErrorIs(t, err, types.ErrMissingIdentifier)
	})
}

func TestSetSlot(t *testing.T) {
	t.Run("unknown slot is rejected", func(t *testing.T) {
		store := &countingStore{}
		m := NewManager(store)
		a := types.EntityRef{Type: types.TypeAssumption, ID: "a1"}
		err := m.SetSlot(a, types.LinkTypeContains, types.TypeSpecimen, []string{"s1"})
		assert.ErrorIs(t, err, types.ErrSlotNotFound)
		assert.Zero(t, store.calls)
	})

	t.Run("ordered slot stays contiguous across a reconcile", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		c := createEntity(t, b, types.TypeCanvas, "Main")

		var vps []types.EntityRef
		for _, title := range []string{"VP1", "VP2", "VP3", "VP4"} {
			vps = append(vps, createEntity(t, b, types.TypeCanvas, title))
		}
		for _, v := range vps[:3] {
			_, err := m.Add(c, types.LinkTypeRelated, types.TypeCanvas, v.ID, "")
			require.NoError(t, err)
		}

		// Drop VP2, keep VP1 and VP3, add VP4 in one reconcile.
		require.NoError(t, m.SetSlot(c, types.LinkTypeRelated, types.TypeCanvas,
			[]string{vps[0].ID, vps[2].ID, vps[3].ID}))

		groups, err := m.Relationships(c)
		require.NoError(t, err)
		slot := slotByLabel(t, groups, "Value Propositions")
		require.Len(t, slot.Items, 3)
		for i, want := range []types.EntityRef{vps[0], vps[2], vps[3]} {
			assert.Equal(t, want, slot.Items[i].Ref)
			assert.Equal(t, i, slot.Items[i].Position)
		}
	})

	t.Run("inbound slot reconciles the target side", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		a := createEntity(t, b, types.TypeAssumption, "A")
		h1 := createEntity(t, b, types.TypeHypothesis, "H1")
		h2 := createEntity(t, b, types.TypeHypothesis, "H2")

		require.NoError(t, m.SetSlot(a, types.LinkTypeTests, types.TypeHypothesis, []string{h1.ID}))
		require.NoError(t, m.SetSlot(a, types.LinkTypeTests, types.TypeHypothesis, []string{h2.ID}))

		assert.Empty(t, targetIDs(t, b, h1, types.LinkTypeTests, types.TypeAssumption))
		assert.Len(t, targetIDs(t, b, h2, types.LinkTypeTests, types.TypeAssumption), 1)
	})
}

func TestAddRemove(t *testing.T) {
	t.Run("add appends to an ordered slot", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		c := createEntity(t, b, types.TypeCanvas, "Main")
		v1 := createEntity(t, b, types.TypeCanvas, "VP1")
		v2 := createEntity(t, b, types.TypeCanvas, "VP2")

		l1, err := m.Add(c, types.LinkTypeRelated, types.TypeCanvas, v1.ID, "")
		require.NoError(t, err)
		l2, err := m.Add(c, types.LinkTypeRelated, types.TypeCanvas, v2.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 0, l1.Position)
		assert.Equal(t, 1, l2.Position)
	})

	t.Run("adding the same entity twice fails", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		a := createEntity(t, b, types.TypeAssumption, "A")

		_, err := m.Add(h, types.LinkTypeTests, types.TypeAssumption, a.ID, "")
		require.NoError(t, err)
		_, err = m.Add(h, types.LinkTypeTests, types.TypeAssumption, a.ID, "again")
		assert.ErrorIs(t, err, types.ErrDuplicateLink)
	})

	t.Run("remove from an ordered slot renumbers the rest", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		c := createEntity(t, b, types.TypeCanvas, "Main")

		var linkIDs []string
		var vps []types.EntityRef
		for _, title := range []string{"VP1", "VP2", "VP3"} {
			v := createEntity(t, b, types.TypeCanvas, title)
			vps = append(vps, v)
			l, err := m.Add(c, types.LinkTypeRelated, types.TypeCanvas, v.ID, "")
			require.NoError(t, err)
			linkIDs = append(linkIDs, l.LinkID)
		}

		require.NoError(t, m.Remove(c, linkIDs[0]))

		groups, err := m.Relationships(c)
		require.NoError(t, err)
		slot := slotByLabel(t, groups, "Value Propositions")
		require.Len(t, slot.Items, 2)
		assert.Equal(t, vps[1], slot.Items[0].Ref)
		assert.Equal(t, 0, slot.Items[0].Position)
		assert.Equal(t, 1, slot.Items[1].Position)
	})

	t.Run("remove rejects a link that does not touch the parent", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		h1 := createEntity(t, b, types.TypeHypothesis, "H1")
		h2 := createEntity(t, b, types.TypeHypothesis, "H2")
		a := createEntity(t, b, types.TypeAssumption, "A")

		l, err := m.Add(h1, types.LinkTypeTests, types.TypeAssumption, a.ID, "")
		require.NoError(t, err)

		assert.ErrorIs(t, m.Remove(h2, l.LinkID), types.ErrNotFound)

		// The link is still there.
		assert.Len(t, targetIDs(t, b, h1, types.LinkTypeTests, types.TypeAssumption), 1)
	})
}

func TestReorderSlot(t *testing.T) {
	setup := func(t *testing.T) (*Manager, types.EntityRef, []types.EntityRef) {
		b := newTestStore(t)
		m := NewManager(b)
		c := createEntity(t, b, types.TypeCanvas, "Main")
		var vps []types.EntityRef
		for _, title := range []string{"VP1", "VP2", "VP3"} {
			v := createEntity(t, b, types.TypeCanvas, title)
			_, err := m.Add(c, types.LinkTypeRelated, types.TypeCanvas, v.ID, "")
			require.NoError(t, err)
			vps = append(vps, v)
		}
		return m, c, vps
	}

	t.Run("valid permutation reorders the slot", func(t *testing.T) {
		m, c, vps := setup(t)
		require.NoError(t, m.ReorderSlot(c, types.LinkTypeRelated, types.TypeCanvas,
			[]string{vps[2].ID, vps[0].ID, vps[1].ID}))

		groups, err := m.Relationships(c)
		require.NoError(t, err)
		slot := slotByLabel(t, groups, "Value Propositions")
		require.Len(t, slot.Items, 3)
		assert.Equal(t, vps[2], slot.Items[0].Ref)
		assert.Equal(t, vps[0], slot.Items[1].Ref)
	})

	t.Run("mismatched id set leaves the order alone", func(t *testing.T) {
		m, c, vps := setup(t)
		err := m.ReorderSlot(c, types.LinkTypeRelated, types.TypeCanvas, []string{vps[0].ID, vps[1].ID})
		assert.ErrorIs(t, err, types.ErrSequenceSetMismatch)
		err = m.ReorderSlot(c, types.LinkTypeRelated, types.TypeCanvas,
			[]string{vps[0].ID, vps[1].ID, vps[1].ID})
		assert.ErrorIs(t, err, types.ErrSequenceSetMismatch)

		groups, err := m.Relationships(c)
		require.NoError(t, err)
		slot := slotByLabel(t, groups, "Value Propositions")
		assert.Equal(t, vps[0], slot.Items[0].Ref)
	})

	t.Run("unordered slot cannot be reordered", func(t *testing.T) {
		b := newTestStore(t)
		m := NewManager(b)
		h := createEntity(t, b, types.TypeHypothesis, "H")
		err := m.ReorderSlot(h, types.LinkTypeTests, types.TypeAssumption, nil)
		assert.ErrorIs(t, err, types.ErrSlotNotFound)
	})
}
