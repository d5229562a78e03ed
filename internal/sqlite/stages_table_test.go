// Unit tests for stage/touchpoint sequencing and the atomic reorder
// primitives.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/workbench/pkg/types"
)

// addStages creates n stages under journeyID and returns their ids in
// creation order.
func addStages(t *testing.T, b *Backend, journeyID string, n int) []string {
	t.Helper()
	tbl, err := b.GetTable(types.TableStages)
	require.NoError(t, err)

	ids := make([]string, n)
	for i := range ids {
		id, err := tbl.Set("", &types.Stage{JourneyID: journeyID, Name: string(rune('A' + i))})
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

// stageSequences fetches the journey's stages and returns id→sequence.
func stageSequences(t *testing.T, b *Backend, journeyID string) map[string]int {
	t.Helper()
	tbl, err := b.GetTable(types.TableStages)
	require.NoError(t, err)
	got, err := tbl.Fetch(types.Filter{"journey_id": journeyID})
	require.NoError(t, err)

	seqs := make(map[string]int, len(got))
	for _, item := range got {
		s := item.(*types.Stage)
		seqs[s.StageID] = s.Sequence
	}
	return seqs
}

func TestStageSequencing(t *testing.T) {
	t.Run("creation appends 0-based sequences", func(t *testing.T) {
		b := newTestBackend(t)
		ids := addStages(t, b, "j1", 3)
		seqs := stageSequences(t, b, "j1")
		for i, id := range ids {
			assert.Equal(t, i, seqs[id])
		}
	})

	t.Run("sequences are scoped per journey", func(t *testing.T) {
		b := newTestBackend(t)
		addStages(t, b, "j1", 2)
		ids := addStages(t, b, "j2", 1)
		assert.Equal(t, 0, stageSequences(t, b, "j2")[ids[0]])
	})

	t.Run("delete renumbers remaining siblings", func(t *testing.T) {
		b := newTestBackend(t)
		ids := addStages(t, b, "j1", 4)
		tbl, err := b.GetTable(types.TableStages)
		require.NoError(t, err)

		require.NoError(t, tbl.Delete(ids[1]))

		seqs := stageSequences(t, b, "j1")
		assert.Equal(t, 0, seqs[ids[0]])
		assert.Equal(t, 1, seqs[ids[2]])
		assert.Equal(t, 2, seqs[ids[3]])
	})
}

func TestReorderStages(t *testing.T) {
	t.Run("valid permutation renumbers all siblings", func(t *testing.T) {
		b := newTestBackend(t)
		ids := addStages(t, b, "j1", 4)

		// Move the stage at position 2 to position 0.
		reordered := []string{ids[2], ids[0], ids[1], ids[3]}
		require.NoError(t, b.ReorderStages("j1", reordered))

		seqs := stageSequences(t, b, "j1")
		for i, id := range reordered {
			assert.Equal(t, i, seqs[id])
		}
	})

	t.Run("id set mismatch rejects the whole call", func(t *testing.T) {
		b := newTestBackend(t)
		ids := addStages(t, b, "j1", 3)
		before := stageSequences(t, b, "j1")

		tests := []struct {
			name string
			ids  []string
		}{
			{"missing id", []string{ids[0], ids[1]}},
			{"foreign id", []string{ids[0], ids[1], "stranger"}},
			{"duplicate id", []string{ids[0], ids[1], ids[1]}},
			{"extra id", []string{ids[0], ids[1], ids[2], "extra"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := b.ReorderStages("j1", tt.ids)
				assert.ErrorIs(t, err, types.ErrSequenceSetMismatch)
				assert.Equal(t, before, stageSequences(t, b, "j1"), "no partial reordering applied")
			})
		}
	})

	t.Run("reorder is idempotent", func(t *testing.T) {
		b := newTestBackend(t)
		ids := addStages(t, b, "j1", 3)
		reordered := []string{ids[1], ids[2], ids[0]}
		require.NoError(t, b.ReorderStages("j1", reordered))
		require.NoError(t, b.ReorderStages("j1", reordered))

		seqs := stageSequences(t, b, "j1")
		for i, id := range reordered {
			assert.Equal(t, i, seqs[id])
		}
	})

	t.Run("empty journey id is invalid", func(t *testing.T) {
		b := newTestBackend(t)
		assert.ErrorIs(t, b.ReorderStages("", nil), types.ErrInvalidID)
	})
}

func TestTouchpoints(t *testing.T) {
	t.Run("creation appends and reorder renumbers", func(t *testing.T) {
		b := newTestBackend(t)
		tbl, err := b.GetTable(types.TableTouchpoints)
		require.NoError(t, err)

		var ids []string
		for _, name := range []string{"visit", "signup", "onboard"} {
			id, err := tbl.Set("", &types.Touchpoint{StageID: "s1", Name: name, Channel: types.ChannelWeb})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		require.NoError(t, b.ReorderTouchpoints("s1", []string{ids[2], ids[1], ids[0]}))

		got, err := tbl.Fetch(types.Filter{"stage_id": "s1"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "onboard", got[0].(*types.Touchpoint).Name)
		assert.Equal(t, "visit", got[2].(*types.Touchpoint).Name)
	})

	t.Run("unknown channel is rejected", func(t *testing.T) {
		b := newTestBackend(t)
		tbl, err := b.GetTable(types.TableTouchpoints)
		require.NoError(t, err)
		_, err = tbl.Set("", &types.Touchpoint{StageID: "s1", Name: "x", Channel: "smoke_signal"})
		assert.ErrorIs(t, err, types.ErrInvalidChannel)
	})
}
