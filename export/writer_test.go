package export

import (
	"bomberman/game"
	"bomberman/searcher"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func searchTree(t *testing.T) *searcher.Tree {
	t.Helper()
	sc, err := game.ParseScenario([]string{"0....", ".x.x.", "....1"})
	require.NoError(t, err)
	s := sc.NewGameState(func(_ int, _ *game.GameState, p *game.Player) game.Agent {
		return game.NewStaticAgent(p)
	})
	m := searcher.NewMCTS(searcher.WithSeed(1), searcher.WithEpisodes(20), searcher.WithDuration(10*time.Second))
	return m.Search(context.Background(), s, 0).Tree
}

func TestParseFormat(t *testing.T) {
	for input, expected := range map[string]Format{
		"":        FormatJSON,
		"json":    FormatJSON,
		"msgpack": FormatMsgpack,
		"parquet": FormatParquet,
	} {
		format, err := ParseFormat(input)
		require.NoError(t, err)
		require.Equal(t, expected, format)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestEncode(t *testing.T) {
	tree := searchTree(t)

	t.Run("json", func(t *testing.T) {
		data, err := Encode(FormatJSON, tree)
		require.NoError(t, err)

		var root searcher.NodeDTO
		require.NoError(t, json.Unmarshal(data, &root))
		require.Nil(t, root.Action)
		require.Equal(t, 20, root.Visits)
		require.NotEmpty(t, root.Children)
		require.NotNil(t, root.Children[0].Action)
		require.Equal(t, 5, root.State.Width)
		require.Len(t, root.State.Players, 2)
	})

	t.Run("msgpack", func(t *testing.T) {
		data, err := Encode(FormatMsgpack, tree)
		require.NoError(t, err)

		var root searcher.NodeDTO
		require.NoError(t, msgpack.Unmarshal(data, &root))
		expected := tree.Snapshot()
		require.Equal(t, expected.Visits, root.Visits)
		require.Equal(t, expected.TotalReward, root.TotalReward)
		require.Len(t, root.Children, len(expected.Children))
		require.Equal(t, *expected.Children[0].Action, *root.Children[0].Action)
		require.Equal(t, expected.State.Tiles, root.State.Tiles)
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		_, err := Encode(FormatParquet, tree)
		require.Error(t, err)
	})
}

func TestWriter(t *testing.T) {
	tree := searchTree(t)

	for _, format := range []Format{FormatJSON, FormatMsgpack, FormatParquet} {
		t.Run(format.Extension(), func(t *testing.T) {
			w, err := NewWriter(t.TempDir(), format, 4)
			require.NoError(t, err)

			require.True(t, w.Submit(0, tree))
			w.Hook(1, searcher.Result{Tree: tree})
			require.NoError(t, w.Close())

			files, err := filepath.Glob(filepath.Join(w.Dir(), "*."+format.Extension()))
			require.NoError(t, err)
			require.Len(t, files, 2)
			require.Equal(t, "tree_00001_agent0."+format.Extension(), filepath.Base(files[0]))
			require.Equal(t, "tree_00002_agent1."+format.Extension(), filepath.Base(files[1]))
		})
	}

	t.Run("parquet rows match the flattened tree", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), FormatParquet, 1)
		require.NoError(t, err)
		w.Submit(0, tree)
		require.NoError(t, w.Close())

		rows, err := parquet.ReadFile[searcher.NodeRow](filepath.Join(w.Dir(), "tree_00001_agent0.parquet"))
		require.NoError(t, err)
		require.Equal(t, tree.Flatten(), rows)
	})

	t.Run("each writer gets its own directory", func(t *testing.T) {
		base := t.TempDir()
		a, err := NewWriter(base, FormatJSON, 1)
		require.NoError(t, err)
		b, err := NewWriter(base, FormatJSON, 1)
		require.NoError(t, err)
		require.NoError(t, a.Close())
		require.NoError(t, b.Close())

		require.NotEqual(t, a.Dir(), b.Dir())
		entries, err := os.ReadDir(base)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("a full buffer drops trees", func(t *testing.T) {
		w := &Writer{trees: make(chan job, 1)}

		require.True(t, w.Submit(0, tree))
		require.False(t, w.Submit(0, tree))
		require.Equal(t, int64(1), w.Dropped())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), FormatJSON, 1)
		require.NoError(t, err)

		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	})
}
