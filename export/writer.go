package export

import (
	"bomberman/searcher"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
	FormatParquet
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return FormatJSON, fmt.Errorf("unknown export format %q", s)
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatParquet:
		return "parquet"
	default:
		return "json"
	}
}

// Encode serialises the nested snapshot of tree. Parquet holds flat rows and
// can only be written to a file.
func Encode(format Format, tree *searcher.Tree) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tree.Snapshot(), "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(tree.Snapshot())
	default:
		return nil, fmt.Errorf("format %s cannot be encoded in memory", format.Extension())
	}
}

type job struct {
	agent int
	tree  *searcher.Tree
}

// Writer exports search trees on its own goroutine into a fresh directory per
// run. Trees that arrive while the buffer is full are dropped.
type Writer struct {
	dir     string
	format  Format
	trees   chan job
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	err     error
}

func NewWriter(baseDir string, format Format, buffer int) (*Writer, error) {
	dir := filepath.Join(baseDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	w := &Writer{
		dir:    dir,
		format: format,
		trees:  make(chan job, max(buffer, 1)),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

// Dropped is the number of trees lost to a full buffer.
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Submit queues a tree without blocking. It must not be called after Close.
func (w *Writer) Submit(agent int, tree *searcher.Tree) bool {
	select {
	case w.trees <- job{agent: agent, tree: tree}:
		return true
	default:
		w.dropped.Add(1)
		log.Warn().Int("agent", agent).Msg("export buffer full, dropping tree")
		return false
	}
}

// Hook submits the tree of every finished search.
func (w *Writer) Hook(agent int, result searcher.Result) {
	w.Submit(agent, result.Tree)
}

// Close waits for queued trees to be written and returns the first failure.
func (w *Writer) Close() error {
	w.once.Do(func() {
		close(w.trees)
	})
	<-w.done
	return w.err
}

func (w *Writer) run() {
	defer close(w.done)

	seq := 0
	for j := range w.trees {
		seq++
		name := fmt.Sprintf("tree_%05d_agent%d.%s", seq, j.agent, w.format.Extension())
		if err := w.write(filepath.Join(w.dir, name), j.tree); err != nil {
			log.Error().Err(err).Str("file", name).Msg("failed to export tree")
			if w.err == nil {
				w.err = err
			}
		}
	}
}

func (w *Writer) write(path string, tree *searcher.Tree) error {
	if w.format == FormatParquet {
		return writeParquet(path, tree.Flatten())
	}

	data, err := Encode(w.format, tree)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

func writeParquet(path string, rows []searcher.NodeRow) error {
	// Write to a temp file and rename atomically.
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "search_tree_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
