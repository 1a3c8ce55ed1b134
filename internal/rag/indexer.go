package rag

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/DreamCats/docrag/internal/config"
	"github.com/DreamCats/docrag/internal/embedding"
)

// IndexResult summarizes a completed index run
type IndexResult struct {
	Collection string
	Files      int
	Documents  int
	Chunks     int
	TotalCount int // chunk count in the collection after the merge
}

// IndexPaths loads, chunks, embeds and stores the given files or
// directories into a collection. All embeddings are generated before
// anything is written, so a failing embedding service leaves the
// collection exactly as it was. Re-indexing a source appends a fresh set
// of chunks; use ClearCollection first for a rebuild.
//
// Per-file load failures do not abort the run; they come back as an
// *IndexWarning alongside a valid result.
func IndexPaths(ctx context.Context, cfg *config.Config, embedder *embedding.Service, collection string, paths []string, reporter ProgressReporter) (*IndexResult, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input paths given")
	}

	collector := newIndexErrorCollector()
	files, err := collectFiles(paths, cfg.Indexer.Exclude, collector)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if warn := collector.warning(); warn != nil {
			return nil, fmt.Errorf("%w (%s)", ErrNoDocuments, warn.Error())
		}
		return nil, ErrNoDocuments
	}

	LogInfo("index run starting", map[string]interface{}{
		"collection": collection,
		"files":      len(files),
	})

	// Phase 1: load and chunk everything up front
	splitter := NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	var chunks []Chunk
	var docCount int
	sources := make(map[string]struct{})
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := LoadFile(file)
		if err != nil {
			collector.add(file, err)
			LogWarn("file skipped", map[string]interface{}{"path": file, "err": err.Error()})
			continue
		}
		if len(docs) == 0 {
			continue
		}
		docCount += len(docs)
		sources[file] = struct{}{}
		for _, doc := range docs {
			chunks = append(chunks, splitter.SplitDocument(doc)...)
		}
	}
	if len(chunks) == 0 {
		if warn := collector.warning(); warn != nil {
			return nil, fmt.Errorf("%w (%s)", ErrNoDocuments, warn.Error())
		}
		return nil, ErrNoDocuments
	}

	// Phase 2: embed everything before touching the store
	vectors, err := embedChunks(ctx, embedder, cfg.Embedding.BatchSize, chunks, reporter)
	if err != nil {
		return nil, err
	}

	// Phase 3: persist. The run is committed from here on, so a Ctrl-C
	// racing the final writes must not leave a half-merged collection.
	persistCtx := context.WithoutCancel(ctx)
	result, err := persistChunks(persistCtx, cfg, collection, chunks, vectors, sources, docCount, len(files))
	if err != nil {
		return nil, err
	}

	LogInfo("index run finished", map[string]interface{}{
		"collection": collection,
		"chunks":     result.Chunks,
		"total":      result.TotalCount,
	})
	if warn := collector.warning(); warn != nil {
		return result, warn
	}
	return result, nil
}

func embedChunks(ctx context.Context, embedder *embedding.Service, batchSize int, chunks []Chunk, reporter ProgressReporter) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 10
	}
	if reporter != nil {
		reporter.Start(len(chunks))
		defer reporter.Finish()
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}
		batch, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
		if reporter != nil {
			for range batch {
				reporter.Increment()
			}
		}
	}
	return vectors, nil
}

func persistChunks(ctx context.Context, cfg *config.Config, collection string, chunks []Chunk, vectors [][]float32, sources map[string]struct{}, docCount, fileCount int) (*IndexResult, error) {
	colDir := CollectionDir(cfg.Store.Path, collection)

	var meta CollectionMeta
	if CollectionExists(cfg.Store.Path, collection) {
		if existing, err := ReadMeta(cfg.Store.Path, collection); err == nil {
			meta = existing
		}
	}

	store, err := OpenVectorStore(cfg, collection)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	dims := 0
	for _, vec := range vectors {
		if len(vec) > 0 {
			dims = len(vec)
			break
		}
	}
	if err := store.EnsureReady(ctx, dims); err != nil {
		return nil, err
	}

	points := make([]VectorPoint, 0, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) == 0 {
			continue
		}
		points = append(points, VectorPoint{
			ID:     chunk.ID,
			Vector: vectors[i],
			Payload: map[string]any{
				"source":      chunk.Source,
				"page":        chunk.Page,
				"start_index": chunk.StartIndex,
				"content":     chunk.Content,
			},
		})
	}
	if err := store.UpsertPoints(ctx, points); err != nil {
		return nil, fmt.Errorf("store vectors: %w", err)
	}

	if err := indexChunkText(colDir, chunks); err != nil {
		return nil, err
	}

	meta.ChunkCount += len(points)
	merged := make(map[string]struct{}, len(meta.Sources)+len(sources))
	for _, s := range meta.Sources {
		merged[s] = struct{}{}
	}
	for s := range sources {
		merged[s] = struct{}{}
	}
	meta.Sources = make([]string, 0, len(merged))
	for s := range merged {
		meta.Sources = append(meta.Sources, s)
	}
	meta.Updated = time.Now()
	if err := writeMeta(colDir, meta); err != nil {
		return nil, err
	}

	return &IndexResult{
		Collection: collection,
		Files:      fileCount,
		Documents:  docCount,
		Chunks:     len(points),
		TotalCount: meta.ChunkCount,
	}, nil
}

func indexChunkText(colDir string, chunks []Chunk) error {
	dir := textIndexDir(colDir)

	var indexer TextIndexer
	if _, err := os.Stat(dir); err == nil {
		index, err := OpenTextIndex(dir)
		if err != nil {
			return err
		}
		indexer = &BleveIndexer{index: index}
	} else {
		created, err := CreateTextIndex(dir)
		if err != nil {
			return err
		}
		indexer = created
	}
	defer indexer.Close()

	for _, chunk := range chunks {
		doc := TextDoc{Content: chunk.Content, Source: chunk.Source, Page: chunk.Page}
		if err := indexer.IndexDoc(chunk.ID, doc); err != nil {
			return fmt.Errorf("index chunk text: %w", err)
		}
	}
	return nil
}

// collectFiles expands the input paths into a sorted list of loadable
// files. Directories are walked recursively; exclude patterns apply to
// paths relative to the walked directory.
func collectFiles(paths []string, exclude []string, collector *indexErrorCollector) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			collector.add(path, err)
			continue
		}
		if !info.IsDir() {
			if !IsSupported(path) {
				collector.add(path, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path)))
				continue
			}
			addFile(filepath.Clean(path))
			continue
		}

		root := filepath.Clean(path)
		walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				collector.add(p, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				rel = p
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if matchesAny(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchesAny(exclude, rel) || !IsSupported(p) {
				return nil
			}
			addFile(p)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", path, walkErr)
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
