package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/DreamCats/docrag/internal/config"
)

// OpenVectorStore opens the configured vector backend for one collection
func OpenVectorStore(cfg *config.Config, name string) (VectorStore, error) {
	switch cfg.Store.Backend {
	case "qdrant":
		return NewQdrantStore(cfg.Store.QdrantURL, cfg.Store.QdrantAPIKey, name), nil
	default:
		return NewLocalVectorStore(vectorDBDir(CollectionDir(cfg.Store.Path, name)))
	}
}

// ReadMeta loads a collection's meta.json
func ReadMeta(baseDir, name string) (CollectionMeta, error) {
	var meta CollectionMeta
	data, err := os.ReadFile(metaPath(CollectionDir(baseDir, name)))
	if err != nil {
		if os.IsNotExist(err) {
			return meta, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
		}
		return meta, fmt.Errorf("read collection meta: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse collection meta: %w", err)
	}
	return meta, nil
}

// writeMeta persists a collection's meta.json with sources sorted and the
// update time in UTC
func writeMeta(colDir string, meta CollectionMeta) error {
	sort.Strings(meta.Sources)
	meta.Updated = meta.Updated.UTC().Truncate(time.Second)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection meta: %w", err)
	}
	if err := os.MkdirAll(colDir, 0o755); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	if err := os.WriteFile(metaPath(colDir), data, 0o644); err != nil {
		return fmt.Errorf("write collection meta: %w", err)
	}
	return nil
}

// ListCollections returns all collections with their metadata, sorted by name
func ListCollections(baseDir string) ([]CollectionInfo, error) {
	names, err := ListCollectionNames(baseDir)
	if err != nil {
		return nil, err
	}
	infos := make([]CollectionInfo, 0, len(names))
	for _, name := range names {
		meta, err := ReadMeta(baseDir, name)
		if err != nil {
			// a half-written collection still shows up, just without stats
			LogWarn("collection meta unreadable", map[string]interface{}{
				"collection": name,
				"err":        err.Error(),
			})
			meta = CollectionMeta{}
		}
		infos = append(infos, CollectionInfo{Name: name, Meta: meta})
	}
	return infos, nil
}

// PreviewAll lists the collections ConfirmDeleteAll would remove, sorted
// by name, without touching anything. Callers show this to the user and
// only call ConfirmDeleteAll after an explicit confirmation.
func PreviewAll(baseDir string) ([]string, error) {
	return ListCollectionNames(baseDir)
}

// ConfirmDeleteAll removes every collection under the store path and
// reports how many were deleted. Qdrant-backed collections are dropped
// server-side first, the same way ClearCollection does for a single one.
func ConfirmDeleteAll(ctx context.Context, cfg *config.Config) (int, error) {
	names, err := ListCollectionNames(cfg.Store.Path)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, name := range names {
		if err := ClearCollection(ctx, cfg, name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// ClearCollection removes a collection's stored data. With the qdrant
// backend the server-side collection is dropped as well.
func ClearCollection(ctx context.Context, cfg *config.Config, name string) error {
	if err := ValidateCollectionName(name); err != nil {
		return err
	}
	if !CollectionExists(cfg.Store.Path, name) {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	if cfg.Store.Backend == "qdrant" {
		store := NewQdrantStore(cfg.Store.QdrantURL, cfg.Store.QdrantAPIKey, name)
		if err := store.Drop(ctx); err != nil {
			return fmt.Errorf("drop qdrant collection: %w", err)
		}
	}

	if err := os.RemoveAll(CollectionDir(cfg.Store.Path, name)); err != nil {
		return fmt.Errorf("remove collection dir: %w", err)
	}
	LogInfo("collection cleared", map[string]interface{}{"collection": name})
	return nil
}
