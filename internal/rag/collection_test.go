package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DreamCats/docrag/internal/config"
)

func localConfig(baseDir string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Backend: "local", Path: baseDir},
	}
}

func TestMetaRoundTrip(t *testing.T) {
	base := t.TempDir()
	colDir := CollectionDir(base, "docs")

	meta := CollectionMeta{
		ChunkCount: 42,
		Sources:    []string{"b.txt", "a.pdf"},
		Updated:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := writeMeta(colDir, meta); err != nil {
		t.Fatalf("writeMeta() error = %v", err)
	}

	got, err := ReadMeta(base, "docs")
	if err != nil {
		t.Fatalf("ReadMeta() error = %v", err)
	}
	if got.ChunkCount != 42 {
		t.Errorf("chunk count = %d, want 42", got.ChunkCount)
	}
	// sources come back sorted
	if len(got.Sources) != 2 || got.Sources[0] != "a.pdf" || got.Sources[1] != "b.txt" {
		t.Errorf("sources = %v, want sorted [a.pdf b.txt]", got.Sources)
	}
	if !got.Updated.Equal(meta.Updated) {
		t.Errorf("updated = %v, want %v", got.Updated, meta.Updated)
	}
}

func TestReadMetaMissingCollection(t *testing.T) {
	_, err := ReadMeta(t.TempDir(), "ghost")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("error = %v, want ErrCollectionNotFound", err)
	}
}

func TestListCollections(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"zeta", "alpha"} {
		if err := writeMeta(CollectionDir(base, name), CollectionMeta{ChunkCount: 1}); err != nil {
			t.Fatal(err)
		}
	}
	// stray file in the collections dir is not a collection
	if err := os.WriteFile(filepath.Join(CollectionsDir(base), "noise.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := ListCollections(base)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("collections = %d, want 2", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Errorf("order = [%s %s], want [alpha zeta]", infos[0].Name, infos[1].Name)
	}
}

func TestListCollectionsEmptyBase(t *testing.T) {
	infos, err := ListCollections(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("collections = %d, want 0", len(infos))
	}
}

func TestClearCollection(t *testing.T) {
	base := t.TempDir()
	if err := writeMeta(CollectionDir(base, "docs"), CollectionMeta{ChunkCount: 3}); err != nil {
		t.Fatal(err)
	}

	if err := ClearCollection(context.Background(), localConfig(base), "docs"); err != nil {
		t.Fatalf("ClearCollection() error = %v", err)
	}
	if CollectionExists(base, "docs") {
		t.Error("collection dir still present after clear")
	}

	// clearing again reports not found
	err := ClearCollection(context.Background(), localConfig(base), "docs")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("second clear error = %v, want ErrCollectionNotFound", err)
	}
}

func TestPreviewAllThenConfirmDeleteAll(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"notes", "docs", "work"} {
		if err := writeMeta(CollectionDir(base, name), CollectionMeta{ChunkCount: 1}); err != nil {
			t.Fatal(err)
		}
	}

	// preview names everything without deleting anything
	names, err := PreviewAll(base)
	if err != nil {
		t.Fatalf("PreviewAll() error = %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("PreviewAll() = %v, want 3 names", names)
	}
	if names[0] != "docs" || names[1] != "notes" || names[2] != "work" {
		t.Errorf("PreviewAll() order = %v, want [docs notes work]", names)
	}
	for _, name := range names {
		if !CollectionExists(base, name) {
			t.Fatalf("preview deleted collection %q", name)
		}
	}

	deleted, err := ConfirmDeleteAll(context.Background(), localConfig(base))
	if err != nil {
		t.Fatalf("ConfirmDeleteAll() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	for _, name := range names {
		if CollectionExists(base, name) {
			t.Errorf("collection %q still present after delete all", name)
		}
	}
}

func TestConfirmDeleteAllEmptyStore(t *testing.T) {
	deleted, err := ConfirmDeleteAll(context.Background(), localConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("ConfirmDeleteAll() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestValidateCollectionName(t *testing.T) {
	valid := []string{"docs", "my-notes", "v1.2", "a_b", "A9"}
	for _, name := range valid {
		if err := ValidateCollectionName(name); err != nil {
			t.Errorf("ValidateCollectionName(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", "../escape", "has space", ".hidden", "a/b"}
	for _, name := range invalid {
		if err := ValidateCollectionName(name); err == nil {
			t.Errorf("ValidateCollectionName(%q) = nil, want error", name)
		}
	}
}
