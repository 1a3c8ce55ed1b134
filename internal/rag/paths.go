package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// collectionNamePattern keeps collection names safe to use as directory names
var collectionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// CollectionsDir returns the directory that holds all collections
func CollectionsDir(baseDir string) string {
	return filepath.Join(baseDir, "collections")
}

// CollectionDir returns the directory for one named collection
func CollectionDir(baseDir, name string) string {
	return filepath.Join(CollectionsDir(baseDir), name)
}

// ValidateCollectionName rejects names that would escape the collections dir
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is empty")
	}
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q (use letters, digits, '.', '_' or '-')", name)
	}
	return nil
}

// CollectionExists reports whether a collection directory is present
func CollectionExists(baseDir, name string) bool {
	info, err := os.Stat(CollectionDir(baseDir, name))
	return err == nil && info.IsDir()
}

// ListCollectionNames returns the names of all collections, sorted
func ListCollectionNames(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(CollectionsDir(baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collections dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func metaPath(colDir string) string {
	return filepath.Join(colDir, "meta.json")
}

func vectorDBDir(colDir string) string {
	return colDir
}

func textIndexDir(colDir string) string {
	return filepath.Join(colDir, "text")
}
