package rag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCollectionNotFound is returned when a named collection has never
// been indexed
var ErrCollectionNotFound = errors.New("collection not found")

// ErrUnsupportedFormat is returned for files whose extension no loader handles
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNoDocuments is returned when an index run finds nothing loadable.
// No collection state is created or touched in that case.
var ErrNoDocuments = errors.New("no loadable documents")

// IndexWarning aggregates per-file load failures from an index run that
// still completed. The run indexed everything else; callers report the
// warning and exit zero.
type IndexWarning struct {
	Failures map[string]error
}

func (w *IndexWarning) Error() string {
	if w == nil || len(w.Failures) == 0 {
		return "index completed with warnings"
	}
	parts := make([]string, 0, len(w.Failures))
	for path, err := range w.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", path, err))
	}
	return fmt.Sprintf("skipped %d file(s): %s", len(w.Failures), strings.Join(parts, "; "))
}

type indexErrorCollector struct {
	failures map[string]error
}

func newIndexErrorCollector() *indexErrorCollector {
	return &indexErrorCollector{failures: make(map[string]error)}
}

func (c *indexErrorCollector) add(path string, err error) {
	if err == nil {
		return
	}
	c.failures[path] = err
}

func (c *indexErrorCollector) warning() *IndexWarning {
	if len(c.failures) == 0 {
		return nil
	}
	return &IndexWarning{Failures: c.failures}
}
