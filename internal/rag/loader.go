package rag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// supportedExtensions maps file extensions to their loader
var supportedExtensions = map[string]func(path string) ([]Document, error){
	".txt":      loadText,
	".md":       loadText,
	".markdown": loadText,
	".rst":      loadText,
	".pdf":      loadPDF,
	".docx":     loadDOCX,
	".html":     loadHTML,
	".htm":      loadHTML,
}

// IsSupported reports whether a file extension has a loader
func IsSupported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadFile loads one file into documents. Plain text yields a single
// document; PDFs yield one per page.
func LoadFile(path string) ([]Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := supportedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	docs, err := loader(path)
	if err != nil {
		return nil, err
	}
	// drop documents with no usable text (blank pages and the like)
	out := docs[:0]
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) != "" {
			out = append(out, doc)
		}
	}
	return out, nil
}
