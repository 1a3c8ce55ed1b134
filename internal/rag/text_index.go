package rag

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// TextDoc is what the keyword index stores per chunk
type TextDoc struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

// TextIndexer writes chunk text into the keyword index
type TextIndexer interface {
	IndexDoc(id string, doc TextDoc) error
	Close() error
}

type BleveIndexer struct {
	index bleve.Index
}

// CreateTextIndex resets and creates the keyword index for a collection.
// Index runs rebuild keyword search from scratch; the vector store is
// the source of truth for chunk content.
func CreateTextIndex(dir string) (TextIndexer, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("reset text index dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create text index dir: %w", err)
	}
	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &BleveIndexer{index: index}, nil
}

// OpenTextIndex opens an existing keyword index for querying
func OpenTextIndex(dir string) (bleve.Index, error) {
	index, err := bleve.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open text index: %w", err)
	}
	return index, nil
}

func (b *BleveIndexer) IndexDoc(id string, doc TextDoc) error {
	return b.index.Index(id, doc)
}

func (b *BleveIndexer) Close() error {
	return b.index.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = true
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	sourceField := bleve.NewTextFieldMapping()
	sourceField.Store = true
	sourceField.Index = true
	docMapping.AddFieldMappingsAt("source", sourceField)

	pageField := bleve.NewNumericFieldMapping()
	pageField.Store = true
	pageField.Index = false
	docMapping.AddFieldMappingsAt("page", pageField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// TextHit is one keyword search result
type TextHit struct {
	ID      string
	Source  string
	Page    int
	Score   float64
	Snippet string
}

// SearchText runs a keyword query against a collection's text index
func SearchText(dir, query string, topK int) ([]TextHit, error) {
	if topK <= 0 {
		topK = 10
	}
	index, err := OpenTextIndex(dir)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	contentQuery := bleve.NewMatchQuery(query)
	contentQuery.SetField("content")
	sourceQuery := bleve.NewMatchQuery(query)
	sourceQuery.SetField("source")
	combined := bleve.NewDisjunctionQuery(contentQuery, sourceQuery)

	req := bleve.NewSearchRequestOptions(combined, topK, 0, false)
	req.Fields = []string{"content", "source", "page"}
	req.Highlight = bleve.NewHighlightWithStyle("ansi")
	req.Highlight.AddField("content")

	result, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search text index: %w", err)
	}

	hits := make([]TextHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		th := TextHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["source"].(string); ok {
			th.Source = v
		}
		if v, ok := hit.Fields["page"].(float64); ok {
			th.Page = int(v)
		}
		if fragments, ok := hit.Fragments["content"]; ok && len(fragments) > 0 {
			th.Snippet = fragments[0]
		} else if v, ok := hit.Fields["content"].(string); ok {
			if len(v) > 200 {
				v = v[:200]
			}
			th.Snippet = v
		}
		hits = append(hits, th)
	}
	return hits, nil
}
