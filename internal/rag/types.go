package rag

import "time"

// Document is one loaded unit of source text before chunking.
// A plain text file yields one Document; a PDF yields one per page.
type Document struct {
	Content string
	Source  string // path as given on the command line
	Page    int    // 1-based page number, 0 when the format has no pages
}

// Chunk is a piece of a document sized for embedding
type Chunk struct {
	ID         string
	Content    string
	Source     string
	Page       int
	StartIndex int // rune offset of the chunk within its document
}

// ScoredChunk is a chunk returned from similarity search.
// The vector rides along so reranking can run over the candidate set
// without another store round trip.
type ScoredChunk struct {
	Chunk
	Score  float64
	Vector []float32
}

// CollectionMeta is the persisted summary of a collection (meta.json)
type CollectionMeta struct {
	ChunkCount int       `json:"chunk_count"`
	Sources    []string  `json:"sources"`
	Updated    time.Time `json:"updated"`
}

// CollectionInfo pairs a collection name with its metadata for listings
type CollectionInfo struct {
	Name string
	Meta CollectionMeta
}

// Answer is the result of one retrieval-augmented generation run
type Answer struct {
	Question   string
	Text       string
	Collection string
	Model      string
	Sources    []ScoredChunk
	Latency    time.Duration
}
