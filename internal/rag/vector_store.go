package rag

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// VectorPoint is one embedded chunk ready for storage
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// VectorStore persists embedded chunks for one collection and answers
// similarity queries over them
type VectorStore interface {
	EnsureReady(ctx context.Context, dims int) error
	UpsertPoints(ctx context.Context, points []VectorPoint) error
	SearchSimilar(ctx context.Context, vector []float32, topK int) ([]ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Drop(ctx context.Context) error
	Close() error
}

// LocalVectorStore keeps vectors in a SQLite file inside the collection
// directory. Vectors are stored as JSON arrays; similarity is computed in
// process, which is plenty for collections in the tens of thousands of
// chunks.
type LocalVectorStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewLocalVectorStore opens (creating if needed) the vector database in dir
func NewLocalVectorStore(dir string) (*LocalVectorStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("vector store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, "vectors.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	store := &LocalVectorStore{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *LocalVectorStore) EnsureReady(ctx context.Context, dims int) error {
	return s.initSchema()
}

func (s *LocalVectorStore) UpsertPoints(ctx context.Context, points []VectorPoint) error {
	if len(points) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO chunks
		(id, source, page, start_index, content, vector)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		vectorJSON, err := encodeVector(p.Vector)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			payloadString(p.Payload, "source"),
			payloadInt64(p.Payload, "page"),
			payloadInt64(p.Payload, "start_index"),
			payloadString(p.Payload, "content"),
			vectorJSON,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *LocalVectorStore) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = 10
	}
	queryVec, queryNorm := toFloat64Vector(vector)
	if len(queryVec) == 0 || queryNorm == 0 {
		return nil, fmt.Errorf("vector query is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, page, start_index, content, vector FROM chunks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ScoredChunk
	for rows.Next() {
		var id, source, content, vectorJSON string
		var page, startIndex int
		if err := rows.Scan(&id, &source, &page, &startIndex, &content, &vectorJSON); err != nil {
			return nil, err
		}
		vec, err := decodeVector(vectorJSON)
		if err != nil {
			continue
		}
		score := cosineSimilarity(queryVec, vec, queryNorm)
		hits = append(hits, ScoredChunk{
			Chunk: Chunk{
				ID:         id,
				Content:    content,
				Source:     source,
				Page:       page,
				StartIndex: startIndex,
			},
			Score:  score,
			Vector: toFloat32Vector(vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *LocalVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count)
	return count, err
}

func (s *LocalVectorStore) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks`)
	return err
}

func (s *LocalVectorStore) Close() error {
	return s.db.Close()
}

func (s *LocalVectorStore) initSchema() error {
	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
	}
	for _, stmt := range pragmas {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init vector db: %w", err)
		}
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			source TEXT,
			page INTEGER,
			start_index INTEGER,
			content TEXT,
			vector TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks (source);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init vector db: %w", err)
		}
	}
	return nil
}

func encodeVector(vec []float32) (string, error) {
	data := make([]float64, len(vec))
	for i, val := range vec {
		data[i] = float64(val)
	}
	out, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeVector(raw string) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

func toFloat64Vector(vec []float32) ([]float64, float64) {
	out := make([]float64, len(vec))
	var sum float64
	for i, val := range vec {
		v := float64(val)
		out[i] = v
		sum += v * v
	}
	return out, math.Sqrt(sum)
}

func toFloat32Vector(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, val := range vec {
		out[i] = float32(val)
	}
	return out
}

func cosineSimilarity(query []float64, vec []float64, queryNorm float64) float64 {
	if len(query) == 0 || len(vec) == 0 || queryNorm == 0 {
		return 0
	}
	if len(query) != len(vec) {
		return 0
	}
	var dot float64
	var norm float64
	for i, val := range vec {
		dot += query[i] * val
		norm += val * val
	}
	if norm == 0 {
		return 0
	}
	return dot / (queryNorm * math.Sqrt(norm))
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	val, ok := payload[key]
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func payloadInt64(payload map[string]any, key string) int64 {
	if payload == nil {
		return 0
	}
	val, ok := payload[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	default:
		return 0
	}
}
