package rag

import "context"

// QdrantStore backs a collection with a Qdrant server. Each docrag
// collection maps to one Qdrant collection named "docrag-<name>";
// meta.json and the keyword index stay on local disk either way.
type QdrantStore struct {
	client     *QdrantClient
	collection string
	dims       int
}

func NewQdrantStore(url, apiKey, collection string) *QdrantStore {
	return &QdrantStore{
		client:     NewQdrantClient(url, apiKey),
		collection: "docrag-" + collection,
	}
}

func (s *QdrantStore) EnsureReady(ctx context.Context, dims int) error {
	s.dims = dims
	return s.client.EnsureCollection(ctx, s.collection, dims, "Cosine")
}

func (s *QdrantStore) UpsertPoints(ctx context.Context, points []VectorPoint) error {
	return s.client.UpsertPoints(ctx, s.collection, points)
}

func (s *QdrantStore) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]ScoredChunk, error) {
	points, err := s.client.SearchPoints(ctx, s.collection, vector, topK)
	if err != nil {
		return nil, err
	}
	results := make([]ScoredChunk, 0, len(points))
	for _, p := range points {
		results = append(results, ScoredChunk{
			Chunk: Chunk{
				ID:         p.ID,
				Content:    payloadString(p.Payload, "content"),
				Source:     payloadString(p.Payload, "source"),
				Page:       int(payloadInt64(p.Payload, "page")),
				StartIndex: int(payloadInt64(p.Payload, "start_index")),
			},
			Score:  p.Score,
			Vector: p.Vector,
		})
	}
	return results, nil
}

func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	return s.client.CountPoints(ctx, s.collection)
}

func (s *QdrantStore) Drop(ctx context.Context) error {
	return s.client.DeleteCollection(ctx, s.collection)
}

func (s *QdrantStore) Close() error {
	return nil
}
