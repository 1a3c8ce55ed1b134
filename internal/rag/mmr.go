package rag

import "github.com/DreamCats/docrag/internal/embedding"

// mmrLambda balances relevance against diversity: 1 is pure relevance,
// 0 is pure diversity
const mmrLambda = 0.5

// mmrFetchFactor controls how many candidates similarity search fetches
// per requested result
const mmrFetchFactor = 3

// MaximalMarginalRelevance greedily picks k chunks from candidates,
// trading off similarity to the query against similarity to chunks
// already picked. Candidates missing a vector are skipped.
func MaximalMarginalRelevance(queryVec []float32, candidates []ScoredChunk, k int, lambda float64) []ScoredChunk {
	usable := make([]ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Vector) == len(queryVec) && len(c.Vector) > 0 {
			usable = append(usable, c)
		}
	}
	if k <= 0 || len(usable) == 0 {
		return nil
	}
	if k >= len(usable) {
		k = len(usable)
	}

	type candidate struct {
		chunk     ScoredChunk
		relevance float64
		picked    bool
	}
	pool := make([]candidate, len(usable))
	for i, c := range usable {
		pool[i] = candidate{
			chunk:     c,
			relevance: float64(embedding.Similarity(queryVec, c.Vector)),
		}
	}

	selected := make([]ScoredChunk, 0, k)
	for len(selected) < k {
		bestIdx := -1
		bestScore := 0.0
		for i := range pool {
			if pool[i].picked {
				continue
			}
			redundancy := 0.0
			for _, s := range selected {
				sim := float64(embedding.Similarity(pool[i].chunk.Vector, s.Vector))
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*pool[i].relevance - (1-lambda)*redundancy
			if bestIdx < 0 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		if bestIdx < 0 {
			break
		}
		pool[bestIdx].picked = true
		selected = append(selected, pool[bestIdx].chunk)
	}
	return selected
}
