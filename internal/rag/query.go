package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/DreamCats/docrag/internal/config"
	"github.com/DreamCats/docrag/internal/embedding"
	"github.com/DreamCats/docrag/internal/llm"
)

// Engine ties retrieval and generation together for one configuration
type Engine struct {
	cfg      *config.Config
	embedder *embedding.Service
	llm      *llm.Client
}

func NewEngine(cfg *config.Config, embedder *embedding.Service, llmClient *llm.Client) *Engine {
	return &Engine{cfg: cfg, embedder: embedder, llm: llmClient}
}

// Retrieve embeds the question and returns the top K chunks picked by
// maximal marginal relevance from an over-fetched candidate set
func (e *Engine) Retrieve(ctx context.Context, collection, question string, k int) ([]ScoredChunk, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if !CollectionExists(e.cfg.Store.Path, collection) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	if k <= 0 {
		k = e.cfg.Retrieval.TopK
	}

	queryVec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	store, err := OpenVectorStore(e.cfg, collection)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	candidates, err := store.SearchSimilar(ctx, queryVec, k*mmrFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("search vectors: %w", err)
	}

	selected := MaximalMarginalRelevance(queryVec, candidates, k, mmrLambda)
	LogDebug("retrieval complete", map[string]interface{}{
		"collection": collection,
		"candidates": len(candidates),
		"selected":   len(selected),
	})
	return selected, nil
}

// Ask answers a question against a collection, streaming tokens through
// onToken as they arrive. The returned Answer carries the retrieved
// sources and generation latency.
func (e *Engine) Ask(ctx context.Context, collection, question string, onToken func(string)) (*Answer, error) {
	return e.ask(ctx, collection, question, e.llm.Model(), onToken)
}

// AskWithModel answers using an explicit model and no streaming output.
// Model comparison runs this once per model; the engine's configured
// model is never touched.
func (e *Engine) AskWithModel(ctx context.Context, collection, question, model string) (*Answer, error) {
	return e.ask(ctx, collection, question, model, nil)
}

func (e *Engine) ask(ctx context.Context, collection, question, model string, onToken func(string)) (*Answer, error) {
	chunks, err := e.Retrieve(ctx, collection, question, e.cfg.Retrieval.TopK)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(question, chunks)

	start := time.Now()
	text, err := e.llm.GenerateWithModel(ctx, model, prompt, onToken)
	latency := time.Since(start)
	if err != nil {
		// an interrupt mid-stream still hands back the partial answer
		if ctx.Err() != nil && text != "" {
			return &Answer{
				Question:   question,
				Text:       text,
				Collection: collection,
				Model:      model,
				Sources:    chunks,
				Latency:    latency,
			}, err
		}
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	LogInfo("question answered", map[string]interface{}{
		"collection": collection,
		"model":      model,
		"latency_ms": latency.Milliseconds(),
		"sources":    len(chunks),
	})
	return &Answer{
		Question:   question,
		Text:       text,
		Collection: collection,
		Model:      model,
		Sources:    chunks,
		Latency:    latency,
	}, nil
}
