package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Embedder turns texts into dense vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// VectorStore persists vectors between runs. A miss is reported with ok=false.
type VectorStore interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Put(ctx context.Context, model, text string, vec []float32) error
}

// Embedding is the semantic oracle: candidates are ranked by cosine similarity
// of their embeddings to the query embedding. Negative similarities count as 0.
type Embedding struct {
	embedder Embedder
	store    VectorStore
	logger   *zap.Logger

	mu     sync.RWMutex
	memory map[string][]float32
}

// NewEmbedding builds the semantic oracle. store may be nil.
func NewEmbedding(embedder Embedder, store VectorStore, logger *zap.Logger) *Embedding {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedding{
		embedder: embedder,
		store:    store,
		logger:   logger,
		memory:   make(map[string][]float32),
	}
}

func (e *Embedding) BestMatch(ctx context.Context, query string, candidates []string) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrNoCandidates
	}
	if e == nil || e.embedder == nil {
		return Match{}, fmt.Errorf("%w: embedder is not configured", ErrOracleUnavailable)
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	texts = append(texts, candidates...)

	vectors, err := e.vectors(ctx, texts)
	if err != nil {
		return Match{}, err
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		if c == query {
			scores[i] = 1
			continue
		}
		scores[i] = clamp01(cosine(vectors[0], vectors[i+1]))
	}

	idx, score := argmax(scores)
	return Match{Candidate: candidates[idx], Index: idx, Score: score}, nil
}

// vectors resolves every text from memory, then the store, then the embedder.
func (e *Embedding) vectors(ctx context.Context, texts []string) ([][]float32, error) {
	model := e.embedder.ModelID()
	out := make([][]float32, len(texts))
	missing := make([]string, 0)
	seen := make(map[string]struct{})

	for i, t := range texts {
		if vec := e.fromMemory(t); vec != nil {
			out[i] = vec
			continue
		}
		if e.store != nil {
			vec, ok, err := e.store.Get(ctx, model, t)
			if err != nil {
				e.logger.Debug("vector store lookup failed", zap.Error(err))
			} else if ok {
				e.remember(t, vec)
				out[i] = vec
				continue
			}
		}
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			missing = append(missing, t)
		}
	}

	if len(missing) > 0 {
		vecs, err := e.embedder.Embed(ctx, missing)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
		}
		if len(vecs) != len(missing) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts", ErrOracleUnavailable, len(vecs), len(missing))
		}

		for i, t := range missing {
			e.remember(t, vecs[i])
			if e.store != nil {
				if err := e.store.Put(ctx, model, t, vecs[i]); err != nil {
					e.logger.Debug("vector store write failed", zap.Error(err))
				}
			}
		}
		for i, t := range texts {
			if out[i] == nil {
				out[i] = e.fromMemory(t)
			}
		}
	}

	return out, nil
}

func (e *Embedding) fromMemory(text string) []float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.memory[text]
}

func (e *Embedding) remember(text string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memory[text] = vec
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
