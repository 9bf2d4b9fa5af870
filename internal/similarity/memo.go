package similarity

import (
	"context"
	"strings"
	"sync"
)

// Memo caches oracle answers per distinct (query, candidates) pair. It is meant
// to live for a single request and is safe for concurrent use.
type Memo struct {
	inner Oracle

	mu      sync.Mutex
	answers map[string]Match
}

// NewMemo wraps inner with an empty cache.
func NewMemo(inner Oracle) *Memo {
	return &Memo{inner: inner, answers: make(map[string]Match)}
}

func (m *Memo) BestMatch(ctx context.Context, query string, candidates []string) (Match, error) {
	key := query + "\x00" + strings.Join(candidates, "\x1f")

	m.mu.Lock()
	cached, ok := m.answers[key]
	m.mu.Unlock()
	if ok {
		return cached, nil
	}

	match, err := m.inner.BestMatch(ctx, query, candidates)
	if err != nil {
		return Match{}, err
	}

	m.mu.Lock()
	m.answers[key] = match
	m.mu.Unlock()

	return match, nil
}

// Len reports how many answers are cached.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers)
}
