package similarity

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrOracleUnavailable is returned when an oracle cannot answer a query,
	// for example when its backing model is unreachable.
	ErrOracleUnavailable = errors.New("similarity oracle unavailable")
	// ErrNoCandidates is returned for a query with an empty candidate list.
	ErrNoCandidates = fmt.Errorf("%w: no candidates", ErrOracleUnavailable)
)

// Match is the best candidate found for a query.
type Match struct {
	Candidate string
	Index     int
	Score     float64
}

// Accepts reports whether the match reaches threshold. A zero score is never a
// match, even with a zero threshold.
func (m Match) Accepts(threshold float64) bool {
	return m.Score > 0 && m.Score >= threshold
}

// Oracle finds the candidate most similar to a query. Score is within [0,1].
// On equal scores the candidate that comes first in the list wins, so callers
// must pass candidates in a fixed order.
type Oracle interface {
	BestMatch(ctx context.Context, query string, candidates []string) (Match, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, query string, candidates []string) (Match, error)

func (f OracleFunc) BestMatch(ctx context.Context, query string, candidates []string) (Match, error) {
	return f(ctx, query, candidates)
}

// argmax returns the first index holding the highest score.
func argmax(scores []float64) (int, float64) {
	best, bestScore := -1, -1.0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
