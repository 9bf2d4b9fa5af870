package keywords

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-matcher/internal/sections"
)

// KeywordScore is the score of a single keyword.
type KeywordScore struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
}

// Result is the outcome of matching a résumé against the keywords of a job posting.
type Result struct {
	TotalScore    int            `json:"total_score"`
	KeywordScores map[string]int `json:"keyword_scores"`
	// Keywords lists the same scores in keyword order.
	Keywords []KeywordScore `json:"keywords"`
}

// Aggregate scores every keyword against cv, at most concurrency at a time,
// and sums the scores.
func Aggregate(ctx context.Context, scorer *Scorer, keywords []Keyword, cv *sections.Map, concurrency int) (*Result, error) {
	scores := make([]int, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, kw := range keywords {
		g.Go(func() error {
			score, err := scorer.Score(gctx, kw, cv)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		KeywordScores: make(map[string]int, len(keywords)),
		Keywords:      make([]KeywordScore, 0, len(keywords)),
	}
	for i, kw := range keywords {
		result.TotalScore += scores[i]
		result.KeywordScores[kw.Display] = scores[i]
		result.Keywords = append(result.Keywords, KeywordScore{Keyword: kw.Display, Score: scores[i]})
	}

	return result, nil
}
