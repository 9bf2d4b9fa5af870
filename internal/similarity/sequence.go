package similarity

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Sequence is the lexical oracle. It scores candidates with the
// Ratcliff/Obershelp ratio 2*M/T, where M is the number of runes in matching
// blocks and T the total rune count of both strings.
type Sequence struct{}

// NewSequence returns the character-sequence oracle.
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) BestMatch(ctx context.Context, query string, candidates []string) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrNoCandidates
	}
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = Ratio(query, c)
	}

	idx, score := argmax(scores)
	return Match{Candidate: candidates[idx], Index: idx, Score: score}, nil
}

// Ratio returns the similarity of a and b in [0,1], comparing them rune by rune.
// Runes making up more than 1% of a candidate of 200 runes or more are skipped
// when searching for matching blocks. Two empty strings are identical.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
