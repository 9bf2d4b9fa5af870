package similarity

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Folded wraps an oracle so that the query and every candidate are compared in
// NFKC form with Unicode case folding applied. The returned Match still carries
// the candidate exactly as it was passed in.
func Folded(inner Oracle) Oracle {
	return &folded{inner: inner}
}

type folded struct {
	inner Oracle
}

func (f *folded) BestMatch(ctx context.Context, query string, candidates []string) (Match, error) {
	foldedCandidates := make([]string, len(candidates))
	for i, c := range candidates {
		foldedCandidates[i] = Fold(c)
	}

	m, err := f.inner.BestMatch(ctx, Fold(query), foldedCandidates)
	if err != nil {
		return Match{}, err
	}
	m.Candidate = candidates[m.Index]
	return m, nil
}

// Fold returns s trimmed, NFKC-normalized and case folded.
func Fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return cases.Fold().String(s)
}
