package keywords

import (
	"context"
	"sort"

	"github.com/spigell/cv-matcher/internal/sections"
	"github.com/spigell/cv-matcher/internal/similarity"
)

// Extractor collects the whitelist keywords mentioned in a job posting.
type Extractor struct {
	oracle    similarity.Oracle
	whitelist *Whitelist
	threshold float64
	sections  []string
}

// NewExtractor scans the keyword-bearing job sections (sections.KeywordSections).
func NewExtractor(oracle similarity.Oracle, whitelist *Whitelist, threshold float64) *Extractor {
	return &Extractor{
		oracle:    oracle,
		whitelist: whitelist,
		threshold: threshold,
		sections:  sections.KeywordSections(),
	}
}

// Extract returns the distinct keywords found in the job posting, in whitelist order.
// Each delimiter token is matched as a whole. Sections missing from job contribute nothing.
func (e *Extractor) Extract(ctx context.Context, job *sections.Map) ([]Keyword, error) {
	found := make(map[string]struct{})

	for _, name := range e.sections {
		for _, form := range Forms(job.Get(name)) {
			match, err := e.oracle.BestMatch(ctx, form, e.whitelist.Normalized())
			if err != nil {
				return nil, err
			}
			if match.Accepts(e.threshold) {
				found[match.Candidate] = struct{}{}
			}
		}
	}

	out := make([]Keyword, 0, len(found))
	for norm := range found {
		kw, ok := e.whitelist.Lookup(norm)
		if !ok {
			continue
		}
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool {
		return e.whitelist.index(out[i].Normalized) < e.whitelist.index(out[j].Normalized)
	})

	return out, nil
}
