package keywords

import (
	"context"
	"slices"

	"github.com/spigell/cv-matcher/internal/sections"
	"github.com/spigell/cv-matcher/internal/similarity"
)

// Score tiers.
const (
	TierNone       = 0
	TierAnywhere   = 1
	TierSupporting = 2
	TierSkills     = 3
	TierExperience = 5

	experienceBonus = 2
)

// supportingSections raise a keyword to TierSupporting.
var supportingSections = []string{sections.EducationAndTraining, sections.Misc, sections.Accomplishments}

// Scorer grades how prominently one keyword appears in a résumé.
type Scorer struct {
	oracle    similarity.Oracle
	threshold float64
	maxWords  int
}

func NewScorer(oracle similarity.Oracle, threshold float64, maxWords int) *Scorer {
	return &Scorer{oracle: oracle, threshold: threshold, maxWords: maxWords}
}

// Score applies the tiers in order:
//   - skills: 3
//   - work and employment: 5, or 3+2 when already found in skills
//   - education, misc, accomplishments: at least 2
//   - otherwise any section, in map order: 1
//
// The result is always one of 0, 1, 2, 3 or 5.
func (s *Scorer) Score(ctx context.Context, kw Keyword, cv *sections.Map) (int, error) {
	score := TierNone

	inSkills, err := s.foundIn(ctx, kw, cv.Get(sections.Skills))
	if err != nil {
		return 0, err
	}
	if inSkills {
		score = max(score, TierSkills)
	}

	inWork, err := s.foundIn(ctx, kw, cv.Get(sections.WorkAndEmployment))
	if err != nil {
		return 0, err
	}
	if inWork {
		if score == TierSkills {
			score += experienceBonus
		} else {
			score = max(score, TierExperience)
		}
	}

	for _, name := range supportingSections {
		ok, err := s.foundIn(ctx, kw, cv.Get(name))
		if err != nil {
			return 0, err
		}
		if ok {
			score = max(score, TierSupporting)
		}
	}

	if score != TierNone {
		return score, nil
	}

	for _, name := range cv.Names() {
		ok, err := s.foundIn(ctx, kw, cv.Get(name))
		if err != nil {
			return 0, err
		}
		if ok {
			return TierAnywhere, nil
		}
	}

	return TierNone, nil
}

// foundIn fuzzy-matches the keyword against the delimiter tokens of text.
// Shorter word runs inside a token only count when they equal the keyword.
func (s *Scorer) foundIn(ctx context.Context, kw Keyword, text string) (bool, error) {
	if forms := Forms(text); len(forms) > 0 {
		match, err := s.oracle.BestMatch(ctx, kw.Normalized, forms)
		if err != nil {
			return false, err
		}
		if match.Accepts(s.threshold) {
			return true, nil
		}
	}

	return slices.Contains(Windows(text, s.maxWords), kw.Normalized), nil
}
