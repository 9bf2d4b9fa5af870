package sections

import (
	"context"

	"github.com/spigell/cv-matcher/internal/similarity"
)

// Classifier decides whether a single trimmed line is a section header.
type Classifier struct {
	oracle    similarity.Oracle
	registry  *Registry
	threshold float64
}

func NewClassifier(oracle similarity.Oracle, registry *Registry, threshold float64) *Classifier {
	return &Classifier{oracle: oracle, registry: registry, threshold: threshold}
}

// Classify returns the canonical section when line matches a registered header
// phrase with a score of at least the threshold. ok is false for content lines.
func (c *Classifier) Classify(ctx context.Context, line string) (section string, ok bool, err error) {
	match, err := c.oracle.BestMatch(ctx, line, c.registry.Phrases())
	if err != nil {
		return "", false, err
	}
	if !match.Accepts(c.threshold) {
		return "", false, nil
	}

	section, ok = c.registry.Resolve(match.Candidate)
	if !ok {
		section = match.Candidate
	}
	return section, true, nil
}

func (c *Classifier) Threshold() float64 {
	return c.threshold
}
