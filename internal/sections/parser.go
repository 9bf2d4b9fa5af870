package sections

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-matcher/internal/similarity"
	"github.com/spigell/cv-matcher/internal/utils"
)

const defaultConcurrency = 8

// Parser folds a document into a section Map. Lines are classified
// concurrently; the fold that applies the decisions runs in document order.
type Parser struct {
	classifier  *Classifier
	concurrency int
	logger      *zap.Logger
}

func NewParser(classifier *Classifier, concurrency int, logger *zap.Logger) *Parser {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{classifier: classifier, concurrency: concurrency, logger: logger}
}

type decision struct {
	section  string
	isHeader bool
}

// Parse splits text into sections. When the oracle is unavailable the whole
// document is returned verbatim as the General section.
func (p *Parser) Parse(ctx context.Context, text string) (*Map, error) {
	lines := Lines(text)

	decisions, err := p.classify(ctx, lines)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, similarity.ErrOracleUnavailable) {
			p.logger.Warn("header classification unavailable, keeping document as a single section",
				zap.Error(err),
				zap.Int("lines", len(lines)),
				zap.String("document_preview", utils.TruncateForLog(text, 80)),
			)
			m := NewMap()
			m.Set(General, text)
			return m, nil
		}
		return nil, err
	}

	m := NewMap()
	current := General
	for i, line := range lines {
		d := decisions[i]
		if d.isHeader {
			current = d.section
			m.Ensure(current)
			continue
		}
		m.Append(current, line+"\n")
	}

	p.logger.Debug("document segmented",
		zap.Int("lines", len(lines)),
		zap.Strings("sections", m.Names()),
	)

	return m, nil
}

func (p *Parser) classify(ctx context.Context, lines []string) ([]decision, error) {
	decisions := make([]decision, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, line := range lines {
		g.Go(func() error {
			section, ok, err := p.classifier.Classify(gctx, line)
			if err != nil {
				return err
			}
			decisions[i] = decision{section: section, isHeader: ok}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}

// Lines returns the trimmed, non-blank lines of text in order.
func Lines(text string) []string {
	raw := strings.FieldsFunc(text, isLineBreak)
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
