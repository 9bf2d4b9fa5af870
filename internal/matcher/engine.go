package matcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/keywords"
	"github.com/spigell/cv-matcher/internal/sections"
	"github.com/spigell/cv-matcher/internal/similarity"
)

// Options configure an Engine.
type Options struct {
	// Thresholds must suit HeaderOracle: DefaultThresholds for the sequence
	// oracle, SemanticThresholds for an embedding one.
	Thresholds Thresholds
	// Keywords is the canonical whitelist in display form.
	Keywords []string
	// HeaderOracle classifies header lines. Defaults to a case-folded sequence oracle.
	HeaderOracle similarity.Oracle
	// Concurrency bounds concurrent oracle queries per stage.
	Concurrency int
	Logger      *zap.Logger
}

// Engine segments documents and scores résumés against job postings.
// It is safe for concurrent use; every Match call gets its own oracle memo.
type Engine struct {
	cv          *sections.Parser
	job         *sections.Parser
	whitelist   *keywords.Whitelist
	lexical     similarity.Oracle
	thresholds  Thresholds
	concurrency int
	logger      *zap.Logger
}

// New validates opts and builds the engine. Invalid thresholds or an unusable
// whitelist are reported as *ConfigError.
func New(opts Options) (*Engine, error) {
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}

	whitelist, err := keywords.NewWhitelist(opts.Keywords)
	if err != nil {
		return nil, &ConfigError{Field: "keywords", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	headers := opts.HeaderOracle
	if headers == nil {
		headers = similarity.Folded(similarity.NewSequence())
	}

	t := opts.Thresholds
	return &Engine{
		cv: sections.NewParser(
			sections.NewClassifier(headers, sections.CVRegistry(), t.SectionCV),
			opts.Concurrency,
			logger.With(zap.String("document", "cv")),
		),
		job: sections.NewParser(
			sections.NewClassifier(headers, sections.JobRegistry(), t.SectionJob),
			opts.Concurrency,
			logger.With(zap.String("document", "job")),
		),
		whitelist:   whitelist,
		lexical:     similarity.NewSequence(),
		thresholds:  t,
		concurrency: opts.Concurrency,
		logger:      logger,
	}, nil
}

// ParseCV segments résumé text.
func (e *Engine) ParseCV(ctx context.Context, text string) (*sections.Map, error) {
	return e.cv.Parse(ctx, text)
}

// ParseJob segments job posting text.
func (e *Engine) ParseJob(ctx context.Context, text string) (*sections.Map, error) {
	return e.job.Parse(ctx, text)
}

// Keywords extracts the whitelist keywords mentioned in job.
func (e *Engine) Keywords(ctx context.Context, job *sections.Map) ([]keywords.Keyword, error) {
	extractor := keywords.NewExtractor(e.lexical, e.whitelist, e.thresholds.KeywordExtract)
	return extractor.Extract(ctx, job)
}

// Match extracts the job keywords and scores each one against cv.
func (e *Engine) Match(ctx context.Context, job, cv *sections.Map) (*keywords.Result, error) {
	start := time.Now()
	memo := similarity.NewMemo(e.lexical)

	extractor := keywords.NewExtractor(memo, e.whitelist, e.thresholds.KeywordExtract)
	found, err := extractor.Extract(ctx, job)
	if err != nil {
		return nil, err
	}

	scorer := keywords.NewScorer(memo, e.thresholds.KeywordScore, e.whitelist.MaxWords())
	result, err := keywords.Aggregate(ctx, scorer, found, cv, e.concurrency)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("keyword match completed",
		zap.Int("keywords", len(found)),
		zap.Int("total_score", result.TotalScore),
		zap.Int("oracle_queries", memo.Len()),
		zap.Duration("took", time.Since(start)),
	)

	return result, nil
}

// Whitelist returns the validated keyword whitelist.
func (e *Engine) Whitelist() *keywords.Whitelist {
	return e.whitelist
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}
