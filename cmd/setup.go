package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/ai/gemini"
	"github.com/spigell/cv-matcher/internal/embedcache"
	"github.com/spigell/cv-matcher/internal/keywords"
	"github.com/spigell/cv-matcher/internal/matcher"
	"github.com/spigell/cv-matcher/internal/secrets"
	"github.com/spigell/cv-matcher/internal/similarity"
)

const (
	oracleLexical = "lexical"
	oracleGemini  = "gemini"
)

// services holds everything a command needs, built from Config.
type services struct {
	engine   *matcher.Engine
	assessor ai.Assessor
	closers  []func() error
}

func (r *services) Close() {
	for _, c := range r.closers {
		_ = c()
	}
}

func bootstrap(ctx context.Context, config *Config, logger *zap.Logger) (*services, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	rt := &services{}

	words, err := loadKeywords(config.Keywords)
	if err != nil {
		return nil, err
	}

	oracleName := strings.ToLower(strings.TrimSpace(config.Headers.Oracle))
	if oracleName == "" {
		oracleName = oracleLexical
	}
	if oracleName != oracleLexical && oracleName != oracleGemini {
		return nil, &matcher.ConfigError{Field: "headers.oracle", Err: fmt.Errorf("unknown oracle %q", config.Headers.Oracle)}
	}

	var generator *gemini.Generator
	if config.AI.Enabled || oracleName == oracleGemini {
		generator, err = newGenerator(ctx, config.AI, logger)
		if err != nil {
			return nil, err
		}
	}

	var headers similarity.Oracle
	thresholds := matcher.DefaultThresholds()
	if oracleName == oracleGemini {
		thresholds = matcher.SemanticThresholds()
		var store similarity.VectorStore
		if path := strings.TrimSpace(config.AI.EmbeddingCache); path != "" {
			cache, err := embedcache.Open(ctx, path)
			if err != nil {
				return nil, err
			}
			rt.closers = append(rt.closers, cache.Close)
			store = cache
		}
		headers = similarity.NewEmbedding(generator, store, logger.Named("embedding"))
	}

	rt.engine, err = matcher.New(matcher.Options{
		Thresholds:   config.Thresholds.resolve(thresholds),
		Keywords:     words,
		HeaderOracle: headers,
		Concurrency:  config.Concurrency,
		Logger:       logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	if config.AI.Enabled {
		rt.assessor = gemini.NewAssessor(generator, logger.Named("assessor"), config.AI.Gemini.MaxLogLength)
	}

	logger.Debug("matcher ready",
		zap.String("header_oracle", oracleName),
		zap.Int("keywords", rt.engine.Whitelist().Len()),
		zap.Bool("ai", config.AI.Enabled),
	)

	return rt, nil
}

func newGenerator(ctx context.Context, cfg AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	return gemini.NewGenerator(ctx, gemini.Options{
		APIKey:         apiKey,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
		Temperature:    cfg.Gemini.Temperature,
		MaxRetries:     cfg.Gemini.MaxRetries,
		Logger:         logger,
	})
}

// loadKeywords returns the configured whitelist: the file, the inline list, or the built-in default.
func loadKeywords(cfg KeywordsConfig) ([]string, error) {
	if path := strings.TrimSpace(cfg.File); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, &matcher.ConfigError{Field: "keywords.file", Err: err}
		}
		defer f.Close()
		return keywords.ParseList(f)
	}

	if len(cfg.List) > 0 {
		return cfg.List, nil
	}

	return keywords.DefaultList(), nil
}
