package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/keywords"
	"github.com/spigell/cv-matcher/internal/matcher"
)

func testConfig() *Config {
	return &Config{
		Concurrency: 2,
		Keywords:    KeywordsConfig{List: []string{"Python", "Go", "Kubernetes"}},
		Headers:     HeadersConfig{Oracle: oracleLexical},
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadKeywords(t *testing.T) {
	t.Parallel()

	got, err := loadKeywords(KeywordsConfig{})
	require.NoError(t, err)
	assert.Equal(t, keywords.DefaultList(), got)

	got, err = loadKeywords(KeywordsConfig{List: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got)

	file := writeTemp(t, "keywords.txt", "# languages\nRust\n\n  Elixir \n")
	got, err = loadKeywords(KeywordsConfig{File: file, List: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust", "Elixir"}, got)

	_, err = loadKeywords(KeywordsConfig{File: filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorIs(t, err, matcher.ErrInvalidConfig)
}

func TestBootstrapValidatesConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Headers.Oracle = "telepathy"
	_, err := bootstrap(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, matcher.ErrInvalidConfig)

	cfg = testConfig()
	tooHigh := 1.2
	cfg.Thresholds.KeywordScore = &tooHigh
	_, err = bootstrap(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, matcher.ErrInvalidConfig)

	_, err = bootstrap(context.Background(), nil, zap.NewNop())
	assert.Error(t, err)
}

func TestThresholdsConfigResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, matcher.DefaultThresholds(), ThresholdsConfig{}.resolve(matcher.DefaultThresholds()))
	assert.Equal(t, 0.7, ThresholdsConfig{}.resolve(matcher.SemanticThresholds()).SectionCV)

	cv, score := 0.95, 0.6
	got := ThresholdsConfig{SectionCV: &cv, KeywordScore: &score}.resolve(matcher.SemanticThresholds())
	assert.Equal(t, matcher.Thresholds{SectionCV: 0.95, SectionJob: 0.93, KeywordExtract: 0.8, KeywordScore: 0.6}, got)
}

func TestBootstrapUsesOracleThresholds(t *testing.T) {
	t.Parallel()

	svc, err := bootstrap(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, matcher.DefaultThresholds(), svc.engine.Thresholds())

	cfg := testConfig()
	zero := 0.0
	cfg.Thresholds.KeywordExtract = &zero
	svc, err = bootstrap(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, 0.0, svc.engine.Thresholds().KeywordExtract)
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	svc, err := bootstrap(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()
	assert.Nil(t, svc.assessor)

	cv := writeTemp(t, "cv.txt", "Jane Doe\nSkills\nPython, Docker\nWork Experience\nBuilt services using Go for 3 years\n")
	job := writeTemp(t, "job.txt", "Acme Corp is hiring\nRequired Skills\nPython, Go, Kubernetes\n")

	report, err := buildReport(context.Background(), svc, cv, job, false)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Score.TotalScore)
	assert.Nil(t, report.Assessment)

	_, err = buildReport(context.Background(), svc, cv, job, true)
	assert.ErrorIs(t, err, ai.ErrDisabled)

	_, err = buildReport(context.Background(), svc, writeTemp(t, "cv.odt", "x"), job, false)
	assert.Error(t, err)
}
