package similarity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "python", b: "python", want: 1},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "go", b: "", want: 0},
		{name: "shifted", a: "abcd", b: "bcde", want: 0.75},
		{name: "dropped rune", a: "python", b: "pythn", want: 10.0 / 11.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "popular runes skipped", a: "aaa", b: strings.Repeat("a", 200), want: 6.0 / 203.0},
		{name: "non-ascii runes", a: "özgeçmiş", b: "ozgecmis", want: 0.625},
		{name: "words", a: "work experience", b: "experienced in go", want: 0.625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatchAccepts(t *testing.T) {
	t.Parallel()

	assert.True(t, Match{Score: 0.8}.Accepts(0.8))
	assert.True(t, Match{Score: 1}.Accepts(0))
	assert.False(t, Match{Score: 0.79}.Accepts(0.8))
	assert.False(t, Match{Score: 0}.Accepts(0))
}

func TestSequenceBestMatch(t *testing.T) {
	t.Parallel()
	oracle := NewSequence()
	ctx := context.Background()

	m, err := oracle.BestMatch(ctx, "python", []string{"java", "pythn", "python"})
	require.NoError(t, err)
	assert.Equal(t, "python", m.Candidate)
	assert.Equal(t, 2, m.Index)
	assert.Equal(t, 1.0, m.Score)

	_, err = oracle.BestMatch(ctx, "python", nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestSequenceTieKeepsFirstCandidate(t *testing.T) {
	t.Parallel()
	oracle := NewSequence()

	m, err := oracle.BestMatch(context.Background(), "abz", []string{"abx", "aby"})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, "abx", m.Candidate)

	m, err = oracle.BestMatch(context.Background(), "go", []string{"java", "go", "go"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index)
}

func TestFoldedKeepsOriginalCandidate(t *testing.T) {
	t.Parallel()
	oracle := Folded(NewSequence())

	m, err := oracle.BestMatch(context.Background(), "  WORK Experience ", []string{"Education", "Work Experience"})
	require.NoError(t, err)
	assert.Equal(t, "Work Experience", m.Candidate)
	assert.Equal(t, 1.0, m.Score)
}

func TestFold(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "skills", Fold(" SKILLS "))
	assert.Equal(t, "fi", Fold("ﬁ"))
}

type countingOracle struct {
	mu    sync.Mutex
	calls int
}

func (c *countingOracle) BestMatch(_ context.Context, query string, candidates []string) (Match, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return Match{Candidate: candidates[0], Score: float64(len(query)) / 10}, nil
}

func TestMemoCachesPerQueryAndCandidates(t *testing.T) {
	t.Parallel()
	inner := &countingOracle{}
	memo := NewMemo(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := memo.BestMatch(ctx, "go", []string{"a", "b"})
		require.NoError(t, err)
	}
	_, err := memo.BestMatch(ctx, "go", []string{"a", "c"})
	require.NoError(t, err)
	_, err = memo.BestMatch(ctx, "go", []string{"ab"})
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 3, memo.Len())
}

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := f.vectors[t]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) ModelID() string { return "fake" }

type mapStore struct {
	data map[string][]float32
}

func (m *mapStore) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	vec, ok := m.data[model+"|"+text]
	return vec, ok, nil
}

func (m *mapStore) Put(_ context.Context, model, text string, vec []float32) error {
	m.data[model+"|"+text] = vec
	return nil
}

func TestEmbeddingBestMatch(t *testing.T) {
	t.Parallel()
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"professional history": {1, 0.1, 0},
		"work experience":      {1, 0, 0},
		"education":            {0, 1, 0},
		"hobbies":              {-1, 0, 0},
	}}
	store := &mapStore{data: map[string][]float32{}}
	oracle := NewEmbedding(embedder, store, nil)
	ctx := context.Background()

	m, err := oracle.BestMatch(ctx, "professional history", []string{"education", "work experience", "hobbies"})
	require.NoError(t, err)
	assert.Equal(t, "work experience", m.Candidate)
	assert.Greater(t, m.Score, 0.99)

	exact, err := oracle.BestMatch(ctx, "education", []string{"work experience", "education"})
	require.NoError(t, err)
	assert.Equal(t, 1, exact.Index)
	assert.Equal(t, 1.0, exact.Score)

	neg, err := oracle.BestMatch(ctx, "work experience", []string{"hobbies"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, neg.Score)

	require.Len(t, embedder.calls, 1, "later queries must be served from memory")
	assert.Len(t, store.data, 4)

	fresh := NewEmbedding(embedder, store, nil)
	_, err = fresh.BestMatch(ctx, "education", []string{"hobbies"})
	require.NoError(t, err)
	assert.Len(t, embedder.calls, 1, "vectors must be served from the store")
}

func TestEmbeddingUnavailable(t *testing.T) {
	t.Parallel()
	embedder := &fakeEmbedder{err: errors.New("connection refused")}
	oracle := NewEmbedding(embedder, nil, nil)

	_, err := oracle.BestMatch(context.Background(), "skills", []string{"skills"})
	assert.ErrorIs(t, err, ErrOracleUnavailable)

	_, err = NewEmbedding(nil, nil, nil).BestMatch(context.Background(), "skills", []string{"skills"})
	assert.ErrorIs(t, err, ErrOracleUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = oracle.BestMatch(ctx, "skills", []string{"skills"})
	assert.ErrorIs(t, err, context.Canceled)
}
