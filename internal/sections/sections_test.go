package sections

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-matcher/internal/similarity"
)

func newCVParser(t *testing.T) *Parser {
	t.Helper()
	oracle := similarity.Folded(similarity.NewSequence())
	return NewParser(NewClassifier(oracle, CVRegistry(), 0.9), 4, zap.NewNop())
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{"", "\n\n   \n\t"} {
		m, err := newCVParser(t).Parse(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, []string{General}, m.Names())
		assert.Equal(t, "", m.Get(General))
	}
}

func TestParseCVSections(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"Jane Doe",
		"jane@example.com",
		"",
		"Skills",
		"Python, Docker",
		"   ",
		"Work Experience",
		"Built services using Go for 3 years",
		"Interests",
		"Hobbies: Python meetups",
		"Skills:",
		"Kubernetes",
	}, "\n")

	m, err := newCVParser(t).Parse(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []string{General, Skills, WorkAndEmployment, Misc}, m.Names())
	assert.Equal(t, "Jane Doe\njane@example.com\n", m.Get(General))
	assert.Equal(t, "Python, Docker\nKubernetes\n", m.Get(Skills))
	assert.Equal(t, "Built services using Go for 3 years\n", m.Get(WorkAndEmployment))
	assert.Equal(t, "Hobbies: Python meetups\n", m.Get(Misc))
	assert.Equal(t, "", m.Get(Accomplishments))
	assert.False(t, m.Has(Accomplishments))
}

func TestParsePreservesContent(t *testing.T) {
	t.Parallel()

	lines := []string{"Summary line one", "Education", "BSc Computer Science", "Projects", "Compiler in Go", "trailing note"}
	m, err := newCVParser(t).Parse(context.Background(), strings.Join(lines, "\n"))
	require.NoError(t, err)

	headers := map[string]bool{"Education": true, "Projects": true}
	want := 0
	for _, l := range lines {
		if !headers[l] {
			want += len(l) + 1
		}
	}

	got := 0
	for _, name := range m.Names() {
		got += len(m.Get(name))
	}
	assert.Equal(t, want, got)
}

func TestClassifierExactHeader(t *testing.T) {
	t.Parallel()
	registry := JobRegistry()
	classifier := NewClassifier(similarity.NewSequence(), registry, 0.93)

	for _, phrase := range registry.Phrases() {
		section, ok, err := classifier.Classify(context.Background(), phrase)
		require.NoError(t, err)
		require.True(t, ok, phrase)
		want, _ := registry.Resolve(phrase)
		assert.Equal(t, want, section, phrase)
	}

	_, ok, err := classifier.Classify(context.Background(), "We build payment systems for small shops")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	t.Parallel()
	registry := JobRegistry()

	section, ok := registry.Resolve("mission")
	require.True(t, ok)
	assert.Equal(t, Mission, section)

	section, _ = registry.Resolve("Responsibilities")
	assert.Equal(t, Responsibilities, section)

	section, _ = registry.Resolve("qualifications")
	assert.Equal(t, Requirements, section)

	count := 0
	for _, p := range registry.Phrases() {
		if p == "mission" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err := NewRegistry(Group{Section: " ", Phrases: []string{"x"}})
	assert.Error(t, err)
}

func TestParseFallsBackWhenOracleUnavailable(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	broken := similarity.OracleFunc(func(context.Context, string, []string) (similarity.Match, error) {
		return similarity.Match{}, errors.New("model offline")
	})
	unavailable := similarity.OracleFunc(func(context.Context, string, []string) (similarity.Match, error) {
		return similarity.Match{}, similarity.ErrOracleUnavailable
	})

	doc := "Skills\nPython\n\nExperience\nGo"

	p := NewParser(NewClassifier(unavailable, CVRegistry(), 0.7), 2, zap.New(core))
	m, err := p.Parse(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{General}, m.Names())
	assert.Equal(t, doc, m.Get(General))
	assert.Equal(t, 1, logs.Len())

	_, err = NewParser(NewClassifier(broken, CVRegistry(), 0.7), 2, nil).Parse(context.Background(), doc)
	assert.EqualError(t, err, "model offline")

	empty, err := NewRegistry()
	require.NoError(t, err)
	m, err = NewParser(NewClassifier(similarity.NewSequence(), empty, 0.7), 2, nil).Parse(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc, m.Get(General))
}

func TestParseHonoursCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCVParser(t).Parse(ctx, "Skills\nGo")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b", "c", "d"}, Lines(" a \r\nb\r\r\n c d\n\n"))
	assert.Empty(t, Lines(""))
}

func TestMapJSONRoundTripKeepsOrder(t *testing.T) {
	t.Parallel()

	m := FromPairs(Skills, "Go\n", WorkAndEmployment, "Acme\n")
	m.Append(General, "intro\n")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"general":"intro\n","skills":"Go\n","work_and_employment":"Acme\n"}`, string(data))
	assert.True(t, strings.HasPrefix(string(data), `{"general"`))

	var decoded Map
	require.NoError(t, json.Unmarshal([]byte(`{"misc":"x","skills":"y"}`), &decoded))
	assert.Equal(t, []string{General, Misc, Skills}, decoded.Names())
	assert.Equal(t, "y", decoded.Get(Skills))

	assert.Error(t, json.Unmarshal([]byte(`["skills"]`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"skills": 3}`), &decoded))
}
