package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/sections"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func testRequest() ai.Request {
	return ai.Request{
		Job:      sections.FromPairs(sections.RequiredSkills, "Go, Kubernetes\n"),
		CV:       sections.FromPairs(sections.Skills, "Go\n", sections.EducationAndTraining, "Bogazici University\n"),
		Keywords: []string{"Go", "Kubernetes"},
	}
}

func TestAssessorAssess(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"keywords": {"Go": {"score": "3", "source": "skills"}, "Kubernetes": {"score": 0, "source": "none"}},
		"education": {"university": "Bogazici University", "tier": 1, "score": 10, "department_match": "true", "department_score": 5},
		"experience_years": {"required": 5, "found": "4.5", "match_type": "close", "score": 20},
		"total_score": 38,
		"summary": "  Strong Go background.  "
	}` + "\n```"}

	core, logs := observer.New(zapcore.DebugLevel)
	assessor := NewAssessor(stub, zap.New(core), 40)

	got, err := assessor.Assess(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Keywords["Go"].Score != 3 || got.Keywords["Go"].Source != "skills" {
		t.Fatalf("unexpected Go assessment: %+v", got.Keywords["Go"])
	}
	if got.Education.Tier != 1 || !got.Education.DepartmentMatch {
		t.Fatalf("unexpected education: %+v", got.Education)
	}
	if got.Experience.Found != 4.5 || got.Experience.MatchType != "close" {
		t.Fatalf("unexpected experience: %+v", got.Experience)
	}
	if got.TotalScore != 38 {
		t.Fatalf("unexpected total score: %v", got.TotalScore)
	}
	if got.Summary != "Strong Go background." {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
	if got.Model != "stub-model" || got.Raw != stub.response {
		t.Fatalf("expected model and raw response to be recorded")
	}

	for _, want := range []string{`"required_skills": "Go, Kubernetes\n"`, `"education_and_training"`, "Keywords:\nGo, Kubernetes"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected every placeholder to be replaced")
	}

	if logs.Len() != 2 {
		t.Fatalf("expected request and response logs, got %d", logs.Len())
	}
	preview := logs.All()[0].ContextMap()["prompt_preview"].(string)
	if len([]rune(preview)) != 43 {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
}

func TestAssessorRequiresBothDocuments(t *testing.T) {
	assessor := NewAssessor(&stubGenerator{}, nil, 0)

	if _, err := assessor.Assess(context.Background(), ai.Request{CV: sections.NewMap()}); err == nil {
		t.Fatal("expected error without job sections")
	}
	if _, err := assessor.Assess(context.Background(), ai.Request{Job: sections.NewMap()}); err == nil {
		t.Fatal("expected error without cv sections")
	}
}

func TestAssessorPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	assessor := NewAssessor(&stubGenerator{err: boom}, nil, 0)

	if _, err := assessor.Assess(context.Background(), testRequest()); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestAssessorRejectsInvalidJSON(t *testing.T) {
	assessor := NewAssessor(&stubGenerator{response: "I cannot help with that."}, nil, 0)

	if _, err := assessor.Assess(context.Background(), testRequest()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuildPromptWithoutKeywords(t *testing.T) {
	prompt := buildPrompt("{}", "{}", nil)
	if !strings.Contains(prompt, "Keywords:\nnone") {
		t.Fatalf("expected none placeholder for empty keywords")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go: {\"a\":{\"b\":2}} Thanks!", `{"a":{"b":2}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
