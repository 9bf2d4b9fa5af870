package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Assessor asks Gemini to grade a CV against a job posting.
type Assessor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

var _ ai.Assessor = (*Assessor)(nil)

func NewAssessor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Assessor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Assessor) Assess(ctx context.Context, req ai.Request) (*ai.Assessment, error) {
	if req.Job == nil {
		return nil, errors.New("job sections are required")
	}
	if req.CV == nil {
		return nil, errors.New("cv sections are required")
	}

	jobJSON, err := json.MarshalIndent(req.Job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job sections: %w", err)
	}
	cvJSON, err := json.MarshalIndent(req.CV, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cv sections: %w", err)
	}

	prompt := buildPrompt(string(jobJSON), string(cvJSON), req.Keywords)

	a.logger.Debug("gemini assessment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Int("keywords", len(req.Keywords)),
		zap.String("prompt_preview", utils.TruncateForLog(utils.SingleLine(prompt), a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini assessment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(utils.SingleLine(raw), a.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Model = a.generator.Model()
	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(jobJSON, cvJSON string, keywords []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job posting sections:\n{{JOB_SECTIONS}}\n\nCV sections:\n{{CV_SECTIONS}}\n\nKeywords:\n{{KEYWORDS}}\n\nJSON Response:"
	}

	list := "none"
	if len(keywords) > 0 {
		list = strings.Join(keywords, ", ")
	}

	return strings.NewReplacer(
		"{{JOB_SECTIONS}}", jobJSON,
		"{{CV_SECTIONS}}", cvJSON,
		"{{KEYWORDS}}", list,
	).Replace(template)
}

// parseResponse decodes the model reply. Numbers sent as strings and similar
// loose typing are accepted.
func parseResponse(raw string) (*ai.Assessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var out ai.Assessment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	out.Summary = strings.TrimSpace(out.Summary)
	if out.Keywords == nil {
		out.Keywords = map[string]ai.KeywordAssessment{}
	}

	return &out, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}
