// Package ai defines the LLM assessment that runs alongside the deterministic
// keyword score. The two results are reported side by side and never merged.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/cv-matcher/internal/sections"
)

// ErrDisabled is returned when an assessment is requested but no provider is configured.
var ErrDisabled = errors.New("ai assessment is disabled")

// Request carries both documents and the whitelist the model should grade against.
type Request struct {
	Job      *sections.Map
	CV       *sections.Map
	Keywords []string
}

type KeywordAssessment struct {
	Score  int    `mapstructure:"score" json:"score"`
	Source string `mapstructure:"source" json:"source"`
}

type EducationAssessment struct {
	University      string `mapstructure:"university" json:"university"`
	Tier            int    `mapstructure:"tier" json:"tier"`
	Score           int    `mapstructure:"score" json:"score"`
	DepartmentMatch bool   `mapstructure:"department_match" json:"department_match"`
	DepartmentScore int    `mapstructure:"department_score" json:"department_score"`
}

// ExperienceAssessment compares required and found years of full-time experience.
type ExperienceAssessment struct {
	Required  float64 `mapstructure:"required" json:"required"`
	Found     float64 `mapstructure:"found" json:"found"`
	MatchType string  `mapstructure:"match_type" json:"match_type"`
	Score     int     `mapstructure:"score" json:"score"`
}

type Assessment struct {
	Keywords   map[string]KeywordAssessment `mapstructure:"keywords" json:"keywords"`
	Education  EducationAssessment          `mapstructure:"education" json:"education"`
	Experience ExperienceAssessment         `mapstructure:"experience_years" json:"experience_years"`
	TotalScore float64                      `mapstructure:"total_score" json:"total_score"`
	Summary    string                       `mapstructure:"summary" json:"summary"`

	Model string `mapstructure:"-" json:"model,omitempty"`
	Raw   string `mapstructure:"-" json:"-"`
}

type Assessor interface {
	Assess(ctx context.Context, req Request) (*Assessment, error)
}
