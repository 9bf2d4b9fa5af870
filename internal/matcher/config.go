package matcher

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidConfig, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// Thresholds are the similarity scores a match must reach at each stage.
type Thresholds struct {
	// SectionCV is the header classification threshold for résumés.
	SectionCV float64 `mapstructure:"section-classify-cv" json:"section_classify_cv"`
	// SectionJob is the header classification threshold for job postings.
	SectionJob float64 `mapstructure:"section-classify-job" json:"section_classify_job"`
	// KeywordExtract is the threshold for picking whitelist keywords out of a job posting.
	KeywordExtract float64 `mapstructure:"keyword-extract" json:"keyword_extract"`
	// KeywordScore is the threshold for finding a keyword in a résumé section.
	KeywordScore float64 `mapstructure:"keyword-score" json:"keyword_score"`
}

// DefaultThresholds returns the thresholds used with the default
// character-sequence header oracle. Ordinary résumé lines such as
// "Experienced in Go" score around 0.75 against "experience" there, so résumé
// headers need a near-exact match.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SectionCV:      0.9,
		SectionJob:     0.93,
		KeywordExtract: 0.8,
		KeywordScore:   0.8,
	}
}

// SemanticThresholds returns the thresholds used with an embedding header
// oracle, whose cosine scores for paraphrased headers run lower. Résumé
// headers are classified more loosely than job posting headers.
func SemanticThresholds() Thresholds {
	t := DefaultThresholds()
	t.SectionCV = 0.7
	return t
}

// Validate rejects thresholds outside [0,1]. Values are never clamped.
func (t Thresholds) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"thresholds.section-classify-cv", t.SectionCV},
		{"thresholds.section-classify-job", t.SectionJob},
		{"thresholds.keyword-extract", t.KeywordExtract},
		{"thresholds.keyword-score", t.KeywordScore},
	}

	var errs []error
	for _, c := range checks {
		if !(c.value >= 0 && c.value <= 1) {
			errs = append(errs, &ConfigError{Field: c.field, Err: fmt.Errorf("%v is outside [0,1]", c.value)})
		}
	}
	return errors.Join(errs...)
}
