package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/keywords"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/sections"
)

type scoreReport struct {
	Job        *sections.Map    `json:"job_sections"`
	CV         *sections.Map    `json:"cv_sections"`
	Score      *keywords.Result `json:"score"`
	Assessment *ai.Assessment   `json:"assessment,omitempty"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV against a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("cv", "", "CV file (.pdf, .docx, .txt)")
	scoreCmd.Flags().String("job", "", "job posting file (.pdf, .docx, .txt)")
	scoreCmd.Flags().Bool("ai", false, "also ask the LLM for an assessment (requires ai.enabled)")

	scoreCmd.MarkFlagRequired("cv")
	scoreCmd.MarkFlagRequired("job")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	svc, err := bootstrap(ctx, config, logger)
	if err != nil {
		logger.Fatal("initializing the matcher", zap.Error(err))
	}
	defer svc.Close()

	cvPath, _ := cmd.Flags().GetString("cv")
	jobPath, _ := cmd.Flags().GetString("job")
	withAI, _ := cmd.Flags().GetBool("ai")

	report, err := buildReport(ctx, svc, cvPath, jobPath, withAI)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	logger.Info("scored",
		zap.String("cv", cvPath),
		zap.String("job", jobPath),
		zap.Int("total_score", report.Score.TotalScore),
	)

	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		logger.Fatal("printing the report", zap.Error(err))
	}
}

func buildReport(ctx context.Context, svc *services, cvPath, jobPath string, withAI bool) (*scoreReport, error) {
	if withAI && svc.assessor == nil {
		return nil, ai.ErrDisabled
	}

	cv, err := parseDocument(ctx, svc, cvPath, false)
	if err != nil {
		return nil, err
	}
	job, err := parseDocument(ctx, svc, jobPath, true)
	if err != nil {
		return nil, err
	}

	result, err := svc.engine.Match(ctx, job, cv)
	if err != nil {
		return nil, err
	}

	report := &scoreReport{Job: job, CV: cv, Score: result}
	if withAI {
		report.Assessment, err = svc.assessor.Assess(ctx, ai.Request{
			Job:      job,
			CV:       cv,
			Keywords: svc.engine.Whitelist().Displays(),
		})
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}
