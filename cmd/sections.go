package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/extract"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/sections"
)

const (
	PromptAll  = "Print all sections as JSON"
	PromptExit = "exit"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "Split a CV (or a job posting with --job) into sections",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printSections(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)

	sectionsCmd.Flags().Bool("job", false, "treat the document as a job posting")
	sectionsCmd.Flags().BoolP("interactive", "i", false, "choose the section to print from a menu")
}

func printSections(cmd *cobra.Command, path string) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer base.Sync()

	config, err := getConfig()
	if err != nil {
		base.Fatal("getting a config", zap.Error(err))
	}

	isJob, _ := cmd.Flags().GetBool("job")
	kind := "cv"
	if isJob {
		kind = "job"
	}
	docLog := logger.ForDocument(base, kind, path)

	svc, err := bootstrap(ctx, config, base)
	if err != nil {
		docLog.Fatal("initializing the matcher", zap.Error(err))
	}
	defer svc.Close()

	m, err := parseDocument(ctx, svc, path, isJob)
	if err != nil {
		docLog.Fatal("parsing the document", zap.Error(err))
	}
	docLog.Info("document parsed", zap.Strings("sections", m.Names()))

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		if err := writeJSON(cmd.OutOrStdout(), m); err != nil {
			docLog.Fatal("printing sections", zap.Error(err))
		}
		return
	}

	if err := browseSections(cmd.OutOrStdout(), m); err != nil && !errors.Is(err, promptui.ErrInterrupt) {
		docLog.Fatal("browsing sections", zap.Error(err))
	}
}

func parseDocument(ctx context.Context, svc *services, path string, isJob bool) (*sections.Map, error) {
	text, err := extract.File(path)
	if err != nil {
		return nil, err
	}
	if isJob {
		return svc.engine.ParseJob(ctx, text)
	}
	return svc.engine.ParseCV(ctx, text)
}

func browseSections(w io.Writer, m *sections.Map) error {
	for {
		items := append(m.Names(), PromptAll, PromptExit)
		selector := promptui.Select{
			Label: "Choose a section and press ENTER",
			Items: items,
			Size:  len(items),
		}

		_, selected, err := selector.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptExit:
			return nil
		case PromptAll:
			if err := writeJSON(w, m); err != nil {
				return err
			}
		default:
			fmt.Fprintf(w, "[%s]\n%s\n", selected, m.Get(selected))
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
