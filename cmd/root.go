package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-matcher/internal/matcher"
)

const (
	app       = "cv-matcher"
	envPrefix = "CV_MATCHER"
)

type Config struct {
	Listen      string           `mapstructure:"listen"`
	UploadDir   string           `mapstructure:"upload-dir"`
	Concurrency int              `mapstructure:"concurrency"`
	Thresholds  ThresholdsConfig `mapstructure:"thresholds"`
	Keywords    KeywordsConfig   `mapstructure:"keywords"`
	Headers     HeadersConfig    `mapstructure:"headers"`
	AI          AIConfig         `mapstructure:"ai"`
}

// ThresholdsConfig overrides the thresholds of the selected header oracle.
// Unset values keep that oracle's defaults.
type ThresholdsConfig struct {
	SectionCV      *float64 `mapstructure:"section-classify-cv"`
	SectionJob     *float64 `mapstructure:"section-classify-job"`
	KeywordExtract *float64 `mapstructure:"keyword-extract"`
	KeywordScore   *float64 `mapstructure:"keyword-score"`
}

func (c ThresholdsConfig) resolve(base matcher.Thresholds) matcher.Thresholds {
	for _, o := range []struct {
		dst *float64
		src *float64
	}{
		{&base.SectionCV, c.SectionCV},
		{&base.SectionJob, c.SectionJob},
		{&base.KeywordExtract, c.KeywordExtract},
		{&base.KeywordScore, c.KeywordScore},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return base
}

type KeywordsConfig struct {
	// File holds one keyword per line; takes precedence over List.
	File string   `mapstructure:"file"`
	List []string `mapstructure:"list"`
}

type HeadersConfig struct {
	// Oracle is "lexical" or "gemini".
	Oracle string `mapstructure:"oracle"`
}

type AIConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// EmbeddingCache is a SQLite path for header embeddings. Empty keeps them in memory.
	EmbeddingCache string       `mapstructure:"embedding-cache"`
	Gemini         GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string  `mapstructure:"api-key-file"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding-model"`
	Temperature    float32 `mapstructure:"temperature"`
	MaxRetries     int     `mapstructure:"max-retries"`
	MaxLogLength   int     `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-matcher splits CVs and job postings into sections and scores how well they match",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	setDefaults()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Threshold defaults depend on headers.oracle and are applied in bootstrap.
	for _, key := range thresholdKeys {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("binding %s environment variable: %v", key, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

var thresholdKeys = []string{
	"thresholds.section-classify-cv",
	"thresholds.section-classify-job",
	"thresholds.keyword-extract",
	"thresholds.keyword-score",
}

func setDefaults() {
	viper.SetDefault("listen", ":8152")
	viper.SetDefault("upload-dir", "uploads")
	viper.SetDefault("concurrency", 8)
	viper.SetDefault("keywords.file", "")
	viper.SetDefault("keywords.list", []string{})
	viper.SetDefault("headers.oracle", oracleLexical)
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.embedding-cache", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.embedding-model", "text-embedding-004")
	viper.SetDefault("ai.gemini.temperature", 0.15)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly; a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
