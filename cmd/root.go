package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/logger"
	"github.com/spigell/shortlist/internal/scoring"
)

const (
	app       = "shortlist"
	envPrefix = "SHORTLIST"
)

type Config struct {
	UserAgent   string          `mapstructure:"user-agent"`
	ExcludeFile string          `mapstructure:"exclude-file"`
	Filter      *FilterConfig   `mapstructure:"filter"`
	Ingest      *IngestConfig   `mapstructure:"ingest"`
	Share       *ShareConfig    `mapstructure:"share"`
	Scoring     scoring.Weights `mapstructure:"scoring"`
	History     *HistoryConfig  `mapstructure:"history"`
	AI          *AIConfig       `mapstructure:"ai"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "shortlist narrows job-hunting company lists down to the ones worth a look",
	}
)

// ExecuteContext executes the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is shortlist.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	w := scoring.DefaultWeights()
	viper.SetDefault("scoring.remote", w.Remote)
	viper.SetDefault("scoring.latam", w.LATAM)
	viper.SetDefault("scoring.hiring", w.Hiring)
	viper.SetDefault("scoring.small-team", w.SmallTeam)
	viper.SetDefault("scoring.voice-agent-llm", w.VoiceAgentLLM)
	viper.SetDefault("scoring.developer-tool", w.DeveloperTool)
	viper.SetDefault("scoring.ats", w.ATS)

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.minimum-fit-score", 0.5)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 500)
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested config file is mandatory.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// bindFlags binds command flags to config keys. It runs in PreRun so that
// commands sharing a key (exclude-file) do not override each other.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// setup builds the logger for pipeline and loads the config. Both failures are fatal.
func setup(pipeline string) (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		l.Fatal("config is required")
	}

	return logger.ForPipeline(l, pipeline), config
}
