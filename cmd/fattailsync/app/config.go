package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// envPrefix prefixes every environment variable, e.g. FATTAILSYNC_EDGE_TOKEN.
const envPrefix = "FATTAILSYNC"

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	FatTail FatTailConfig
	Edge    EdgeConfig
	Sync    SyncConfig
	Metrics MetricsConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// FatTailConfig holds the FatTail SOAP endpoint and credentials.
type FatTailConfig struct {
	URL      string `validate:"required,url"`
	Username string
	Password string
}

// EdgeConfig holds the Edge REST endpoint and credentials.
type EdgeConfig struct {
	URL       string  `validate:"required,url"`
	Token     string  `validate:"required"`
	RateLimit float64 `validate:"gte=0"`
	PageSize  int     `validate:"gt=0,lte=500"`
}

// SyncConfig holds the reconciliation settings.
type SyncConfig struct {
	TmpDir            string `validate:"required"`
	KeepTmpDir        bool
	WorkspaceTemplate string
	SalesRole         string
	PollInterval      time.Duration `validate:"gt=0"`
	ReportTimeout     time.Duration `validate:"gt=0"`
	WorkspaceProperty string        `validate:"required"`
	MilestoneProperty string        `validate:"required"`
	DeletedPattern    string
	FailFast          bool
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile collector path. Empty disables export.
	Textfile string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (FATTAILSYNC_*)
// 3. .env files
// 4. Config file (configFile, or .fattailsync.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".fattailsync")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),
		Format:     v.GetString("format"),

		FatTail: FatTailConfig{
			URL:      v.GetString("fattail.url"),
			Username: v.GetString("fattail.username"),
			Password: v.GetString("fattail.password"),
		},
		Edge: EdgeConfig{
			URL:       v.GetString("edge.url"),
			Token:     v.GetString("edge.token"),
			RateLimit: v.GetFloat64("edge.rate_limit"),
			PageSize:  v.GetInt("edge.page_size"),
		},
		Sync: SyncConfig{
			TmpDir:            v.GetString("sync.tmp_dir"),
			KeepTmpDir:        v.GetBool("sync.keep_tmp_dir"),
			WorkspaceTemplate: v.GetString("sync.workspace_template"),
			SalesRole:         v.GetString("sync.sales_role"),
			PollInterval:      v.GetDuration("sync.poll_interval"),
			ReportTimeout:     v.GetDuration("sync.report_timeout"),
			WorkspaceProperty: v.GetString("sync.workspace_property"),
			MilestoneProperty: v.GetString("sync.milestone_property"),
			DeletedPattern:    v.GetString("sync.deleted_pattern"),
			FailFast:          v.GetBool("sync.fail_fast"),
		},
		Metrics: MetricsConfig{
			Textfile: v.GetString("metrics.textfile"),
		},

		LogLevel:  getFirst(v.GetString("log.level"), os.Getenv("LOG_LEVEL")),
		LogFormat: getFirst(v.GetString("log.format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: getFirst(v.GetString("log.output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "")
	v.SetDefault("fattail.url", "")
	v.SetDefault("fattail.username", "")
	v.SetDefault("fattail.password", "")
	v.SetDefault("edge.url", "")
	v.SetDefault("edge.token", "")
	v.SetDefault("edge.rate_limit", constants.DefaultRateLimit)
	v.SetDefault("edge.page_size", constants.DefaultPageSize)
	v.SetDefault("sync.tmp_dir", constants.DefaultTmpDir)
	v.SetDefault("sync.keep_tmp_dir", false)
	v.SetDefault("sync.workspace_template", "")
	v.SetDefault("sync.sales_role", "")
	v.SetDefault("sync.poll_interval", constants.DefaultPollInterval)
	v.SetDefault("sync.report_timeout", constants.DefaultReportTimeout)
	v.SetDefault("sync.workspace_property", constants.DefaultWorkspaceProperty)
	v.SetDefault("sync.milestone_property", constants.DefaultMilestoneProperty)
	v.SetDefault("sync.deleted_pattern", constants.DefaultDeletedPattern)
	v.SetDefault("sync.fail_fast", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")
	v.SetDefault("log.output", "")
}

// Validate checks the settings a sync pass needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.NewConfigError("config", err.Error(), err)
		}
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return errors.NewConfigError("config", strings.Join(problems, "; "), err)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getFirst returns the first non-empty value.
func getFirst(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
