package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags, environment
// variables, and an optional .env file.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL   string `mapstructure:"api_base_url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	Hashtag         string `mapstructure:"hashtag"`
	DryRun          bool   `mapstructure:"dry_run"`
	Once            bool   `mapstructure:"once"`
	BatchSize       int    `mapstructure:"batch_size"`
	SinceID         string `mapstructure:"since_id"`
	WelcomeTemplate string `mapstructure:"welcome_template"`
	ReplyVisibility string `mapstructure:"reply_visibility"`
	NotifiersFile   string `mapstructure:"notifiers_file"`

	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
}

// DefaultWelcomeTemplate is used when no template is configured. {handle} and
// {hashtag} are replaced per welcome.
const DefaultWelcomeTemplate = "@{handle} Welcome! Thanks for introducing yourself on #{hashtag}. Glad to have you here."

const maxBatchSize = 40 // timeline page size cap imposed by the API

// Load reads configuration from CLI flags, environment variables, and config files.
// Flags take precedence over WELCOME_BOT_* environment variables.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-welcome-bot")
	v.SetDefault("log_level", "info")
	v.SetDefault("poll_interval", 5) // seconds
	v.SetDefault("batch_size", 20)
	v.SetDefault("welcome_template", DefaultWelcomeTemplate)
	v.SetDefault("reply_visibility", "public")

	// Every key needs a registered default so environment-only values survive
	// Unmarshal.
	v.SetDefault("api_base_url", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("hashtag", "")
	v.SetDefault("dry_run", false)
	v.SetDefault("once", false)
	v.SetDefault("since_id", "")
	v.SetDefault("notifiers_file", "")

	fs := pflag.NewFlagSet("welcomebot", pflag.ContinueOnError)
	fs.String("api-base-url", "", "base URL of the target instance")
	fs.String("username", "", "bot account login identifier (email)")
	fs.String("password", "", "bot account password")
	fs.String("client-id", "", "OAuth2 application client id")
	fs.String("client-secret", "", "OAuth2 application client secret")
	fs.String("hashtag", "", "hashtag to monitor (without the leading #)")
	fs.Bool("dry-run", false, "log intended replies without posting them")
	fs.Bool("once", false, "run a single pass and exit")
	fs.Int64("poll-interval", 5, "seconds between passes")
	fs.Int("batch-size", 20, "timeline page size per fetch")
	fs.String("since-id", "", "status id to start after (default: most recent on the hashtag)")
	fs.String("welcome-template", DefaultWelcomeTemplate, "welcome message template")
	fs.String("reply-visibility", "public", "visibility of posted replies")
	fs.String("notifiers-file", "", "path to the notifiers registry file")
	fs.String("log-level", "info", "log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	bindings := map[string]string{
		"api_base_url":     "api-base-url",
		"username":         "username",
		"password":         "password",
		"client_id":        "client-id",
		"client_secret":    "client-secret",
		"hashtag":          "hashtag",
		"dry_run":          "dry-run",
		"once":             "once",
		"poll_interval":    "poll-interval",
		"batch_size":       "batch-size",
		"since_id":         "since-id",
		"welcome_template": "welcome-template",
		"reply_visibility": "reply-visibility",
		"notifiers_file":   "notifiers-file",
		"log_level":        "log-level",
	}
	for key, flagName := range bindings {
		flag := fs.Lookup(flagName)
		if flag == nil {
			return nil, fmt.Errorf("flag %q is not declared", flagName)
		}
		// Only let a flag override the environment when it was set explicitly.
		if flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %q: %w", flagName, err)
			}
		}
	}

	v.SetEnvPrefix("WELCOME_BOT")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Hashtag = strings.TrimPrefix(cfg.Hashtag, "#")
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	return &cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"api_base_url", c.APIBaseURL},
		{"username", c.Username},
		{"password", c.Password},
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"hashtag", c.Hashtag},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	if c.BatchSize <= 0 || c.BatchSize > maxBatchSize {
		return fmt.Errorf("invalid batch_size (must be 1..%d)", maxBatchSize)
	}
	if strings.TrimSpace(c.WelcomeTemplate) == "" {
		return fmt.Errorf("welcome_template must not be empty")
	}
	switch c.ReplyVisibility {
	case "public", "unlisted", "private", "direct":
	default:
		return fmt.Errorf("invalid reply_visibility %q", c.ReplyVisibility)
	}
	return nil
}

// Redacted returns a loggable view of the config with credentials masked.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"app_name":         c.AppName,
		"log_level":        c.LogLevel,
		"api_base_url":     c.APIBaseURL,
		"username":         c.Username,
		"password":         "<redacted>",
		"client_id":        c.ClientID,
		"client_secret":    "<redacted>",
		"hashtag":          c.Hashtag,
		"dry_run":          c.DryRun,
		"once":             c.Once,
		"poll_interval":    c.PollInterval.String(),
		"batch_size":       c.BatchSize,
		"since_id":         c.SinceID,
		"reply_visibility": c.ReplyVisibility,
		"notifiers_file":   c.NotifiersFile,
	}
}
