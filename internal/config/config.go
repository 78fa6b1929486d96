package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Schedule    string           `yaml:"schedule"`
	RunOnStart  bool             `yaml:"run_on_start"`
	FallbackDir string           `yaml:"fallback_dir"`
	Vault       VaultConfig      `yaml:"vault"`
	Window      WindowConfig     `yaml:"window"`
	Summarizer  SummarizerConfig `yaml:"summarizer"`
	Publisher   PublisherConfig  `yaml:"publisher"`
	Retry       RetryConfig      `yaml:"retry"`
	Logging     LoggingConfig    `yaml:"logging"`
}

type VaultConfig struct {
	Path      string `yaml:"path"`
	Extension string `yaml:"extension"`
	TargetTag string `yaml:"target_tag"`
}

type WindowConfig struct {
	Days      int    `yaml:"days"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

type SummarizerConfig struct {
	Type                string `yaml:"type"`
	Model               string `yaml:"model"`
	APIKey              string `yaml:"api_key"`
	MaxTokens           int    `yaml:"max_tokens"`
	MaxTokensPerRequest int    `yaml:"max_tokens_per_request"`
	AdditionalPrompt    string `yaml:"additional_prompt"`
	Skip                bool   `yaml:"skip"`
}

type PublisherConfig struct {
	Type            string        `yaml:"type"`
	NotifyWhenEmpty bool          `yaml:"notify_when_empty"`
	Email           EmailConfig   `yaml:"email"`
	Web             WebConfig     `yaml:"web"`
	Discord         DiscordConfig `yaml:"discord"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type RetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Delay returns the parsed base delay. Validation guarantees the value
// parses, so errors here fall back to the default.
func (r RetryConfig) Delay() time.Duration {
	d, err := time.ParseDuration(r.BaseDelay)
	if err != nil {
		return time.Second
	}
	return d
}

type LoggingConfig struct {
	Directory     string `yaml:"directory"`
	RetentionDays int    `yaml:"retention_days"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
	if cfg.FallbackDir == "" {
		cfg.FallbackDir = "digests"
	}
	if cfg.Vault.Extension == "" {
		cfg.Vault.Extension = ".md"
	}
	if cfg.Window.Days == 0 {
		cfg.Window.Days = 1
	}
	if cfg.Window.StartTime == "" {
		cfg.Window.StartTime = "00:00"
	}
	if cfg.Window.EndTime == "" {
		cfg.Window.EndTime = "23:59"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "anthropic"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Summarizer.MaxTokens == 0 {
		cfg.Summarizer.MaxTokens = 4096
	}
	if cfg.Summarizer.MaxTokensPerRequest == 0 {
		cfg.Summarizer.MaxTokensPerRequest = 8000
	}
	if cfg.Publisher.Type == "" {
		cfg.Publisher.Type = "stdout"
	}
	if cfg.Publisher.Web.Addr == "" {
		cfg.Publisher.Web.Addr = ":8080"
	}
	if cfg.Publisher.Email.SMTPPort == 0 {
		cfg.Publisher.Email.SMTPPort = 587
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.BaseDelay == "" {
		cfg.Retry.BaseDelay = "1s"
	}
	if cfg.Logging.Directory == "" {
		cfg.Logging.Directory = "logs"
	}
	if cfg.Logging.RetentionDays == 0 {
		cfg.Logging.RetentionDays = 7
	}
}

func validate(cfg *Config) error {
	if cfg.Vault.Path == "" {
		return fmt.Errorf("config: vault.path is required")
	}
	if cfg.Vault.TargetTag == "" {
		return fmt.Errorf("config: vault.target_tag is required")
	}
	if _, err := time.Parse("15:04", cfg.Window.StartTime); err != nil {
		return fmt.Errorf("config: invalid window.start_time %q (expected HH:MM)", cfg.Window.StartTime)
	}
	if _, err := time.Parse("15:04", cfg.Window.EndTime); err != nil {
		return fmt.Errorf("config: invalid window.end_time %q (expected HH:MM)", cfg.Window.EndTime)
	}
	if cfg.Summarizer.Type != "anthropic" {
		return fmt.Errorf("config: unsupported summarizer type %q (supported: anthropic)", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.APIKey == "" && !cfg.Summarizer.Skip {
		return fmt.Errorf("config: summarizer.api_key is required (set ANTHROPIC_API_KEY env var)")
	}
	if _, err := time.ParseDuration(cfg.Retry.BaseDelay); err != nil {
		return fmt.Errorf("config: invalid retry.base_delay %q: %w", cfg.Retry.BaseDelay, err)
	}
	switch cfg.Publisher.Type {
	case "stdout", "email", "web", "discord", "file":
	default:
		return fmt.Errorf("config: unsupported publisher type %q (supported: stdout, email, web, discord, file)", cfg.Publisher.Type)
	}
	if cfg.Publisher.Type == "discord" {
		if cfg.Publisher.Discord.WebhookURL == "" {
			return fmt.Errorf("config: publisher.discord.webhook_url is required for discord publisher")
		}
	}
	if cfg.Publisher.Type == "email" {
		if cfg.Publisher.Email.SMTPHost == "" {
			return fmt.Errorf("config: publisher.email.smtp_host is required for email publisher")
		}
		if len(cfg.Publisher.Email.To) == 0 {
			return fmt.Errorf("config: publisher.email.to is required for email publisher")
		}
		if cfg.Publisher.Email.From == "" {
			return fmt.Errorf("config: publisher.email.from is required for email publisher")
		}
		for _, addr := range cfg.Publisher.Email.To {
			if !validEmail(addr) {
				return fmt.Errorf("config: invalid email address %q in publisher.email.to", addr)
			}
		}
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validEmail(addr string) bool {
	return emailRegex.MatchString(addr)
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
