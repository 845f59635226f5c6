// Package config loads and validates the application configuration from
// the TOML file at ~/.config/harv/config.toml, layered with environment
// variable overrides for every credential.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Configuration errors.
var (
	ErrNotFound            = errors.New("configuration file not found")
	ErrInvalid             = errors.New("invalid configuration")
	ErrInsecurePermissions = errors.New("configuration file is readable by other users")
)

// Config is the full application configuration.
type Config struct {
	Harvest  HarvestConfig  `mapstructure:"harvest"`
	Jira     JiraConfig     `mapstructure:"jira"`
	AI       AIConfig       `mapstructure:"ai"`
	Settings SettingsConfig `mapstructure:"settings"`
}

// HarvestConfig holds Harvest API credentials.
type HarvestConfig struct {
	AccessToken string `mapstructure:"access_token"`
	AccountID   string `mapstructure:"account_id"`
}

// JiraConfig holds Jira API credentials and the site base URL.
type JiraConfig struct {
	AccessToken string `mapstructure:"access_token"`
	BaseURL     string `mapstructure:"base_url"`
}

// AIConfig controls the proposal pipeline.
type AIConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	TargetHours float64 `mapstructure:"target_hours"`
}

// SettingsConfig holds behavioral settings.
type SettingsConfig struct {
	Repos            []string `mapstructure:"repos"`
	TicketDenylist   []string `mapstructure:"ticket_denylist"`
	AutoStop         bool     `mapstructure:"auto_stop"`
	AutoStart        bool     `mapstructure:"auto_start"`
	AutoSelectSingle bool     `mapstructure:"auto_select_single"`
	ContinueMode     string   `mapstructure:"continue_mode"`
	ContinueDays     int      `mapstructure:"continue_days"`
}

// Path returns the configuration file location: $HARV_CONFIG when set,
// otherwise ~/.config/harv/config.toml.
func Path() (string, error) {
	if p := os.Getenv("HARV_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "harv", "config.toml"), nil
}

// UsagePath returns the usage cache location next to the config file.
func UsagePath() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "usage.json"), nil
}

// Load reads, overlays and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// read parses the file without validation. Used by `config show` so a
// broken config can still be inspected.
func read(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `harv config init`)", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o044 != 0 {
		return nil, fmt.Errorf("%w: %s, run chmod 600", ErrInsecurePermissions, path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("settings.auto_select_single", true)
	v.SetDefault("settings.continue_mode", "ask")
	v.SetDefault("settings.continue_days", 1)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.target_hours", 8.0)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto the file contents. Every
// credential has an override so tokens can stay out of the file entirely.
func applyEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&cfg.Harvest.AccessToken, "HARVEST_ACCESS_TOKEN")
	setStr(&cfg.Harvest.AccountID, "HARVEST_ACCOUNT_ID")
	setStr(&cfg.Jira.AccessToken, "JIRA_ACCESS_TOKEN")
	setStr(&cfg.Jira.BaseURL, "JIRA_BASE_URL")
	setStr(&cfg.AI.APIKey, "AI_API_KEY")
	setStr(&cfg.AI.Provider, "AI_PROVIDER")
	setStr(&cfg.AI.Model, "AI_MODEL")
	setStr(&cfg.Settings.ContinueMode, "CONTINUE_MODE")

	if v := os.Getenv("AI_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AI.Enabled = b
		}
	}
	if v := os.Getenv("AI_TARGET_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AI.TargetHours = f
		}
	}
}

// placeholderPrefixes are fragments of the template values. A token that
// still carries one was never filled in.
var placeholderPrefixes = []string{
	"your_harvest",
	"your_account",
	"your_jira",
	"your-company",
	"your_",
}

func isPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, p := range placeholderPrefixes {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Validate checks the effective configuration after env overlay.
func (c *Config) Validate() error {
	var problems []string

	if c.Harvest.AccessToken == "" || isPlaceholder(c.Harvest.AccessToken) {
		problems = append(problems, "harvest.access_token is missing or still the template value")
	}
	if c.Harvest.AccountID == "" || isPlaceholder(c.Harvest.AccountID) {
		problems = append(problems, "harvest.account_id is missing or still the template value")
	}
	if c.Jira.AccessToken == "" || isPlaceholder(c.Jira.AccessToken) {
		problems = append(problems, "jira.access_token is missing or still the template value")
	}
	if c.Jira.BaseURL == "" || isPlaceholder(c.Jira.BaseURL) {
		problems = append(problems, "jira.base_url is missing or still the template value")
	} else if !strings.HasPrefix(c.Jira.BaseURL, "http://") && !strings.HasPrefix(c.Jira.BaseURL, "https://") {
		problems = append(problems, "jira.base_url must start with http:// or https://")
	}

	switch c.Settings.ContinueMode {
	case "", "ask", "restart", "new":
	default:
		problems = append(problems, fmt.Sprintf("settings.continue_mode %q must be ask, restart or new", c.Settings.ContinueMode))
	}
	if c.Settings.ContinueDays < 0 {
		problems = append(problems, "settings.continue_days must not be negative")
	}

	if c.AI.Enabled {
		switch strings.ToLower(c.AI.Provider) {
		case "openai", "anthropic", "claude":
		default:
			problems = append(problems, fmt.Sprintf("ai.provider %q must be openai or anthropic", c.AI.Provider))
		}
		if c.AI.APIKey == "" || isPlaceholder(c.AI.APIKey) {
			problems = append(problems, "ai.api_key is missing or still the template value")
		}
		if c.AI.TargetHours <= 0 || c.AI.TargetHours > 24 {
			problems = append(problems, "ai.target_hours must be in (0, 24]")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(problems, "\n  - "))
	}
	return nil
}

// Template is the starter file written by `config init`.
const Template = `# harv configuration
#
# Credentials may also come from the environment: HARVEST_ACCESS_TOKEN,
# HARVEST_ACCOUNT_ID, JIRA_ACCESS_TOKEN, JIRA_BASE_URL, AI_API_KEY.

[harvest]
access_token = "your_harvest_token"
account_id = "your_account_id"

[jira]
access_token = "your_jira_token"
base_url = "https://your-company.atlassian.net"

[settings]
# Repositories to scan; empty means the current directory.
repos = []
# Ticket prefixes to ignore, e.g. vulnerability identifiers.
ticket_denylist = ["CWE", "CVE"]
# Stop a conflicting running timer without asking.
auto_stop = false
# Start without prompting; combine with auto_stop for scheduled runs.
# Note: concurrent invocations are not guarded against.
auto_start = false
# Skip the selection prompt when exactly one ticket is found.
auto_select_single = true
# continue behavior: "restart", "new" or "ask".
continue_mode = "ask"
continue_days = 1

[ai]
enabled = false
provider = "openai"
model = ""
api_key = "your_ai_key"
target_hours = 8.0
`

// WriteTemplate writes the starter configuration, refusing to overwrite.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return nil
}

// Read loads the file without validating, for inspection commands.
func Read(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
