package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrServerAddrRequired = errors.New("blog config: server address is required")
var ErrUpstreamTimeoutInvalid = errors.New("blog config: upstream timeout must be positive")
var ErrContentDirRequired = errors.New("blog config: content directory is required")
var ErrContentWorkersInvalid = errors.New("blog config: content workers must be zero or positive")
var ErrSummaryLengthInvalid = errors.New("blog config: summary length must be zero or positive")
var ErrJWTSecretRequired = errors.New("blog config: auth jwt secret is required")
var ErrAuthTTLInvalid = errors.New("blog config: auth ttl must be positive")
var ErrGitHubRepoInvalid = errors.New("blog config: github repo must be in owner/name form")
var ErrStorageDriverUnknown = errors.New("blog config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("blog config: storage dsn is required for postgres")
var ErrPurgeScheduleInvalid = errors.New("blog config: storage purge schedule is invalid")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates the settings of the blog gateway and content pipeline.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Content  ContentConfig  `koanf:"content"`
	Markdown MarkdownConfig `koanf:"markdown"`
	Auth     AuthConfig     `koanf:"auth"`
	GitHub   GitHubConfig   `koanf:"github"`
	Storage  StorageConfig  `koanf:"storage"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig captures HTTP listener behaviour.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	BasePath        string        `koanf:"base_path"`
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Metrics         bool          `koanf:"metrics"`
}

// ContentConfig captures the article source directory and derivation knobs.
type ContentConfig struct {
	Dir              string            `koanf:"dir"`
	Pattern          string            `koanf:"pattern"`
	Recursive        bool              `koanf:"recursive"`
	Watch            bool              `koanf:"watch"`
	FeaturedCategory string            `koanf:"featured_category"`
	CategoryNames    map[string]string `koanf:"category_names"`
	Workers          int               `koanf:"workers"`
	SummaryLength    int               `koanf:"summary_length"`
}

// MarkdownConfig mirrors interfaces.ParseOptions plus the highlight style.
type MarkdownConfig struct {
	Extensions []string `koanf:"extensions"`
	HardWraps  bool     `koanf:"hard_wraps"`
	SafeMode   bool     `koanf:"safe_mode"`
	Style      string   `koanf:"style"`
}

// AuthConfig captures the verification gateway settings.
type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	AllowedEmails []string      `koanf:"allowed_emails"`
	CodeTTL       time.Duration `koanf:"code_ttl"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
}

// GitHubConfig points the posts publisher at a repository. An empty Repo
// disables the posts routes.
type GitHubConfig struct {
	Token   string `koanf:"token"`
	Repo    string `koanf:"repo"`
	BaseURL string `koanf:"base_url"`
}

// StorageConfig selects the key-value store backing codes and sessions.
type StorageConfig struct {
	Driver        string `koanf:"driver"`
	DSN           string `koanf:"dsn"`
	PurgeSchedule string `koanf:"purge_schedule"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string `koanf:"provider"`
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	AddSource bool   `koanf:"add_source"`
}

// DefaultConfig returns defaults suitable for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			BasePath:        "/",
			UpstreamTimeout: 10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Content: ContentConfig{
			Dir:              "articles",
			Pattern:          "*.md",
			Recursive:        true,
			FeaturedCategory: "frontend",
			SummaryLength:    150,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
			HardWraps:  true,
			Style:      "github",
		},
		Auth: AuthConfig{
			CodeTTL:    5 * time.Minute,
			SessionTTL: 7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			Driver:        "memory",
			PurgeSchedule: "@every 5m",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Server.UpstreamTimeout <= 0 {
		return ErrUpstreamTimeoutInvalid
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Content.Workers < 0 {
		return ErrContentWorkersInvalid
	}
	if cfg.Content.SummaryLength < 0 {
		return ErrSummaryLengthInvalid
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return ErrJWTSecretRequired
	}
	if cfg.Auth.CodeTTL <= 0 {
		return fmt.Errorf("%w: code_ttl", ErrAuthTTLInvalid)
	}
	if cfg.Auth.SessionTTL <= 0 {
		return fmt.Errorf("%w: session_ttl", ErrAuthTTLInvalid)
	}
	if repo := strings.TrimSpace(cfg.GitHub.Repo); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: %s", ErrGitHubRepoInvalid, repo)
		}
	}

	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case "memory", "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if schedule := strings.TrimSpace(cfg.Storage.PurgeSchedule); schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return fmt.Errorf("%w: %v", ErrPurgeScheduleInvalid, err)
		}
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
