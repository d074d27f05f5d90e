// Package config loads service configuration from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every automatically bound environment variable,
// e.g. RESUME_SERVER_ADDR for server.addr.
const EnvPrefix = "RESUME"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	OTP       OTPConfig
	Email     EmailConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Queue     QueueConfig
	Cache     CacheConfig
	Cleanup   CleanupConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Resume    ResumeConfig
	Skills    SkillsConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL string
}

// EmailConfig configures outgoing mail.
type EmailConfig struct {
	ResendAPIKey string
	From         string
	Timeout      time.Duration
}

// LLMConfig configures the language model.
type LLMConfig struct {
	APIKey        string
	Model         string
	Temperature   float32
	MaxInputRunes int
	Attempts      int
	Backoff       time.Duration
	DebugLog      string
}

// StorageConfig selects and configures the object store.
type StorageConfig struct {
	Backend  string // "local" or "s3"
	LocalDir string
	S3Bucket string
	S3Prefix string
	S3Region string
}

// QueueConfig selects and configures the parse job queue.
type QueueConfig struct {
	Backend   string // "local" or "amqp"
	AMQPURL   string
	QueueName string
	Workers   int
	Buffer    int
}

// CacheConfig selects and configures the score cache.
type CacheConfig struct {
	Backend string // "memory" or "db"
	TTL     time.Duration
}

// CleanupConfig configures the maintenance loop.
type CleanupConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// RateLimitConfig configures request rate limiting.
type RateLimitConfig struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       []string
	Blacklist       []string
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level      string
	Format     string // "text" or "json"
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ResumeConfig configures resume uploads.
type ResumeConfig struct {
	MaxUploadBytes int64
	KeepHistory    bool
	// FileTTL expires uploaded versions after this long; zero keeps them.
	FileTTL time.Duration
}

// SkillsConfig overrides skill scoring weights and selects the phrase extractor.
type SkillsConfig struct {
	MinConfidence    float64
	RequiredWindow   int
	// Extractor is "rule" or "llm". The llm extractor falls back to rules on failure.
	Extractor        string
	ExtractorTimeout time.Duration
}

// newViper builds a viper instance with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_ttl", DefaultAccessTTL.String())
	v.SetDefault("auth.refresh_ttl", DefaultRefreshTTL.String())
	v.SetDefault("auth.otp_secret", "")
	v.SetDefault("auth.otp_ttl", DefaultOTPTTL.String())
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)

	v.SetDefault("email.resend_api_key", "")
	v.SetDefault("email.from", "Resume Enhancer <onboarding@resend.dev>")
	v.SetDefault("email.timeout", "10s")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_input_runes", 5000)
	v.SetDefault("llm.attempts", 3)
	v.SetDefault("llm.backoff", "500ms")
	v.SetDefault("llm.debug_log", "logs/gemini_debug.log")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_prefix", "resumes")
	v.SetDefault("storage.s3_region", "")

	v.SetDefault("queue.backend", "local")
	v.SetDefault("queue.amqp_url", "")
	v.SetDefault("queue.name", "resume_parse")
	v.SetDefault("queue.workers", 2)
	v.SetDefault("queue.buffer", 64)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("cleanup.interval", "10m")
	v.SetDefault("cleanup.retention", "720h")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.default_limit", 1000)
	v.SetDefault("ratelimit.default_window", "1m")
	v.SetDefault("ratelimit.cleanup_interval", "5m")
	v.SetDefault("ratelimit.whitelist", []string{})
	v.SetDefault("ratelimit.blacklist", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("resume.max_upload_bytes", 10<<20)
	v.SetDefault("resume.keep_history", false)
	v.SetDefault("resume.file_ttl", "0s")

	v.SetDefault("skills.min_confidence", 0.5)
	v.SetDefault("skills.required_window", 50)
	v.SetDefault("skills.extractor", "rule")
	v.SetDefault("skills.extractor_timeout", "30s")

	// Unprefixed variables used by existing deployments
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.otp_secret", "OTP_SECRET")
	_ = v.BindEnv("llm.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	_ = v.BindEnv("email.from", "EMAIL_FROM")
	_ = v.BindEnv("queue.amqp_url", "RABBITMQ_URL")
	_ = v.BindEnv("storage.s3_bucket", "S3_BUCKET")
	_ = v.BindEnv("storage.s3_region", "AWS_REGION")

	return v
}

// Load reads configuration. path may name a YAML file; when empty only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("auth.jwt_secret"),
			AccessTTL:  v.GetDuration("auth.access_ttl"),
			RefreshTTL: v.GetDuration("auth.refresh_ttl"),
		},
		OTP: OTPConfig{
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
			Secret:     v.GetString("auth.otp_secret"),
			TTL:        v.GetDuration("auth.otp_ttl"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("email.resend_api_key"),
			From:         v.GetString("email.from"),
			Timeout:      v.GetDuration("email.timeout"),
		},
		LLM: LLMConfig{
			APIKey:        v.GetString("llm.api_key"),
			Model:         v.GetString("llm.model"),
			Temperature:   float32(v.GetFloat64("llm.temperature")),
			MaxInputRunes: v.GetInt("llm.max_input_runes"),
			Attempts:      v.GetInt("llm.attempts"),
			Backoff:       v.GetDuration("llm.backoff"),
			DebugLog:      v.GetString("llm.debug_log"),
		},
		Storage: StorageConfig{
			Backend:  v.GetString("storage.backend"),
			LocalDir: v.GetString("storage.local_dir"),
			S3Bucket: v.GetString("storage.s3_bucket"),
			S3Prefix: v.GetString("storage.s3_prefix"),
			S3Region: v.GetString("storage.s3_region"),
		},
		Queue: QueueConfig{
			Backend:   v.GetString("queue.backend"),
			AMQPURL:   v.GetString("queue.amqp_url"),
			QueueName: v.GetString("queue.name"),
			Workers:   v.GetInt("queue.workers"),
			Buffer:    v.GetInt("queue.buffer"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Cleanup: CleanupConfig{
			Interval:  v.GetDuration("cleanup.interval"),
			Retention: v.GetDuration("cleanup.retention"),
		},
		RateLimit: RateLimitConfig{
			Enabled:         v.GetBool("ratelimit.enabled"),
			DefaultLimit:    v.GetInt("ratelimit.default_limit"),
			DefaultWindow:   v.GetDuration("ratelimit.default_window"),
			CleanupInterval: v.GetDuration("ratelimit.cleanup_interval"),
			Whitelist:       v.GetStringSlice("ratelimit.whitelist"),
			Blacklist:       v.GetStringSlice("ratelimit.blacklist"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		Resume: ResumeConfig{
			MaxUploadBytes: v.GetInt64("resume.max_upload_bytes"),
			KeepHistory:    v.GetBool("resume.keep_history"),
			FileTTL:        v.GetDuration("resume.file_ttl"),
		},
		Skills: SkillsConfig{
			MinConfidence:    v.GetFloat64("skills.min_confidence"),
			RequiredWindow:   v.GetInt("skills.required_window"),
			Extractor:        v.GetString("skills.extractor"),
			ExtractorTimeout: v.GetDuration("skills.extractor_timeout"),
		},
	}
}

// Validate checks the settings required to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database URL is required (DATABASE_URL)"))
	}
	if err := c.JWT.normalize(); err != nil {
		errs = append(errs, err)
	}
	if err := c.OTP.normalize(); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("storage.s3_bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	switch c.Queue.Backend {
	case "local":
	case "amqp":
		if c.Queue.AMQPURL == "" {
			errs = append(errs, errors.New("queue.amqp_url is required for the amqp backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown queue backend %q", c.Queue.Backend))
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "db" {
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Resume.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("resume.max_upload_bytes must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}
