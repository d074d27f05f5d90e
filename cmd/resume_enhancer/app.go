package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/cache"
	"github.com/Kartik4138/Resume-enhancer/internal/config"
	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/email"
	"github.com/Kartik4138/Resume-enhancer/internal/llm"
	"github.com/Kartik4138/Resume-enhancer/internal/logging"
	"github.com/Kartik4138/Resume-enhancer/internal/nlp"
	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/server/middleware"
	"github.com/Kartik4138/Resume-enhancer/internal/storage"
)

// closers releases resources in reverse order of acquisition.
type closers []io.Closer

func (c *closers) add(closer io.Closer) {
	*c = append(*c, closer)
}

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type closeFunc func()

func (f closeFunc) Close() error {
	f()
	return nil
}

// loadConfig reads the --config file, defaults and the environment, and
// installs the configured logger as the slog default.
func loadConfig() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)
	return cfg, logger, closer, nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database URL is required (DATABASE_URL)")
	}
	return db.Connect(ctx, cfg.Database.URL)
}

// newPipeline builds the skill pipeline with the configured overrides. A nil
// extractor uses the rule based one.
func newPipeline(cfg config.SkillsConfig, extractor nlp.PhraseExtractor) (*nlp.Pipeline, error) {
	if extractor == nil {
		extractor = nlp.NewRuleExtractor()
	}
	nc := nlp.DefaultConfig()
	if cfg.MinConfidence > 0 {
		nc.MinConfidence = cfg.MinConfidence
	}
	if cfg.RequiredWindow > 0 {
		nc.RequiredWindow = cfg.RequiredWindow
	}
	pipeline, err := nlp.NewPipeline(extractor, nc)
	if err != nil {
		return nil, fmt.Errorf("invalid skills config: %w", err)
	}
	return pipeline, nil
}

// newExtractor returns the configured phrase extractor. The llm extractor holds a
// Gemini client that the closer releases.
func newExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (nlp.PhraseExtractor, io.Closer, error) {
	switch cfg.Skills.Extractor {
	case "", "rule":
		return nlp.NewRuleExtractor(), closeFunc(func() {}), nil
	case "llm":
		client, err := llm.NewGeminiClient(ctx, geminiConfig(cfg.LLM), cfg.LLM.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client for skill extraction: %w", err)
		}
		extractor := llm.NewSkillExtractor(client, nlp.NewRuleExtractor(), llm.SkillExtractorOptions{
			Timeout:       cfg.Skills.ExtractorTimeout,
			MaxInputRunes: cfg.LLM.MaxInputRunes,
			Logger:        logger,
		})
		return extractor, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown skills extractor %q", cfg.Skills.Extractor)
	}
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, error) {
	switch cfg.Backend {
	case "", "local":
		return storage.NewLocalStore(cfg.LocalDir), nil
	case "s3":
		return storage.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newDispatcher returns the in-process worker pool or an AMQP publisher.
func newDispatcher(cfg config.QueueConfig, handler queue.Handler, logger *slog.Logger) (queue.Dispatcher, error) {
	switch cfg.Backend {
	case "", "local":
		return queue.NewLocalDispatcher(handler, cfg.Workers, cfg.Buffer, logger), nil
	case "amqp":
		return queue.NewAMQPPublisher(cfg.AMQPURL, cfg.QueueName)
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}
}

func newScoreCache(cfg config.CacheConfig, store cache.EntryStore) cache.ScoreCache {
	if cfg.Backend == "db" {
		return cache.NewDBCache(store, cfg.TTL)
	}
	return cache.NewMemoryCache(cfg.TTL)
}

// newSender mails through Resend when an API key is set and logs codes otherwise.
func newSender(cfg *config.Config, logger *slog.Logger) email.Sender {
	if cfg.Email.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not set, OTP codes will be logged instead of emailed")
		return email.NewLogSender(logger)
	}
	return email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.OTP.TTL, cfg.Email.Timeout)
}

// newAnalyzer creates the Gemini backed ATS analyzer. The closer releases the
// client and the debug log.
func newAnalyzer(ctx context.Context, cfg config.LLMConfig) (*llm.Analyzer, io.Closer, error) {
	client, err := llm.NewGeminiClient(ctx, geminiConfig(cfg), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	debug, debugCloser := logging.NewDebugLogger(cfg.DebugLog)
	opts := []llm.AnalyzerOption{llm.WithDebugLogger(debug)}
	if cfg.MaxInputRunes > 0 {
		opts = append(opts, llm.WithMaxInputRunes(cfg.MaxInputRunes))
	}
	if cfg.Attempts > 0 {
		opts = append(opts, llm.WithRetryPolicy(llm.RetryPolicy{Attempts: cfg.Attempts, Backoff: cfg.Backoff}))
	}
	return llm.NewAnalyzer(client, opts...), closers{debugCloser, client}, nil
}

// geminiConfig applies the configured model and temperature to the defaults.
func geminiConfig(cfg config.LLMConfig) *llm.Config {
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
	}
	if cfg.Temperature > 0 {
		llmConfig.Temperature = cfg.Temperature
	}
	return llmConfig
}

// userLookup is the part of the database that knows about users.
type userLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
}

// userExists rejects tokens of users deleted after the token was issued.
func userExists(users userLookup) middleware.UserChecker {
	return func(ctx context.Context, id uuid.UUID) (bool, error) {
		user, err := users.GetUser(ctx, id)
		if err != nil {
			return false, err
		}
		return user != nil, nil
	}
}
