package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kartik4138/Resume-enhancer/internal/ats"
	"github.com/Kartik4138/Resume-enhancer/internal/auth"
	"github.com/Kartik4138/Resume-enhancer/internal/jobs"
	"github.com/Kartik4138/Resume-enhancer/internal/maintenance"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
	"github.com/Kartik4138/Resume-enhancer/internal/server"
	"github.com/Kartik4138/Resume-enhancer/internal/server/ratelimit"
)

var (
	serveAddr      string
	serveMigrate   bool
	serveNoCleanup bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP API. With the local queue backend resumes are parsed
in-process; with amqp, run the worker command alongside.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply database migrations on startup")
	serveCmd.Flags().BoolVar(&serveNoCleanup, "no-cleanup", false, "Do not run the retention cleanup loop")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, logCloser, err := loadConfig()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	var res closers
	defer func() { _ = res.Close() }()

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	res.add(closeFunc(database.Close))

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	objects, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	extractor, extractorCloser, err := newExtractor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	res.add(extractorCloser)
	pipeline, err := newPipeline(cfg.Skills, extractor)
	if err != nil {
		return err
	}

	parser := resumes.NewParser(database, objects, pipeline, logger)
	dispatcher, err := newDispatcher(cfg.Queue, parser.Handle, logger)
	if err != nil {
		return err
	}
	res.add(dispatcher)

	analyzer, analyzerCloser, err := newAnalyzer(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	res.add(analyzerCloser)

	tokens := auth.NewTokenService(&cfg.JWT)
	deps := server.Deps{
		Auth:   auth.NewService(database, tokens, &cfg.OTP, newSender(cfg, logger), logger),
		Tokens: tokens.AsTokenValidator(),
		Users:  userExists(database),
		Resumes: resumes.NewService(database, objects, dispatcher, resumes.Options{
			KeepHistory: cfg.Resume.KeepHistory,
			FileTTL:     cfg.Resume.FileTTL,
		}, logger),
		Jobs:   jobs.NewService(database, pipeline, logger),
		Scores: ats.NewService(database, analyzer, newScoreCache(cfg.Cache, database), logger),
		DB:     database,
	}

	if !serveNoCleanup {
		cleanupCtx, stopCleanup := context.WithCancel(ctx)
		defer stopCleanup()
		cleaner := maintenance.NewCleaner(database, objects, cfg.Cleanup.Retention, logger)
		go cleaner.Run(cleanupCtx, cfg.Cleanup.Interval)
	}

	srv := server.New(deps, server.Options{
		Server:         cfg.Server,
		MaxUploadBytes: cfg.Resume.MaxUploadBytes,
		RateLimit:      ratelimit.FromSettings(cfg.RateLimit),
		Logger:         logger,
	})
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
