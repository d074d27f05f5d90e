package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume resume parse jobs from RabbitMQ",
	Long:  "Consume parse jobs published by the API server when queue.backend is amqp.",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, logger, logCloser, err := loadConfig()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if cfg.Queue.Backend != "amqp" || cfg.Queue.AMQPURL == "" {
		return errors.New("worker requires queue.backend=amqp and an AMQP URL (RABBITMQ_URL)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	objects, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	extractor, extractorCloser, err := newExtractor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer extractorCloser.Close()
	pipeline, err := newPipeline(cfg.Skills, extractor)
	if err != nil {
		return err
	}

	parser := resumes.NewParser(database, objects, pipeline, logger)
	consumer := queue.NewAMQPConsumer(cfg.Queue.AMQPURL, cfg.Queue.QueueName, cfg.Queue.Workers, logger)
	logger.Info("worker started", "queue", cfg.Queue.QueueName, "workers", cfg.Queue.Workers)
	return consumer.Run(ctx, parser.Handle)
}
