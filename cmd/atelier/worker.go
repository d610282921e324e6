package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"atelier/internal/app"
	"atelier/internal/queue/rabbitmq"
	"atelier/internal/services/cleanup"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Повторно удалять файлы, которые не удалось удалить при записи",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.RabbitMQ.URL == "" {
				return fmt.Errorf("worker needs rabbitmq.url")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			blobs, err := app.NewBlobStore(ctx, log, cfg)
			if err != nil {
				return err
			}

			client, err := rabbitmq.NewClient(cfg.RabbitMQ, log)
			if err != nil {
				return err
			}
			defer client.Close()

			worker := cleanup.NewWorker(log, blobs, cfg.RabbitMQ.MaxAttempts)

			log.Info("cleanup worker started", slog.Int("max_attempts", cfg.RabbitMQ.MaxAttempts))

			return client.Consume(ctx, worker.Handle)
		},
	}
}
