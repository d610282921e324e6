package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"atelier/internal/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			log.Info("starting atelier", slog.String("env", cfg.Env))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			application, err := app.New(ctx, log, cfg)
			if err != nil {
				return err
			}

			go func() {
				application.HTTPServer.BuildRouters()
				application.HTTPServer.MustRun()
			}()

			<-ctx.Done()

			application.Stop()
			log.Info("Gracefully stopped")

			return nil
		},
	}
}
