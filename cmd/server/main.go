package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"passvault/internal/app/server"
	"passvault/internal/app/server/config"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/utils/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "passvault-server",
		Short:         "Passvault - сервер хранения учетных данных",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		Long: `Загружает конфигурацию из окружения (и .env), применяет миграции
и обслуживает API до получения SIGINT или SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			log := logger.New(cfg.Env)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error("close app", "error", err)
				}
			}()

			return app.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой базы данных",
	}

	run := func(down bool) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			log := logger.New(cfg.Env)
			mg := migration.NewMigration(cfg, migration.DefaultEngine, log)
			if down {
				return mg.Down()
			}
			return mg.Up()
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Применить все миграции", RunE: run(false)},
		&cobra.Command{Use: "down", Short: "Откатить все миграции", RunE: run(true)},
	)
	return cmd
}
