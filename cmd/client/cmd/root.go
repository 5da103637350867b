package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"passvault/cmd/client/cmd/auth"
	"passvault/cmd/client/cmd/credential"
	"passvault/cmd/client/cmd/prompt"
	"passvault/cmd/client/cmd/types"
	"passvault/internal/app/client"
	"passvault/internal/app/client/config"
	"passvault/internal/utils/logger"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var (
		debug     bool
		serverURL string
	)

	rootCmd := &cobra.Command{
		Use:   "passvault",
		Short: "Passvault - клиент хранилища учетных данных",
		Long: `Passvault хранит пароли и другие секреты для сайтов на сервере.
Секреты шифруются сервером и доступны только их владельцу.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
			}

			// Переопределяем настройки из флагов командной строки
			if serverURL != "" {
				cfg.ServerAddress = serverURL
			}

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			if debug {
				log = logger.New(cfg.Env)
			}

			ctx := context.WithValue(cmd.Context(), types.ClientAppKey, client.New(cfg, log))
			ctx = context.WithValue(ctx, types.PrompterKey, newPrompter(cmd))
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный журнал")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера Passvault (host:port)")

	rootCmd.AddCommand(auth.NewCmd(), credential.NewCmd(), newHealthCmd())
	return rootCmd
}

func newPrompter(cmd *cobra.Command) *prompt.Prompter {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return prompt.New(f, cmd.OutOrStdout())
	}
	return prompt.NewFromReader(cmd.InOrStdin(), cmd.OutOrStdout())
}
