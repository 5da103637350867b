package auth

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выйти из системы",
		Long:  `Завершает сессию на сервере и удаляет сохраненный токен.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("ошибка выхода: %w", err)
			}

			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Выход выполнен")
			return nil
		},
	}
}
