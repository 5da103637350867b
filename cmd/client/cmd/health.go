package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Проверить доступность сервера",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.CheckConnection(cmd.Context()); err != nil {
				return fmt.Errorf("сервер недоступен: %w", err)
			}

			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Сервер доступен")
			return nil
		},
	}
}
