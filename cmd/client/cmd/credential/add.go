package credential

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
	"passvault/internal/app/client"
)

func newAddCmd() *cobra.Command {
	var fields client.CredentialFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить учетные данные сайта",
		Long: `Сохраняет учетные данные сайта. Секрет запрашивается без эха
и хранится на сервере в зашифрованном виде.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, p, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			if fields.SiteName == "" {
				if fields.SiteName, err = p.Line("Название сайта: "); err != nil {
					return err
				}
			}
			if fields.SiteURL == "" {
				if fields.SiteURL, err = p.Line("Адрес сайта: "); err != nil {
					return err
				}
			}
			if fields.SiteSecret, err = p.Secret("Секрет: "); err != nil {
				return err
			}

			created, err := app.AddCredential(cmd.Context(), fields)
			if err != nil {
				return fmt.Errorf("ошибка сохранения: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Запись %d сохранена\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fields.SiteName, "name", "n", "", "название сайта")
	cmd.Flags().StringVar(&fields.SiteURL, "url", "", "адрес сайта")
	return cmd
}
