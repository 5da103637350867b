package credential

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
)

func newUpdateCmd() *cobra.Command {
	var (
		siteName string
		siteURL  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить учетные данные сайта",
		Long: `Заменяет название, адрес и секрет записи.

Поля, не указанные флагами, сохраняют текущие значения.
Пустой ввод секрета оставляет прежний секрет.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("некорректный id записи %q", args[0])
			}

			app, p, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			creds, err := app.Credentials(cmd.Context())
			if err != nil {
				return fmt.Errorf("ошибка получения записи: %w", err)
			}

			idx := -1
			for i := range creds {
				if creds[i].ID == id {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("запись %d не найдена", id)
			}

			fields := creds[idx].CredentialFields
			if cmd.Flags().Changed("name") {
				fields.SiteName = siteName
			}
			if cmd.Flags().Changed("url") {
				fields.SiteURL = siteURL
			}

			secret, err := p.Secret("Новый секрет (Enter - оставить прежний): ")
			if err != nil {
				return err
			}
			if secret != "" {
				fields.SiteSecret = secret
			}

			if err := app.UpdateCredential(cmd.Context(), id, fields); err != nil {
				return fmt.Errorf("ошибка обновления: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Запись %d обновлена\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&siteName, "name", "n", "", "новое название сайта")
	cmd.Flags().StringVar(&siteURL, "url", "", "новый адрес сайта")
	return cmd
}
