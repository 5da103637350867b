package credential

import (
	"github.com/spf13/cobra"
)

// NewCmd - родительская команда для работы с учетными данными сайтов
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credential",
		Aliases: []string{"cred"},
		Short:   "Учетные данные сайтов",
		Long:    `Просмотр, добавление и изменение сохраненных учетных данных. Требуется вход.`,
	}
	cmd.AddCommand(newListCmd(), newAddCmd(), newUpdateCmd())
	return cmd
}
