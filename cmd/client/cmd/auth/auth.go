package auth

import (
	"github.com/spf13/cobra"
)

// NewCmd - родительская команда для всех операций с учетной записью пользователя
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Управление пользователем",
		Long:  `Регистрация, вход и выход из системы.`,
	}
	cmd.AddCommand(newRegisterCmd(), newLoginCmd(), newLogoutCmd())
	return cmd
}
