package auth

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
)

func newLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Войти в систему Passvault",
		Long: `Аутентификация на сервере Passvault.

После входа токен сохраняется локально (файл доступен только владельцу)
и используется последующими командами до выхода или истечения сессии.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, p, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			if username == "" {
				if username, err = p.Line("Имя пользователя: "); err != nil {
					return err
				}
			}

			password, err := p.Secret("Пароль: ")
			if err != nil {
				return err
			}

			sess, err := app.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("ошибка аутентификации: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Вход выполнен. Сессия действует до %s\n",
				sess.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "имя пользователя")
	return cmd
}
