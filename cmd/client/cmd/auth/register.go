package auth

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
)

func newRegisterCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Зарегистрировать нового пользователя",
		Long: `Регистрация нового пользователя на сервере Passvault.

Имя пользователя чувствительно к регистру, не длиннее 64 байт
и не содержит пробелов.`,
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

			password, err := p.NewSecret("Пароль: ", "Повторите пароль: ")
			if err != nil {
				return err
			}

			res, err := app.Register(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("ошибка регистрации: %w", err)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Пользователь %s зарегистрирован (id %d)\n", res.Username, res.AccountID)
			fmt.Fprintln(out, "Теперь вы можете войти в систему: passvault auth login")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "имя пользователя")
	return cmd
}
