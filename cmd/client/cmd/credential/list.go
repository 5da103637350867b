package credential

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passvault/cmd/client/cmd/types"
	"passvault/internal/app/client"
)

const secretMask = "********"

func newListCmd() *cobra.Command {
	var (
		format string
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список учетных данных",
		Long: `Выводит все учетные данные текущего пользователя в порядке создания.

Секреты скрыты, пока не указан флаг --reveal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := types.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			creds, err := app.Credentials(cmd.Context())
			if err != nil {
				return fmt.Errorf("ошибка получения списка: %w", err)
			}

			if !reveal {
				for i := range creds {
					creds[i].SiteSecret = secretMask
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return printJSON(out, creds)
			case "table":
				return printTable(out, creds)
			default:
				return fmt.Errorf("неизвестный формат вывода %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "формат вывода (table, json)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "показать секреты")
	return cmd
}

func printTable(out io.Writer, creds []client.Credential) error {
	if len(creds) == 0 {
		color.New(color.FgYellow).Fprintln(out, "Записи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tСайт\tАдрес\tСекрет\tОбновлено\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t\n")
	for _, c := range creds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			c.ID,
			truncate(c.SiteName, 30),
			truncate(c.SiteURL, 40),
			c.SiteSecret,
			c.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nВсего записей: %d\n", len(creds))
	return nil
}

func printJSON(out io.Writer, creds []client.Credential) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(creds)
}

func truncate(s string, length int) string {
	s = strings.ReplaceAll(s, "\t", " ")
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
