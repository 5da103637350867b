package types

import (
	"context"
	"fmt"

	"passvault/cmd/client/cmd/prompt"
	"passvault/internal/app/client"
)

type contextKey string

const (
	// ClientAppKey ключ контекста, под которым команды получают *client.App
	ClientAppKey contextKey = "client_app"
	PrompterKey  contextKey = "prompter"
)

// FromContext достает приложение и Prompter, положенные корневой командой
func FromContext(ctx context.Context) (*client.App, *prompt.Prompter, error) {
	app, ok := ctx.Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, nil, fmt.Errorf("приложение не инициализировано")
	}
	p, ok := ctx.Value(PrompterKey).(*prompt.Prompter)
	if !ok || p == nil {
		return nil, nil, fmt.Errorf("ввод не инициализирован")
	}
	return app, p, nil
}
