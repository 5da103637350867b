package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"

	"passvault/internal/app/client/config"
)

// ErrNotLoggedIn возвращается, если локально нет сохраненного токена
var ErrNotLoggedIn = errors.New("токен не найден. Выполните вход: passvault auth login")

type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
}

func New(cfg *config.Config, log *slog.Logger) *App {
	app := &App{
		config:     cfg,
		log:        log,
		httpClient: newHTTPClient(cfg, log),
	}

	// Загружаем токен если он есть
	if token, err := app.GetToken(); err == nil {
		app.httpClient.SetToken(token)
		log.Debug("Токен загружен из файла")
	}

	return app
}

// CheckConnection проверяет доступность сервера
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

// IsAuthenticated проверяет, есть ли сохраненный токен
func (a *App) IsAuthenticated() bool {
	_, err := a.GetToken()
	return err == nil
}

// GetToken возвращает сохраненный токен
func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// SaveToken сохраняет токен аутентификации, файл доступен только владельцу
func (a *App) SaveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.config.TokenPath), 0700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	// WriteFile не меняет права у существующего файла
	if err := os.Chmod(a.config.TokenPath, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.httpClient.SetToken(token)
	return nil
}

// ClearToken удаляет токен
func (a *App) ClearToken() error {
	a.httpClient.SetToken("")
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

// Register регистрирует нового пользователя
func (a *App) Register(ctx context.Context, username, password string) (*RegisterResult, error) {
	res, err := a.httpClient.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}

	a.log.Info("Пользователь успешно зарегистрирован", "username", res.Username)
	return res, nil
}

// Login выполняет вход пользователя и сохраняет токен
func (a *App) Login(ctx context.Context, username, password string) (*Session, error) {
	sess, err := a.httpClient.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err = a.SaveToken(sess.Token); err != nil {
		return nil, err
	}

	a.log.Info("Вход выполнен успешно", "username", username)
	return sess, nil
}

// Logout завершает сессию на сервере и удаляет локальный токен.
// Токен удаляется и тогда, когда сервер уже не считает его действительным.
func (a *App) Logout(ctx context.Context) error {
	if _, err := a.GetToken(); err != nil {
		return err
	}

	err := a.httpClient.Logout(ctx)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}

	return a.ClearToken()
}

func (a *App) Credentials(ctx context.Context) ([]Credential, error) {
	if !a.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	return a.httpClient.ListCredentials(ctx)
}

func (a *App) AddCredential(ctx context.Context, fields CredentialFields) (*Credential, error) {
	if !a.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	return a.httpClient.CreateCredential(ctx, fields)
}

func (a *App) UpdateCredential(ctx context.Context, id int64, fields CredentialFields) error {
	if !a.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return a.httpClient.UpdateCredential(ctx, id, fields)
}
