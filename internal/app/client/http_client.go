package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"passvault/internal/app/client/config"
)

// ErrUnauthorized возвращается, когда сервер отклонил токен или учетные данные
var ErrUnauthorized = errors.New("unauthorized")

// APIError описывает ответ сервера с кодом ошибки
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ошибка сервера (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("ошибка сервера: статус %d", e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func newHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
		log:       log,
		baseURL:   cfg.BaseURL(),
		userAgent: "Passvault-Client/1.0",
	}
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

func (h *httpClient) Register(ctx context.Context, username, password string) (*RegisterResult, error) {
	var out RegisterResult
	if err := h.do(ctx, http.MethodPost, "/user/register", credentialsBody{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) Login(ctx context.Context, username, password string) (*Session, error) {
	var out Session
	if err := h.do(ctx, http.MethodPost, "/user/login", credentialsBody{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	return h.do(ctx, http.MethodPost, "/user/logout", nil, nil)
}

func (h *httpClient) ListCredentials(ctx context.Context) ([]Credential, error) {
	var out struct {
		Credentials []Credential `json:"credentials"`
		Total       int          `json:"total"`
	}
	if err := h.do(ctx, http.MethodGet, "/api/credentials", nil, &out); err != nil {
		return nil, err
	}
	return out.Credentials, nil
}

func (h *httpClient) CreateCredential(ctx context.Context, fields CredentialFields) (*Credential, error) {
	var out Credential
	if err := h.do(ctx, http.MethodPost, "/api/credentials", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) UpdateCredential(ctx context.Context, id int64, fields CredentialFields) error {
	return h.do(ctx, http.MethodPut, "/api/credentials/"+strconv.FormatInt(id, 10), fields, nil)
}

func (h *httpClient) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса", "method", method, "path", path)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	return h.parseResponse(resp, result)
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ", "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		// тело ошибки в формате application/problem+json
		var problem struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &problem)
		return &APIError{Status: resp.StatusCode, Detail: problem.Detail}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
