package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"passvault/internal/app/client"
	"passvault/internal/app/server/api"
	"passvault/internal/app/server/config"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/infrastructure/storage/memory"
	"passvault/internal/infrastructure/storage/sqlstore"
)

func startServer(t *testing.T) string {
	t.Helper()
	log := slog.Default()

	cfg := &config.Config{
		Env: config.EnvDev,
		DB: config.DB{
			DatabaseURI: "sqlite3://" + filepath.Join(t.TempDir(), "vault.db"),
		},
		Session: config.Session{
			Secret: "test-secret-0123456789",
			TTL:    time.Hour,
			Store:  config.SessionStoreMemory,
		},
		Vault: config.Vault{Key: strings.Repeat("ab", 32)},
		Hash: config.Hash{
			Algorithm:        config.HashBcrypt,
			BcryptCost:       4,
			PBKDF2Iterations: 1000,
		},
	}

	require.NoError(t, migration.NewMigration(cfg, migration.DefaultEngine, log).Up())

	storage, err := sqlstore.New(context.Background(), cfg.DB, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	mux, err := api.New(cfg, storage, memory.NewSessionStore(log), log)
	require.NoError(t, err)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return strings.TrimPrefix(srv.URL, "http://")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func listCredentials(t *testing.T) []client.Credential {
	t.Helper()

	out, err := run(t, "", "credential", "list", "--format", "json", "--reveal")
	require.NoError(t, err)

	var creds []client.Credential
	require.NoError(t, json.Unmarshal([]byte(out), &creds))
	return creds
}

func TestCLI_FullFlow(t *testing.T) {
	color.NoColor = true

	configDir := t.TempDir()
	t.Setenv("SERVER_ADDRESS", startServer(t))
	t.Setenv("CONFIG_DIR", configDir)
	t.Setenv("TOKEN_PATH", "")

	out, err := run(t, "pw-123456\npw-123456\n", "auth", "register", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Пользователь alice зарегистрирован")

	_, err = run(t, "pw-123456\npw-123456\n", "auth", "register", "-u", "alice")
	assert.ErrorContains(t, err, "409")

	_, err = run(t, "wrong\n", "auth", "login", "-u", "alice")
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	out, err = run(t, "pw-123456\n", "auth", "login", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Вход выполнен")

	info, err := os.Stat(filepath.Join(configDir, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err = run(t, "", "credential", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Записи не найдены")

	out, err = run(t, "s3cret\n", "credential", "add", "--name", "bank", "--url", "https://bank.example")
	require.NoError(t, err)
	assert.Contains(t, out, "сохранена")

	creds := listCredentials(t)
	require.Len(t, creds, 1)
	assert.Equal(t, "bank", creds[0].SiteName)
	assert.Equal(t, "https://bank.example", creds[0].SiteURL)
	assert.Equal(t, "s3cret", creds[0].SiteSecret)

	out, err = run(t, "", "credential", "list")
	require.NoError(t, err)
	assert.Contains(t, out, secretMaskForTest)
	assert.NotContains(t, out, "s3cret")

	id := creds[0].ID
	_, err = run(t, "\n", "credential", "update", idArg(id), "--name", "bank2")
	require.NoError(t, err)

	creds = listCredentials(t)
	require.Len(t, creds, 1)
	assert.Equal(t, "bank2", creds[0].SiteName)
	assert.Equal(t, "https://bank.example", creds[0].SiteURL)
	assert.Equal(t, "s3cret", creds[0].SiteSecret)

	_, err = run(t, "rotated\n", "credential", "update", idArg(id))
	require.NoError(t, err)
	assert.Equal(t, "rotated", listCredentials(t)[0].SiteSecret)

	_, err = run(t, "x\n", "credential", "update", "999")
	assert.ErrorContains(t, err, "не найдена")

	_, err = run(t, "", "credential", "update", "abc")
	assert.ErrorContains(t, err, "некорректный id")

	out, err = run(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Выход выполнен")

	_, err = run(t, "", "credential", "list")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestCLI_CredentialsRequireLogin(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", startServer(t))
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("TOKEN_PATH", "")

	_, err := run(t, "s\n", "credential", "add", "--name", "bank", "--url", "u")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	_, err = run(t, "", "auth", "logout")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestCLI_Health(t *testing.T) {
	color.NoColor = true
	t.Setenv("SERVER_ADDRESS", startServer(t))
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("TOKEN_PATH", "")

	out, err := run(t, "", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Сервер доступен")

	_, err = run(t, "", "health", "--server", "127.0.0.1:1")
	assert.ErrorContains(t, err, "сервер недоступен")
}

const secretMaskForTest = "********"

func idArg(id int64) string {
	return strconv.FormatInt(id, 10)
}
