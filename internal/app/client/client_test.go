package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"passvault/internal/app/client/config"
)

const testToken = "token-123"

type fakeServer struct {
	loggedOut  bool
	lastUpdate CredentialFields
	lastPath   string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /user/register", func(w http.ResponseWriter, r *http.Request) {
		var body credentialsBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username == "taken" {
			writeProblem(w, http.StatusConflict, "username already exists")
			return
		}
		writeJSON(w, http.StatusCreated, RegisterResult{AccountID: 7, Username: body.Username})
	})
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		var body credentialsBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			writeProblem(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, Session{Token: testToken, ExpiresAt: time.Now().Add(time.Hour).UTC()})
	})
	mux.HandleFunc("POST /user/logout", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		f.loggedOut = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/credentials", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		creds := []Credential{{ID: 1, CredentialFields: CredentialFields{SiteName: "bank", SiteURL: "https://bank.example", SiteSecret: "s3"}}}
		writeJSON(w, http.StatusOK, map[string]any{"credentials": creds, "total": len(creds)})
	})
	mux.HandleFunc("POST /api/credentials", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		var body CredentialFields
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.SiteName == "" {
			writeProblem(w, http.StatusUnprocessableEntity, "site name is required")
			return
		}
		writeJSON(w, http.StatusCreated, Credential{ID: 2, CredentialFields: body})
	})
	mux.HandleFunc("PUT /api/credentials/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.lastUpdate)
		f.lastPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"id": 2, "status": "updated"})
	})

	return mux
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "detail": detail})
}

func newTestApp(t *testing.T) (*App, *fakeServer, *config.Config) {
	t.Helper()

	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		ServerAddress: strings.TrimPrefix(srv.URL, "http://"),
		ConfigDir:     dir,
		TokenPath:     filepath.Join(dir, "nested", "token"),
		Timeout:       5 * time.Second,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, log), fake, cfg
}

func TestApp_CheckConnection(t *testing.T) {
	app, _, _ := newTestApp(t)
	assert.NoError(t, app.CheckConnection(context.Background()))
}

func TestApp_Register(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	res, err := app.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.AccountID)
	assert.Equal(t, "alice", res.Username)

	_, err = app.Register(ctx, "taken", "secret")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "username already exists", apiErr.Detail)
}

func TestApp_LoginStoresToken(t *testing.T) {
	app, _, cfg := newTestApp(t)
	ctx := context.Background()

	assert.False(t, app.IsAuthenticated())

	sess, err := app.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, testToken, sess.Token)
	assert.True(t, app.IsAuthenticated())

	info, err := os.Stat(cfg.TokenPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := app.GetToken()
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestApp_LoginInvalidCredentials(t *testing.T) {
	app, _, cfg := newTestApp(t)

	_, err := app.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, statErr := os.Stat(cfg.TokenPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_CredentialsRequireLogin(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	_, err := app.Credentials(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = app.AddCredential(ctx, CredentialFields{SiteName: "bank"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	err = app.UpdateCredential(ctx, 1, CredentialFields{SiteName: "bank"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	assert.ErrorIs(t, app.Logout(ctx), ErrNotLoggedIn)
}

func TestApp_CredentialLifecycle(t *testing.T) {
	app, fake, _ := newTestApp(t)
	ctx := context.Background()

	_, err := app.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	creds, err := app.Credentials(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "bank", creds[0].SiteName)
	assert.Equal(t, "s3", creds[0].SiteSecret)

	created, err := app.AddCredential(ctx, CredentialFields{SiteName: "mail", SiteURL: "https://mail.example", SiteSecret: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, "mail", created.SiteName)

	_, err = app.AddCredential(ctx, CredentialFields{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)

	fields := CredentialFields{SiteName: "mail", SiteURL: "https://mail.example", SiteSecret: "new"}
	require.NoError(t, app.UpdateCredential(ctx, 2, fields))
	assert.Equal(t, "/api/credentials/2", fake.lastPath)
	assert.Equal(t, fields, fake.lastUpdate)
}

func TestApp_Logout(t *testing.T) {
	app, fake, cfg := newTestApp(t)
	ctx := context.Background()

	_, err := app.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, app.Logout(ctx))
	assert.True(t, fake.loggedOut)
	assert.False(t, app.IsAuthenticated())

	_, statErr := os.Stat(cfg.TokenPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_LogoutWithStaleToken(t *testing.T) {
	app, fake, cfg := newTestApp(t)

	require.NoError(t, app.SaveToken("stale"))

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, fake.loggedOut)

	_, statErr := os.Stat(cfg.TokenPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_TokenLoadedOnStart(t *testing.T) {
	_, _, cfg := newTestApp(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.TokenPath), 0700))
	require.NoError(t, os.WriteFile(cfg.TokenPath, []byte(testToken+"\n"), 0600))

	app := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := app.Credentials(context.Background())
	assert.NoError(t, err)
}

func TestApp_ServerUnavailable(t *testing.T) {
	cfg := &config.Config{
		ServerAddress: "127.0.0.1:1",
		TokenPath:     filepath.Join(t.TempDir(), "token"),
		Timeout:       time.Second,
	}
	app := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, app.CheckConnection(context.Background()))
}
