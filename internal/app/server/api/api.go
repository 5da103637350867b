// POST /user/register          # Регистрация (публичный)
// POST /user/login             # Логин (публичный)
// POST /user/logout            # Выход (auth)
// GET  /api/credentials        # Список учетных данных (auth)
// POST /api/credentials        # Сохранить учетные данные (auth)
// PUT  /api/credentials/{id}   # Обновить учетные данные (auth)
// GET  /api/v1/health          # Проверка хранилища
// GET  /metrics                # Prometheus

package api

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	credentialAPI "passvault/internal/app/server/api/http/credential"
	healthAPI "passvault/internal/app/server/api/http/health"
	"passvault/internal/app/server/api/http/middleware"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/api/http/middleware/logger"
	"passvault/internal/app/server/api/http/middleware/metrics"
	userAPI "passvault/internal/app/server/api/http/user"
	"passvault/internal/app/server/config"
	"passvault/internal/app/server/crypto"
	"passvault/internal/domain/account"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/session"
	"passvault/internal/infrastructure/storage/sqlstore"
)

type Handlers struct {
	Health     *healthAPI.Handler
	User       *userAPI.Handler
	Credential *credentialAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(cfg *config.Config, storage *sqlstore.Storage, sessions session.Store, log *slog.Logger) (*chi.Mux, error) {
	mux := chi.NewMux()
	mux.Use(chimw.Recoverer)
	mux.Handle("/metrics", promhttp.Handler())

	humaConfig := huma.DefaultConfig("Passvault API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h, err := handlers(API, cfg, storage, sessions, log)
	if err != nil {
		return nil, err
	}
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Credential.SetupRoutes(API)

	return mux, nil
}

func handlers(API huma.API, cfg *config.Config, storage *sqlstore.Storage, sessions session.Store, log *slog.Logger) (*Handlers, error) {
	key, err := crypto.ParseKey(cfg.Vault.Key)
	if err != nil {
		return nil, fmt.Errorf("vault key: %w", err)
	}
	sealer, err := crypto.NewSealer(key, log)
	if err != nil {
		return nil, err
	}

	hasher, err := account.NewHasher(cfg.Hash.Algorithm, cfg.Hash.BcryptCost, cfg.Hash.PBKDF2Iterations)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	sessionService := session.NewService(sessions, []byte(cfg.Session.Secret), cfg.Session.TTL, log)
	authMW := auth.New(API, sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metrics.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	accountRepo := sqlstore.NewAccountRepository(storage, log)
	accountService := account.NewService(accountRepo, hasher, account.NewInputValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metrics.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metrics.Middleware())
	middlewares.Add(authMW.Middleware())
	userHandler := userAPI.NewHandler(accountService, sessionService, log, public, middlewares.GetAllAndClear())

	credentialRepo := sqlstore.NewCredentialRepository(storage, log)
	credentialService := credential.NewService(credentialRepo, sealer, log)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metrics.Middleware())
	middlewares.Add(authMW.Middleware())
	credentialHandler := credentialAPI.NewHandler(credentialService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		User:       userHandler,
		Credential: credentialHandler,
	}, nil
}
