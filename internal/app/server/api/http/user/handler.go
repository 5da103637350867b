package user

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"passvault/internal/app/server/api/http/httperr"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/metrics"
	"passvault/internal/domain/account"
	"passvault/internal/domain/errs"
	"passvault/internal/domain/session"
)

type Handler struct {
	service        account.Servicer
	session        session.Servicer
	log            *slog.Logger
	middleware     huma.Middlewares
	authMiddleware huma.Middlewares
}

// NewHandler wires the account endpoints. authMws guard logout only.
func NewHandler(service account.Servicer, session session.Servicer, log *slog.Logger, middleware, authMws huma.Middlewares) *Handler {
	return &Handler{
		service:        service,
		session:        session,
		log:            log,
		middleware:     middleware,
		authMiddleware: authMws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	acc, err := h.service.Register(ctx, input.Body.Username, input.Body.Password)
	metrics.AccountOperationsTotal.WithLabelValues("register", httperr.Result(err)).Inc()
	if err != nil {
		return nil, httperr.From(err)
	}

	return &registerOutput{
		Body: RegisterResponse{AccountID: acc.ID, Username: acc.Username},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	acc, err := h.service.Authenticate(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		metrics.AccountOperationsTotal.WithLabelValues("login", httperr.Result(err)).Inc()
		return nil, httperr.From(err)
	}

	token, expiresAt, err := h.session.Create(ctx, acc.ID)
	if err != nil {
		h.log.Error("create session", "account_id", acc.ID, "error", err)
		metrics.AccountOperationsTotal.WithLabelValues("login", errs.CodeStoreUnavailable).Inc()
		return nil, httperr.From(errs.ErrStoreUnavailable)
	}

	metrics.AccountOperationsTotal.WithLabelValues("login", httperr.Result(nil)).Inc()
	return &loginOutput{
		Body: LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
		},
	}, nil
}

func (h *Handler) logout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	token, ok := auth.GetToken(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.session.Destroy(ctx, token); err != nil {
		h.log.Error("destroy session", "error", err)
		metrics.AccountOperationsTotal.WithLabelValues("logout", errs.CodeStoreUnavailable).Inc()
		return nil, httperr.From(errs.ErrStoreUnavailable)
	}

	metrics.AccountOperationsTotal.WithLabelValues("logout", httperr.Result(nil)).Inc()
	return nil, nil
}
