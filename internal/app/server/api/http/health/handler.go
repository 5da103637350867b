package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"passvault/internal/domain/errs"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
	Dialect() string
}

type Handler struct {
	db         Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(db Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		db:         db,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("health check: storage ping failed", "dialect", h.db.Dialect(), "error", err)
		return nil, huma.Error503ServiceUnavailable(errs.ErrStoreUnavailable.Error())
	}

	return &Output{
		Body: Response{
			Status:    "OK",
			Storage:   h.db.Dialect(),
			LatencyMS: time.Since(start).Milliseconds(),
		},
	}, nil
}
