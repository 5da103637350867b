package credential

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"passvault/internal/app/server/api/http/httperr"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/metrics"
	"passvault/internal/domain/credential"
)

type Handler struct {
	service    credential.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service credential.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.service.List(ctx, userID)
	metrics.CredentialOperationsTotal.WithLabelValues("list", httperr.Result(err)).Inc()
	if err != nil {
		return nil, httperr.From(err)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}

	return &listOutput{
		Body: ListResponse{Credentials: out, Total: len(out)},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.Add(ctx, userID, input.Body.toFields())
	metrics.CredentialOperationsTotal.WithLabelValues("add", httperr.Result(err)).Inc()
	if err != nil {
		return nil, httperr.From(err)
	}

	return &createOutput{Body: fromRecord(rec)}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*updateOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.Update(ctx, userID, input.ID, input.Body.toFields())
	metrics.CredentialOperationsTotal.WithLabelValues("update", httperr.Result(err)).Inc()
	if err != nil {
		return nil, httperr.From(err)
	}

	return &updateOutput{
		Body: UpdateResponse{
			ID:     input.ID,
			Status: "Ok",
		},
	}, nil
}
