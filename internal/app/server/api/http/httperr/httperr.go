// Package httperr turns domain error kinds into HTTP errors. Only messages
// that are safe to show ever reach the client.
package httperr

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"passvault/internal/app/server/metrics"
	"passvault/internal/domain/errs"
	"passvault/internal/domain/session"
)

const internalMessage = "internal server error"

func From(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, errs.ErrDuplicateUsername):
		return huma.Error409Conflict(errs.ErrDuplicateUsername.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return huma.Error401Unauthorized(errs.ErrInvalidCredentials.Error())
	case errors.Is(err, session.ErrNotFound):
		return huma.Error401Unauthorized("Unauthorized")
	case errors.Is(err, errs.ErrInvalidInput):
		msg := errs.ErrInvalidInput.Error()
		var de *errs.DomainError
		if errors.As(err, &de) {
			msg = de.Error()
		}
		return huma.Error422UnprocessableEntity(msg)
	case errors.Is(err, errs.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable(errs.ErrStoreUnavailable.Error())
	default:
		return huma.Error500InternalServerError(internalMessage)
	}
}

// Result is the metrics label for an operation outcome.
func Result(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	if code := errs.Code(err); code != "" {
		return code
	}
	return "internal"
}
