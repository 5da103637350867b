package credential

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-list",
		Method:      http.MethodGet,
		Path:        "/api/credentials",
		Summary:     "Список учетных данных пользователя",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Errors:      []int{http.StatusUnauthorized, http.StatusServiceUnavailable},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "credentials-create",
		Method:        http.MethodPost,
		Path:          "/api/credentials",
		Summary:       "Сохранить учетные данные сайта",
		Tags:          []string{"credentials"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
		Errors:        []int{http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusServiceUnavailable},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-update",
		Method:      http.MethodPut,
		Path:        "/api/credentials/{id}",
		Summary:     "Обновить учетные данные сайта",
		Description: "Запись, не принадлежащая пользователю или отсутствующая, не изменяется; ответ при этом успешный.",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Errors:      []int{http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusServiceUnavailable},
		Middlewares: h.middleware,
	}
}
