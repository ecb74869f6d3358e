package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

var errBadRequest = errors.New("bad request")

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

func classify(err error) (int, ErrorResponse) {
	var (
		schemaErr *loader.SchemaError
		fieldErrs validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fieldErrs):
		fields := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			fields[i] = fe.Field()
		}
		return http.StatusBadRequest, ErrorResponse{Code: "INVALID_PARAMS", Message: err.Error(), Fields: fields}
	case errors.Is(err, errBadRequest), errors.Is(err, dashboard.ErrInvalidParams):
		return http.StatusBadRequest, ErrorResponse{Code: "INVALID_PARAMS", Message: err.Error()}
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: "SCHEMA_ERROR", Message: schemaErr.Error()}
	case errors.Is(err, loader.ErrNoSource):
		return http.StatusNotFound, ErrorResponse{Code: "NO_SOURCE", Message: loader.ErrNoSource.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "internal error"}
	}
}
