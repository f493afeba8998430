package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/crashlog/internal/apierror"
	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/service"
)

const maxBodySize = 8 << 20

type Handler struct {
	reporter service.Reporter
	logger   zerolog.Logger
}

func NewHandler(reporter service.Reporter, logger zerolog.Logger) *Handler {
	return &Handler{
		reporter: reporter,
		logger:   logger,
	}
}

func (h *Handler) error(err error, w http.ResponseWriter) {
	var (
		apiErr apierror.Error
		maxErr *http.MaxBytesError
	)
	if !errors.As(err, &apiErr) {
		switch {
		case errors.As(err, &maxErr):
			apiErr = apierror.NewAPIError("request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, domain.ErrMissingField),
			errors.Is(err, domain.ErrUnknownKind),
			errors.Is(err, service.ErrInvalidMessage):
			apiErr = apierror.NewAPIError(err.Error(), http.StatusBadRequest)
		default:
			apiErr = apierror.NewAPIError(err.Error(), http.StatusInternalServerError)
		}
	}

	if err = encodeJSONResponse(w, apiErr.StatusCode(), apiErr); err != nil {
		h.logger.Error().Err(err).Msg("failed to write error response")
	}
}

func (h *Handler) ok(w http.ResponseWriter, data any) {
	if err := encodeJSONResponse(w, http.StatusOK, data); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (h *Handler) text(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(s)); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return apierror.NewAPIError("invalid json body", http.StatusBadRequest).
			WithDetail("reason", err.Error())
	}
	return nil
}
