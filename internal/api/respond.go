package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  errors.ErrorCode `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}

// statusOf maps error codes to HTTP status codes.
func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidRequest,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeInvalidThreshold,
		errors.ErrCodeInvalidMetricsWindow,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeUnknownScenario,
		errors.ErrCodeUnsupportedStrategy,
		errors.ErrCodeCodegenUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNoDataFound,
		errors.ErrCodeDataNotFound,
		errors.ErrCodeMalformedBarSeries,
		errors.ErrCodePresetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMarketDataFetchFailed,
		errors.ErrCodeDataSourceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid JSON body", err)
	}

	if err := s.validate.Struct(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request", err)
	}

	return nil
}
