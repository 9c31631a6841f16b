package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-graph/internal/locales"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (api *AdminAPI) writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.Error("graph.admin.request_failed", "status", status, "error", err)
	}
	writeJSON(w, status, payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func writeUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fieldErr := range fieldErrs {
			if fieldErr != nil {
				fields[name] = fieldErr.Error()
			}
		}
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Fields:  fields,
		}
	}

	var notFound *locales.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: notFound.Error()}
	}

	if errors.Is(err, locales.ErrLocaleRequired) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "internal server error",
	}
}

// upstreamError maps a failed gateway call. Gateway 404 and 400 pass through;
// anything else, including a gateway 401, is a server side failure.
func upstreamError(status int, message string) (int, errorResponse) {
	switch status {
	case http.StatusNotFound:
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "upstream_error", Message: message}
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}
