package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"socialevents/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{"message": "writing response"}))
	}
}

// writeError answers domain validation errors with 400 and their localized
// message. Anything else is logged and reported as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidation(err) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: s.t(r, "errors."+domain.Code(err))})
		return
	}
	logError(r, err, "request failed")
	writeJSON(w, http.StatusInternalServerError, messageResponse{Message: s.t(r, "errors.server")})
}

func logError(r *http.Request, err error, msg string) {
	grip.Error(message.WrapError(err, message.Fields{
		"message": msg,
		"method":  r.Method,
		"path":    r.URL.Path,
		"request": getRequestID(r.Context()),
	}))
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched so
// that the use case reports the missing fields.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.ErrInvalidPayload
}
