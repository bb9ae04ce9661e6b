package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/warden/pkg/logging"
)

var (
	// ErrInternalServer is returned to the client when a handler fails unexpectedly.
	ErrInternalServer = errors.New("internal server error")

	// ErrBadRequest is returned to the client when the request is invalid.
	ErrBadRequest = errors.New("bad request")
)

// Encode writes v as JSON with the given status code.
func Encode(l *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}
