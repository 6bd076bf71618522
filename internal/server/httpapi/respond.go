package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/asmolyar/webpen/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "encoding response", "error", err.Error())
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Storage failures
// and anything unexpected are logged with detail and answered with a
// generic message.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {

	switch {
	case errors.Is(err, common.ErrValidation):
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		s.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, common.ErrUnauthenticated):
		s.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	case errors.Is(err, common.ErrNotFound):
		s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrAlreadyExists):
		s.writeJSON(ctx, w, http.StatusConflict, errorResponse{Error: "already exists"})
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON reads the request body into v; a malformed body is a
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", common.ErrValidation, err)
	}
	return nil
}
