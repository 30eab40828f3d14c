package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vizboard/internal"
	apperrors "vizboard/internal/errors"
)

// maxBodyBytes caps JSON request bodies; dataset payloads go through the
// upload and fetch paths, which carry their own limit
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		internal.DefaultLogger.Error("[UI] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	respondJSON(w, statusForCode(code), map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidationError, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeLoadError, apperrors.CodeRenderError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}
