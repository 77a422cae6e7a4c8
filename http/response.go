package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"proforma-engine/repository"
	"proforma-engine/service"
)

// maxBodyBytes bounds request bodies; a 50 year hold with every series
// filled in is well under this.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, status int, msg string, violations []string) {
	writeJSON(w, status, errorResponse{Error: msg, Violations: violations})
}

// statusFor maps service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAssumptions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidPropertyID):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrSnapshotExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidHoldPeriodInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoViableHoldPeriod):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeError(w, status, service.ErrInvalidAssumptions.Error(), verr.Violations)
		return
	}
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal server error", nil)
		return
	}
	writeError(w, status, err.Error(), nil)
}
