package http

import (
	"net/http"

	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/service"
)

type SnapshotHandler struct {
	service *service.SnapshotService
	log     logger.Logger
}

func NewSnapshotHandler(service *service.SnapshotService, log logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{service: service, log: log}
}

type snapshotCalculation struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Outcome  domain.Outcome  `json:"outcome"`
}

// Save handles PUT /properties/{id}/snapshots.
func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	raw, ok := readJSONBody(w, r, http.MethodPut)
	if !ok {
		return
	}
	a, ok := decodeAssumptions(w, raw, h.log)
	if !ok {
		return
	}

	snapshot, err := h.service.Save(r.Context(), r.PathValue("id"), a)
	if err != nil {
		h.logFailure("save snapshot", r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// List handles GET /properties/{id}/snapshots, newest first.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.service.List(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logFailure("list snapshots", r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (h *SnapshotHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Latest(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logFailure("latest snapshot", r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Calculate handles POST /properties/{id}/calculate on the latest snapshot.
func (h *SnapshotHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	snapshot, out, err := h.service.CalculateLatest(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logFailure("calculate snapshot", r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotCalculation{Snapshot: snapshot, Outcome: out})
}

func (h *SnapshotHandler) logFailure(op string, r *http.Request, err error) {
	if statusFor(err) != http.StatusInternalServerError {
		return
	}
	h.log.WithError(err).Error(op+" failed", map[string]interface{}{"property_id": r.PathValue("id")})
}
