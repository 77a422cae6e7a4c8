package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/service"
)

type ProFormaHandler struct {
	service    *service.ProFormaService
	holdPeriod *service.HoldPeriodService
	log        logger.Logger
}

func NewProFormaHandler(
	proforma *service.ProFormaService,
	holdPeriod *service.HoldPeriodService,
	log logger.Logger,
) *ProFormaHandler {
	return &ProFormaHandler{service: proforma, holdPeriod: holdPeriod, log: log}
}

// readJSONBody checks method and content type and returns the raw body.
// It writes the error response itself and returns ok=false on failure.
func readJSONBody(w http.ResponseWriter, r *http.Request, method string) ([]byte, bool) {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return nil, false
	}

	// Validar Content-Type
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return nil, false
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return nil, false
	}
	return raw, true
}

// decodeAssumptions checks raw against the assumptions schema and decodes it.
func decodeAssumptions(w http.ResponseWriter, raw []byte, log logger.Logger) (domain.Assumptions, bool) {
	var a domain.Assumptions
	if err := checkAssumptionsSchema(raw); err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) {
			writeError(w, http.StatusBadRequest, "invalid assumptions", serr.Details)
			return a, false
		}
		log.Debug("invalid request body", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return a, false
	}

	if err := json.Unmarshal(raw, &a); err != nil {
		log.Debug("invalid request body", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return a, false
	}
	return a, true
}

func (h *ProFormaHandler) readAssumptions(w http.ResponseWriter, r *http.Request) (domain.Assumptions, bool) {
	raw, ok := readJSONBody(w, r, http.MethodPost)
	if !ok {
		return domain.Assumptions{}, false
	}
	return decodeAssumptions(w, raw, h.log)
}

// Calculate handles POST /proforma/calculate.
func (h *ProFormaHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}

	out, err := h.service.Calculate(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProFormaHandler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}

	analysis, err := h.service.Sensitivity(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type unleveredIRRResponse struct {
	UnleveredIRR *float64 `json:"unlevered_irr"`
}

func (h *ProFormaHandler) UnleveredIRR(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}

	irr, err := h.service.UnleveredIRR(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unleveredIRRResponse{UnleveredIRR: irr})
}

func (h *ProFormaHandler) Amortization(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.Amortization(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type validateResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// Validate always answers 200; the violations are the payload.
func (h *ProFormaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}

	violations := h.service.Validate(a)
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(violations) == 0, Violations: violations})
}

func (h *ProFormaHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	a, ok := h.readAssumptions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Readiness(a))
}

type holdPeriodRequest struct {
	Assumptions json.RawMessage             `json:"assumptions"`
	MinYears    int                         `json:"min_years"`
	MaxYears    int                         `json:"max_years"`
	Preference  domain.HoldPeriodPreference `json:"preference"`
}

// RecommendHoldPeriod handles POST /proforma/hold-period.
func (h *ProFormaHandler) RecommendHoldPeriod(w http.ResponseWriter, r *http.Request) {
	raw, ok := readJSONBody(w, r, http.MethodPost)
	if !ok {
		return
	}

	var req holdPeriodRequest
	if err := json.Unmarshal(raw, &req); err != nil || len(req.Assumptions) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	a, ok := decodeAssumptions(w, req.Assumptions, h.log)
	if !ok {
		return
	}

	rec, err := h.holdPeriod.Recommend(r.Context(), domain.HoldPeriodInput{
		Assumptions: a,
		MinYears:    req.MinYears,
		MaxYears:    req.MaxYears,
		Preference:  req.Preference,
	})
	if err != nil {
		h.log.Debug("hold period recommendation failed", map[string]interface{}{"error": err.Error()})
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
