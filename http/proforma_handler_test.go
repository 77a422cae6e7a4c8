package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/repository"
	"proforma-engine/service"
)

func flat(v float64, years int) []float64 {
	out := make([]float64, years)
	for i := range out {
		out[i] = v
	}
	return out
}

func sampleAssumptions() domain.Assumptions {
	return domain.Assumptions{
		PurchasePrice:             1_000_000,
		AcquisitionCost:           2,
		AcquisitionCostType:       domain.CostPercentage,
		RentalIncome:              flat(120_000, 12),
		VacancyRate:               flat(0.05, 12),
		OperatingExpenses:         flat(35, 12),
		ExpenseType:               domain.ExpensePercentage,
		FinancingType:             domain.FinancingLTV,
		LoanAmount:                700_000,
		InterestRate:              0.065,
		LoanTermYears:             10,
		AmortizationYears:         30,
		PaymentsPerYear:           12,
		LoanCostType:              domain.CostPercentage,
		LoanCost:                  1,
		PropertyType:              domain.PropertyResidential,
		LandPercent:               20,
		ImprovementsPercent:       80,
		OrdinaryIncomeTaxRate:     0.37,
		CapitalGainsTaxRate:       0.20,
		DepreciationRecaptureRate: 0.25,
		HoldPeriodYears:           10,
		DispositionType:           domain.DispositionCapRate,
		DispositionValue:          0.065,
		CostOfSaleType:            domain.CostPercentage,
		CostOfSale:                5,
		DiscountRate:              0.08,
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func newTestHandler(t *testing.T, strict bool) *ProFormaHandler {
	log := logger.NewTestLogger(t)
	opts := service.DefaultOptions()
	opts.StrictValidation = strict
	proforma := service.NewProFormaService(repository.NewMockCache(), log, opts)
	return NewProFormaHandler(proforma, service.NewHoldPeriodService(proforma, log), log)
}

func postJSON(path string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCalculateHandler_OK(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.Calculate(w, postJSON("/proforma/calculate", mustJSON(t, sampleAssumptions())))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	out := decode[domain.Outcome](t, w)
	assert.Equal(t, domain.OutcomeComputed, out.Status)
	assert.Len(t, out.Results.AnnualCashflows, 10)
	assert.NotNil(t, out.Results.IRR)
}

func TestCalculateHandler_DegenerateIsOK(t *testing.T) {
	handler := newTestHandler(t, false)
	a := sampleAssumptions()
	a.PurchasePrice = 0
	w := httptest.NewRecorder()

	handler.Calculate(w, postJSON("/proforma/calculate", mustJSON(t, a)))

	require.Equal(t, http.StatusOK, w.Code)
	out := decode[domain.Outcome](t, w)
	assert.Equal(t, domain.OutcomeDegenerate, out.Status)
	assert.Nil(t, out.Results.IRR)
}

func TestCalculateHandler_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"method not allowed", http.MethodGet, "application/json", "", http.StatusMethodNotAllowed},
		{"wrong content type", http.MethodPost, "text/plain", "{}", http.StatusUnsupportedMediaType},
		{"invalid json", http.MethodPost, "application/json", "{invalid-json}", http.StatusBadRequest},
		{"not an object", http.MethodPost, "application/json", "[1, 2]", http.StatusBadRequest},
		{"wrong field type", http.MethodPost, "application/json", `{"purchase_price": "a lot"}`, http.StatusBadRequest},
		{"unknown enum", http.MethodPost, "application/json", `{"financing_type": "seller"}`, http.StatusBadRequest},
		{"fractional years", http.MethodPost, "application/json", `{"hold_period_years": 7.5}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, false)
			req := httptest.NewRequest(tt.method, "/proforma/calculate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			handler.Calculate(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, decode[errorResponse](t, w).Error)
		})
	}
}

func TestCalculateHandler_SchemaViolationsListed(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.Calculate(w, postJSON("/proforma/calculate", []byte(`{"purchase_price": "a lot", "rental_income": ["x"]}`)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorResponse](t, w)
	assert.GreaterOrEqual(t, len(resp.Violations), 2)
}

func TestCalculateHandler_StrictRejects(t *testing.T) {
	handler := newTestHandler(t, true)
	a := sampleAssumptions()
	a.LandPercent = 50
	w := httptest.NewRecorder()

	handler.Calculate(w, postJSON("/proforma/calculate", mustJSON(t, a)))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Equal(t, service.ErrInvalidAssumptions.Error(), resp.Error)
	require.NotEmpty(t, resp.Violations)
	assert.Contains(t, resp.Violations[0], "sum to 100")
}

func TestValidateHandler(t *testing.T) {
	handler := newTestHandler(t, false)

	w := httptest.NewRecorder()
	handler.Validate(w, postJSON("/proforma/validate", mustJSON(t, sampleAssumptions())))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[validateResponse](t, w)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)

	a := sampleAssumptions()
	a.InterestRate = 6.5
	w = httptest.NewRecorder()
	handler.Validate(w, postJSON("/proforma/validate", mustJSON(t, a)))
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[validateResponse](t, w)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Violations, "interest rate must be between 0 and 1")
}

func TestReadinessHandler(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.Readiness(w, postJSON("/proforma/readiness", []byte(`{"purchase_price": 500000}`)))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.Readiness](t, w)
	assert.False(t, resp.Ready)
	assert.NotContains(t, resp.Missing, "purchase_price")
	assert.Contains(t, resp.Missing, "hold_period_years")
}

func TestSensitivityHandler(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.Sensitivity(w, postJSON("/proforma/sensitivity", mustJSON(t, sampleAssumptions())))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.SensitivityAnalysis](t, w)
	assert.Equal(t, domain.OutcomeComputed, resp.Base.Status)
	assert.Len(t, resp.Tables, 3)
}

func TestUnleveredIRRHandler(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.UnleveredIRR(w, postJSON("/proforma/unlevered-irr", mustJSON(t, sampleAssumptions())))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[unleveredIRRResponse](t, w)
	require.NotNil(t, resp.UnleveredIRR)
	assert.Greater(t, *resp.UnleveredIRR, 0.0)
}

func TestAmortizationHandler(t *testing.T) {
	handler := newTestHandler(t, false)
	w := httptest.NewRecorder()

	handler.Amortization(w, postJSON("/proforma/amortization", mustJSON(t, sampleAssumptions())))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.AmortizationSchedule](t, w)
	assert.Len(t, resp.Periods, 360)
	assert.InDelta(t, 700_000, resp.Loan.Amount, 1e-9)
}

func TestHoldPeriodHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       func(t *testing.T) []byte
		wantStatus int
	}{
		{
			name: "recommends",
			body: func(t *testing.T) []byte {
				return mustJSON(t, map[string]interface{}{
					"assumptions": sampleAssumptions(),
					"min_years":   3,
					"max_years":   10,
					"preference":  "maximize_irr",
				})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "inverted range",
			body: func(t *testing.T) []byte {
				return mustJSON(t, map[string]interface{}{
					"assumptions": sampleAssumptions(),
					"min_years":   8,
					"max_years":   3,
				})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing assumptions",
			body: func(t *testing.T) []byte {
				return []byte(`{"min_years": 3, "max_years": 5}`)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "no viable period",
			body: func(t *testing.T) []byte {
				a := sampleAssumptions()
				a.PurchasePrice = 0
				return mustJSON(t, map[string]interface{}{"assumptions": a, "min_years": 3, "max_years": 5})
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, false)
			w := httptest.NewRecorder()

			handler.RecommendHoldPeriod(w, postJSON("/proforma/hold-period", tt.body(t)))

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				rec := decode[domain.HoldPeriodRecommendation](t, w)
				assert.Len(t, rec.Options, 8)
				assert.GreaterOrEqual(t, rec.RecommendedYears, 3)
				assert.LessOrEqual(t, rec.RecommendedYears, 10)
			}
		})
	}
}
