package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"proforma-engine/domain"
	"proforma-engine/engine"
	"proforma-engine/logger"
)

var (
	ErrInvalidHoldPeriodInput = errors.New("invalid hold period input")
	ErrNoViableHoldPeriod     = errors.New("no hold period in the range produced a determinable IRR")
)

type HoldPeriodService struct {
	proforma *ProFormaService
	log      logger.Logger
}

func NewHoldPeriodService(proforma *ProFormaService, log logger.Logger) *HoldPeriodService {
	return &HoldPeriodService{proforma: proforma, log: log}
}

// Recommend analiza diferentes periodos de tenencia y recomienda el óptimo
func (s *HoldPeriodService) Recommend(
	ctx context.Context,
	input domain.HoldPeriodInput,
) (domain.HoldPeriodRecommendation, error) {

	// Validaciones
	if input.MinYears < engine.MinHoldPeriodYears || input.MaxYears > engine.MaxHoldPeriodYears {
		return domain.HoldPeriodRecommendation{}, fmt.Errorf("%w: range must lie within %d and %d years",
			ErrInvalidHoldPeriodInput, engine.MinHoldPeriodYears, engine.MaxHoldPeriodYears)
	}
	if input.MinYears > input.MaxYears {
		return domain.HoldPeriodRecommendation{}, fmt.Errorf("%w: min_years is greater than max_years", ErrInvalidHoldPeriodInput)
	}
	if input.MaxYears-input.MinYears > MaxHoldRangeYears {
		return domain.HoldPeriodRecommendation{}, fmt.Errorf("%w: range exceeds %d years", ErrInvalidHoldPeriodInput, MaxHoldRangeYears)
	}

	preferences := map[domain.HoldPeriodPreference]bool{
		domain.PreferMaximizeIRR:      true,
		domain.PreferMaximizeMultiple: true,
		domain.PreferBalanced:         true,
	}
	if input.Preference == "" {
		input.Preference = domain.PreferBalanced
	}
	if !preferences[input.Preference] {
		return domain.HoldPeriodRecommendation{}, fmt.Errorf("%w: unknown preference %q", ErrInvalidHoldPeriodInput, input.Preference)
	}

	options := []domain.HoldPeriodOption{}

	// Calcular escenarios para cada periodo
	for years := input.MinYears; years <= input.MaxYears; years++ {
		a := input.Assumptions.Clone()
		a.HoldPeriodYears = years

		out, err := s.proforma.Calculate(ctx, a)
		if err != nil {
			s.log.Debug("hold period skipped", map[string]interface{}{"hold_years": years, "error": err.Error()})
			continue
		}
		if !out.OK() || out.Results.IRR == nil {
			continue
		}

		options = append(options, domain.HoldPeriodOption{
			HoldYears:      years,
			IRR:            *out.Results.IRR,
			EquityMultiple: out.Results.EquityMultiple,
			NPV:            out.Results.NPV,
		})
	}

	if len(options) == 0 {
		return domain.HoldPeriodRecommendation{}, ErrNoViableHoldPeriod
	}

	scoreHoldPeriods(options, input.Preference)

	// Ordenar por score descendente, el periodo más corto gana en empate
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	options[0].Reason = recommendationReason(options, input.Preference)

	return domain.HoldPeriodRecommendation{
		RecommendedYears: options[0].HoldYears,
		Options:          options,
	}, nil
}

// scoreHoldPeriods normalizes IRR and equity multiple to 0-10 across the
// options and weights them by preference.
func scoreHoldPeriods(options []domain.HoldPeriodOption, preference domain.HoldPeriodPreference) {
	minIRR, maxIRR := options[0].IRR, options[0].IRR
	minEM, maxEM := options[0].EquityMultiple, options[0].EquityMultiple
	for _, o := range options[1:] {
		minIRR, maxIRR = min(minIRR, o.IRR), max(maxIRR, o.IRR)
		minEM, maxEM = min(minEM, o.EquityMultiple), max(maxEM, o.EquityMultiple)
	}

	irrWeight := 0.5
	switch preference {
	case domain.PreferMaximizeIRR:
		irrWeight = 0.7
	case domain.PreferMaximizeMultiple:
		irrWeight = 0.3
	}

	for i := range options {
		irrScore := normalize(options[i].IRR, minIRR, maxIRR)
		emScore := normalize(options[i].EquityMultiple, minEM, maxEM)
		options[i].Score = roundTo2Decimals(irrWeight*irrScore + (1-irrWeight)*emScore)
		options[i].Reason = preferenceReason(preference)
	}
}

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func normalize(v, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 10
	}
	return 10 * (v - lo) / (hi - lo)
}

func preferenceReason(preference domain.HoldPeriodPreference) string {
	switch preference {
	case domain.PreferMaximizeIRR:
		return "Hold period weighted toward the highest after-tax IRR"
	case domain.PreferMaximizeMultiple:
		return "Hold period weighted toward the highest equity multiple"
	}
	return "Balance between after-tax IRR and equity multiple"
}

func recommendationReason(options []domain.HoldPeriodOption, preference domain.HoldPeriodPreference) string {
	top := options[0]
	reason := fmt.Sprintf("%s: %d years returns %.2f%% IRR at a %.2fx equity multiple",
		preferenceReason(preference), top.HoldYears, top.IRR*100, top.EquityMultiple)

	// Agregar algunas alternativas para contexto
	for i := 1; i < len(options) && i <= MaxHoldAlternatives; i++ {
		alt := options[i]
		sep := "; alternatives: "
		if i > 1 {
			sep = ", "
		}
		reason += fmt.Sprintf("%s%d years (%.2f%%, %.2fx)", sep, alt.HoldYears, alt.IRR*100, alt.EquityMultiple)
	}
	return reason
}
