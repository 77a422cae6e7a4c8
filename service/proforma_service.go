package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"proforma-engine/config"
	"proforma-engine/domain"
	"proforma-engine/engine"
	"proforma-engine/logger"
	"proforma-engine/metrics"
	"proforma-engine/repository"
)

var ErrInvalidAssumptions = errors.New("invalid assumptions")

// ValidationError carries the violations that made strict mode reject a set
// of assumptions. It matches ErrInvalidAssumptions with errors.Is.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidAssumptions, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidAssumptions }

type Options struct {
	// StrictValidation rejects assumptions with violations instead of
	// calculating on their sanitized values.
	StrictValidation bool
	Sensitivity      engine.SensitivityOptions
	CacheTTL         time.Duration // 0 disables the result cache
}

func DefaultOptions() Options {
	return Options{
		Sensitivity: engine.DefaultSensitivityOptions(),
		CacheTTL:    10 * time.Minute,
	}
}

// OptionsFromConfig maps the engine section of the configuration. Zero steps
// fall back to the defaults.
func OptionsFromConfig(c config.EngineConfig) Options {
	opts := DefaultOptions()
	opts.StrictValidation = c.StrictValidation
	opts.CacheTTL = config.GetDuration(c.CacheTTL)
	if c.CapRateStep > 0 {
		opts.Sensitivity.CapRateStep = c.CapRateStep
	}
	if c.RentGrowthStep > 0 {
		opts.Sensitivity.RentGrowthStep = c.RentGrowthStep
	}
	if c.InterestRateStep > 0 {
		opts.Sensitivity.InterestRateStep = c.InterestRateStep
	}
	return opts
}

// ProFormaService drives the calculation engine for the HTTP and CLI layers.
// It adds strict validation, result caching, logging and metrics; the
// numbers themselves always come from the engine.
type ProFormaService struct {
	cache repository.CacheRepository
	log   logger.Logger
	opts  Options
}

// NewProFormaService creates a new ProFormaService. cache may be nil.
func NewProFormaService(
	cache repository.CacheRepository,
	log logger.Logger,
	opts Options,
) *ProFormaService {
	return &ProFormaService{cache: cache, log: log, opts: opts}
}

func (s *ProFormaService) Options() Options { return s.opts }

// Calculate runs the full pro forma. A degenerate or faulted outcome is not
// an error; only strict-mode rejections are.
func (s *ProFormaService) Calculate(ctx context.Context, a domain.Assumptions) (domain.Outcome, error) {
	if err := s.checkStrict(a); err != nil {
		return domain.Outcome{}, err
	}

	var out domain.Outcome
	key, keyErr := cacheKey(cacheKeyCalculate, a, nil)
	if keyErr == nil && s.readCache(ctx, key, &out) {
		return out, nil
	}

	start := time.Now()
	out = engine.Calculate(a)
	s.observe("calculate", out.Status, start)
	s.logOutcome("calculate", out)

	if keyErr == nil {
		s.writeCache(ctx, key, out)
	}
	return out, nil
}

// Sensitivity runs the base case and every applicable perturbation table.
func (s *ProFormaService) Sensitivity(ctx context.Context, a domain.Assumptions) (domain.SensitivityAnalysis, error) {
	if err := s.checkStrict(a); err != nil {
		return domain.SensitivityAnalysis{}, err
	}

	var analysis domain.SensitivityAnalysis
	key, keyErr := cacheKey(cacheKeySensitivity, a, s.opts.Sensitivity)
	if keyErr == nil && s.readCache(ctx, key, &analysis) {
		return analysis, nil
	}

	start := time.Now()
	analysis = engine.RunSensitivity(a, s.opts.Sensitivity)
	s.observe("sensitivity", analysis.Base.Status, start)
	s.logOutcome("sensitivity", analysis.Base)

	if keyErr == nil {
		s.writeCache(ctx, key, analysis)
	}
	return analysis, nil
}

// UnleveredIRR is the after-tax IRR of the deal bought all cash; nil when
// undetermined.
func (s *ProFormaService) UnleveredIRR(_ context.Context, a domain.Assumptions) (*float64, error) {
	if err := s.checkStrict(a); err != nil {
		return nil, err
	}

	start := time.Now()
	out := engine.Calculate(a.WithoutFinancing())
	s.observe("unlevered_irr", out.Status, start)
	return out.Results.IRR, nil
}

// Amortization returns the payment schedule of the loan the assumptions
// resolve to.
func (s *ProFormaService) Amortization(_ context.Context, a domain.Assumptions) (domain.AmortizationSchedule, error) {
	if err := s.checkStrict(a); err != nil {
		return domain.AmortizationSchedule{}, err
	}

	sanitized := engine.Sanitize(a)
	loan := engine.ResolveLoan(sanitized, engine.ResolveIncomeModel(sanitized))
	return engine.AmortizationSchedule(loan), nil
}

func (s *ProFormaService) Validate(a domain.Assumptions) []string {
	return engine.Validate(a)
}

func (s *ProFormaService) Readiness(a domain.Assumptions) domain.Readiness {
	return engine.CheckReadiness(a)
}

func (s *ProFormaService) checkStrict(a domain.Assumptions) error {
	if !s.opts.StrictValidation {
		return nil
	}
	violations := engine.Validate(a)
	if len(violations) == 0 {
		return nil
	}
	metrics.ValidationFailures.Inc()
	s.log.Info("assumptions rejected", map[string]interface{}{
		"violations": len(violations),
		"first":      violations[0],
	})
	return &ValidationError{Violations: violations}
}

func (s *ProFormaService) observe(operation string, status domain.OutcomeStatus, start time.Time) {
	metrics.CalculationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.CalculationsTotal.WithLabelValues(operation, string(status)).Inc()
}

func (s *ProFormaService) logOutcome(operation string, out domain.Outcome) {
	switch out.Status {
	case domain.OutcomeFault:
		s.log.Error("calculation fault", map[string]interface{}{"operation": operation, "reason": out.Reason})
	case domain.OutcomeDegenerate:
		s.log.Warn("degenerate assumptions", map[string]interface{}{"operation": operation, "reason": out.Reason})
	default:
		s.log.Debug("calculation complete", map[string]interface{}{"operation": operation})
	}
}

// readCache decodes a cached value into dst. Cache failures only cost a
// recalculation.
func (s *ProFormaService) readCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		s.log.WithError(err).Warn("cache read failed", map[string]interface{}{"key": key})
		return false
	}
	if !ok {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		s.log.WithError(err).Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		return false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (s *ProFormaService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).Warn("result not cacheable", map[string]interface{}{"key": key})
		return
	}
	// Guardar el resultado (no crítico si falla)
	if err := s.cache.Set(ctx, key, string(raw), s.opts.CacheTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed", map[string]interface{}{"key": key})
	}
}

// cacheKey hashes the canonical JSON of the assumptions together with any
// options that change the result. Assumptions holding NaN or infinities have
// no JSON form and are not cached.
func cacheKey(prefix string, a domain.Assumptions, opts interface{}) (string, error) {
	payload, err := json.Marshal(struct {
		Assumptions domain.Assumptions `json:"a"`
		Options     interface{}        `json:"o,omitempty"`
	}{a, opts})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(payload)), nil
}
