package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proforma-engine/config"
	"proforma-engine/domain"
	"proforma-engine/engine"
	"proforma-engine/logger"
	"proforma-engine/repository"
)

func series(first, growth float64, years int) []float64 {
	out := make([]float64, years)
	for i := range out {
		out[i] = first * math.Pow(1+growth, float64(i))
	}
	return out
}

func testAssumptions() domain.Assumptions {
	return domain.Assumptions{
		PurchasePrice:             2_000_000,
		AcquisitionCost:           2,
		AcquisitionCostType:       domain.CostPercentage,
		RentalIncome:              series(240_000, 0.03, 15),
		VacancyRate:               series(0.05, 0, 15),
		OperatingExpenses:         series(35, 0, 15),
		ExpenseType:               domain.ExpensePercentage,
		FinancingType:             domain.FinancingLTV,
		LoanAmount:                1_400_000,
		InterestRate:              0.065,
		LoanTermYears:             10,
		AmortizationYears:         30,
		PaymentsPerYear:           12,
		LoanCost:                  1,
		LoanCostType:              domain.CostPercentage,
		PropertyType:              domain.PropertyResidential,
		LandPercent:               20,
		ImprovementsPercent:       80,
		OrdinaryIncomeTaxRate:     0.37,
		CapitalGainsTaxRate:       0.20,
		DepreciationRecaptureRate: 0.25,
		HoldPeriodYears:           10,
		DispositionType:           domain.DispositionCapRate,
		DispositionValue:          0.06,
		CostOfSaleType:            domain.CostPercentage,
		CostOfSale:                5,
		DiscountRate:              0.08,
	}
}

func newTestService(t *testing.T, cache repository.CacheRepository, strict bool) *ProFormaService {
	opts := DefaultOptions()
	opts.StrictValidation = strict
	return NewProFormaService(cache, logger.NewTestLogger(t), opts)
}

func TestCalculate_MatchesEngine(t *testing.T) {
	svc := newTestService(t, nil, false)
	a := testAssumptions()

	out, err := svc.Calculate(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, engine.Calculate(a), out)
	assert.True(t, out.OK())
}

func TestCalculate_UsesCache(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestService(t, cache, false)
	ctx := context.Background()
	a := testAssumptions()

	first, err := svc.Calculate(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Sets)

	second, err := svc.Calculate(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Sets, "second call must be served from cache")

	a.DispositionValue = 0.065
	_, err = svc.Calculate(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestCalculate_CacheFailureIsNotFatal(t *testing.T) {
	cache := repository.NewMockCache()
	cache.ForceError = true
	svc := newTestService(t, cache, false)

	out, err := svc.Calculate(context.Background(), testAssumptions())
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Equal(t, 1, cache.Gets)
	assert.Equal(t, 1, cache.Sets)
}

func TestCalculate_CorruptCacheEntryIsRecomputed(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestService(t, cache, false)
	ctx := context.Background()
	a := testAssumptions()

	key, err := cacheKey(cacheKeyCalculate, a, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, key, "{not json", time.Minute))

	out, err := svc.Calculate(ctx, a)
	require.NoError(t, err)
	assert.True(t, out.OK())
}

func TestCalculate_NonFiniteInputBypassesCache(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestService(t, cache, false)
	a := testAssumptions()
	a.VacancyRate[0] = math.NaN()

	out, err := svc.Calculate(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Zero(t, cache.Len())
}

func TestCalculate_DegenerateIsNotAnError(t *testing.T) {
	svc := newTestService(t, nil, false)
	a := testAssumptions()
	a.PurchasePrice = 0

	out, err := svc.Calculate(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegenerate, out.Status)
}

func TestStrictValidation(t *testing.T) {
	svc := newTestService(t, nil, true)
	ctx := context.Background()
	a := testAssumptions()
	a.InterestRate = 6.5

	_, err := svc.Calculate(ctx, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAssumptions))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Violations, "interest rate must be between 0 and 1")

	_, err = svc.Sensitivity(ctx, a)
	assert.ErrorIs(t, err, ErrInvalidAssumptions)
	_, err = svc.UnleveredIRR(ctx, a)
	assert.ErrorIs(t, err, ErrInvalidAssumptions)
	_, err = svc.Amortization(ctx, a)
	assert.ErrorIs(t, err, ErrInvalidAssumptions)

	_, err = svc.Calculate(ctx, testAssumptions())
	assert.NoError(t, err)
}

func TestSensitivity_Cached(t *testing.T) {
	cache := repository.NewMockCache()
	svc := newTestService(t, cache, false)
	ctx := context.Background()

	first, err := svc.Sensitivity(ctx, testAssumptions())
	require.NoError(t, err)
	require.Len(t, first.Tables, 3)

	second, err := svc.Sensitivity(ctx, testAssumptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Sets)
}

func TestUnleveredIRR(t *testing.T) {
	svc := newTestService(t, nil, false)
	a := testAssumptions()

	irr, err := svc.UnleveredIRR(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, irr)

	direct := engine.Calculate(a.WithoutFinancing()).Results.IRR
	require.NotNil(t, direct)
	assert.Equal(t, *direct, *irr)
}

func TestAmortization(t *testing.T) {
	svc := newTestService(t, nil, false)

	schedule, err := svc.Amortization(context.Background(), testAssumptions())
	require.NoError(t, err)
	assert.Len(t, schedule.Periods, 360)
	assert.InDelta(t, 8848.95, schedule.PeriodicPayment, 0.01)
	assert.InDelta(t, 14_000, schedule.Loan.TotalLoanCosts, 1e-9)

	cash := testAssumptions()
	cash.FinancingType = domain.FinancingCash
	schedule, err = svc.Amortization(context.Background(), cash)
	require.NoError(t, err)
	assert.Empty(t, schedule.Periods)
}

func TestValidateAndReadiness(t *testing.T) {
	svc := newTestService(t, nil, false)

	assert.Empty(t, svc.Validate(testAssumptions()))
	assert.True(t, svc.Readiness(testAssumptions()).Ready)

	readiness := svc.Readiness(domain.Assumptions{})
	assert.False(t, readiness.Ready)
	assert.Contains(t, readiness.Missing, "purchase_price")
}

func TestCacheKey(t *testing.T) {
	a := testAssumptions()
	k1, err := cacheKey(cacheKeyCalculate, a, nil)
	require.NoError(t, err)
	k2, err := cacheKey(cacheKeyCalculate, a.Clone(), nil)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Regexp(t, `^calc:[0-9a-f]{16}$`, k1)

	k3, err := cacheKey(cacheKeySensitivity, a, engine.DefaultSensitivityOptions())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	a.PurchasePrice = math.Inf(1)
	_, err = cacheKey(cacheKeyCalculate, a, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.EngineConfig{
		StrictValidation: true,
		CapRateStep:      0.0025,
		CacheTTL:         30000,
	})

	assert.True(t, opts.StrictValidation)
	assert.Equal(t, 30*time.Second, opts.CacheTTL)
	assert.Equal(t, 0.0025, opts.Sensitivity.CapRateStep)
	assert.Equal(t, engine.DefaultSensitivityOptions().RentGrowthStep, opts.Sensitivity.RentGrowthStep)
	assert.Equal(t, engine.DefaultSensitivityOptions().InterestRateStep, opts.Sensitivity.InterestRateStep)
}
