package engine

const (
	MinHoldPeriodYears = 1
	MaxHoldPeriodYears = 50
	MaxPaymentsPerYear = 365
	MaxLoanYears       = 50

	// Schedules longer than this are truncated (50 years of daily payments).
	MaxSchedulePeriods = MaxLoanYears * MaxPaymentsPerYear

	ResidentialRecoveryYears = 27.5
	CommercialRecoveryYears  = 39.0

	IRRInitialGuess  = 0.10
	IRRMaxIterations = 1000
	IRRTolerance     = 1e-6

	derivativeTolerance = 1e-10
	stepTolerance       = 1e-12
	bisectionLow        = -0.99
	bisectionHigh       = 10.0
	bisectionScanStep   = 0.05
	bisectionMaxIter    = 200

	// land% + improvements% may be off 100 by this much
	allocationTolerance = 0.01
)
