package engine

import "proforma-engine/domain"

// Depreciation is straight-line with no half-year or mid-month convention.
// Only whole years within the recovery period are depreciated: with 27.5
// years, year 28 gets nothing and the unclaimed half year stays in the basis.
func Depreciation(basis, recoveryYears float64, year int) float64 {
	if basis <= 0 || recoveryYears <= 0 || year < 1 {
		return 0
	}
	if float64(year) > recoveryYears {
		return 0
	}
	return basis / recoveryYears
}

// RecoveryPeriod returns the explicit depreciation period, or the statutory
// one for the property type.
func RecoveryPeriod(a domain.Assumptions) float64 {
	if a.DepreciationYears > 0 {
		return a.DepreciationYears
	}
	if a.PropertyType == domain.PropertyResidential {
		return ResidentialRecoveryYears
	}
	return CommercialRecoveryYears
}

func DepreciableBasis(a domain.Assumptions) float64 {
	return a.PurchasePrice * a.ImprovementsPercent / 100
}
