package engine

import (
	"math"

	"proforma-engine/domain"
)

// SalePrice is either the fixed disposition price or the final-year NOI
// capitalized at the exit cap rate.
func SalePrice(a domain.Assumptions, finalNOI float64) float64 {
	if a.DispositionType != domain.DispositionCapRate {
		return a.DispositionValue
	}
	if a.DispositionValue <= 0 {
		return 0
	}
	return finalNOI / a.DispositionValue
}

func SellingCosts(a domain.Assumptions, salePrice float64) float64 {
	return costAmount(salePrice, a.CostOfSale, a.CostOfSaleType)
}

// Dispose computes the sale at the end of the hold period. The taxable gain
// is split so that recapture never exceeds the depreciation actually taken.
func Dispose(a domain.Assumptions, finalNOI, loanBalance, cumulativeDepreciation float64) domain.SaleProceeds {
	salePrice := SalePrice(a, finalNOI)
	sellingCosts := SellingCosts(a, salePrice)
	netProceeds := salePrice - sellingCosts
	beforeTax := netProceeds - loanBalance

	adjustedBasis := a.PurchasePrice + AcquisitionCosts(a) - cumulativeDepreciation
	totalGain := math.Max(0, salePrice-sellingCosts-adjustedBasis)

	recapture := math.Max(0, math.Min(cumulativeDepreciation, totalGain))
	capitalGains := totalGain - recapture

	capitalGainsTax := capitalGains * a.CapitalGainsTaxRate
	recaptureTax := recapture * a.DepreciationRecaptureRate

	return domain.SaleProceeds{
		SalePrice:             salePrice,
		SellingCosts:          sellingCosts,
		NetProceeds:           netProceeds,
		LoanBalance:           loanBalance,
		BeforeTaxProceeds:     beforeTax,
		AdjustedBasis:         adjustedBasis,
		TotalGain:             totalGain,
		CapitalGains:          capitalGains,
		DepreciationRecapture: recapture,
		CapitalGainsTax:       capitalGainsTax,
		RecaptureTax:          recaptureTax,
		AfterTaxProceeds:      beforeTax - capitalGainsTax - recaptureTax,
	}
}
