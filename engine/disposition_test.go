package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proforma-engine/domain"
)

func TestSalePrice(t *testing.T) {
	tests := []struct {
		name     string
		mode     domain.DispositionType
		value    float64
		finalNOI float64
		want     float64
	}{
		{"cap rate", domain.DispositionCapRate, 0.08, 200_000, 2_500_000},
		{"zero cap rate", domain.DispositionCapRate, 0, 200_000, 0},
		{"fixed", domain.DispositionFixed, 3_100_000, 200_000, 3_100_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Assumptions{DispositionType: tt.mode, DispositionValue: tt.value}
			assert.Equal(t, tt.want, SalePrice(a, tt.finalNOI))
		})
	}
}

func TestDispose_GainSplit(t *testing.T) {
	tests := []struct {
		name                   string
		salePrice              float64
		cumulativeDepreciation float64
		wantRecapture          float64
		wantCapitalGains       float64
	}{
		{"gain above depreciation", 2_500_000, 300_000, 300_000, 500_000},
		{"gain below depreciation", 1_800_000, 300_000, 100_000, 0},
		{"loss", 1_500_000, 300_000, 0, 0},
		{"no depreciation", 2_100_000, 0, 0, 100_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Assumptions{
				PurchasePrice:             2_000_000,
				DispositionType:           domain.DispositionFixed,
				DispositionValue:          tt.salePrice,
				CostOfSaleType:            domain.CostDollar,
				CapitalGainsTaxRate:       0.2,
				DepreciationRecaptureRate: 0.25,
			}

			sale := Dispose(a, 0, 1_000_000, tt.cumulativeDepreciation)

			assert.InDelta(t, tt.wantRecapture, sale.DepreciationRecapture, 1e-6)
			assert.InDelta(t, tt.wantCapitalGains, sale.CapitalGains, 1e-6)
			assert.LessOrEqual(t, sale.DepreciationRecapture, tt.cumulativeDepreciation)
			assert.LessOrEqual(t, sale.DepreciationRecapture, sale.TotalGain)
			assert.GreaterOrEqual(t, sale.CapitalGains, 0.0)
			assert.InDelta(t, sale.TotalGain-sale.DepreciationRecapture, sale.CapitalGains, 1e-9)
		})
	}
}

func TestDispose_Proceeds(t *testing.T) {
	a := domain.Assumptions{
		PurchasePrice:             2_000_000,
		AcquisitionCost:           2,
		AcquisitionCostType:       domain.CostPercentage,
		DispositionType:           domain.DispositionCapRate,
		DispositionValue:          0.08,
		CostOfSaleType:            domain.CostPercentage,
		CostOfSale:                5,
		CapitalGainsTaxRate:       0.2,
		DepreciationRecaptureRate: 0.25,
	}

	sale := Dispose(a, 200_000, 1_200_000, 400_000)

	assert.Equal(t, 2_500_000.0, sale.SalePrice)
	assert.InDelta(t, 125_000, sale.SellingCosts, 1e-9)
	assert.InDelta(t, 2_375_000, sale.NetProceeds, 1e-9)
	assert.InDelta(t, 1_175_000, sale.BeforeTaxProceeds, 1e-9)
	assert.InDelta(t, 1_640_000, sale.AdjustedBasis, 1e-9)
	assert.InDelta(t, 735_000, sale.TotalGain, 1e-9)
	assert.InDelta(t, 400_000, sale.DepreciationRecapture, 1e-9)
	assert.InDelta(t, 335_000, sale.CapitalGains, 1e-9)
	assert.InDelta(t, 1_175_000-67_000-100_000, sale.AfterTaxProceeds, 1e-9)
}
