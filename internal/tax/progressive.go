package tax

import (
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Slabs are cumulative: every slab whose lower bound lies below the income
//    taxes the slice of income inside it at its own rate.
// 2. Upper bounds are exclusive for bracket purposes, but the tax function is
//    continuous across boundaries (no gaps, no double taxation).
// 3. No standard deduction, surcharge or cess is applied.

// ProgressiveTaxCalculator computes income tax from an ordered slab table
type ProgressiveTaxCalculator struct {
	Slabs []domain.TaxSlab
}

// NewProgressiveTaxCalculator creates a calculator from the configured slab table
func NewProgressiveTaxCalculator(slabs []domain.TaxSlab) *ProgressiveTaxCalculator {
	if len(slabs) == 0 {
		slabs = domain.DefaultTaxSlabs()
	}
	return &ProgressiveTaxCalculator{Slabs: slabs}
}

// CalculateTax returns the total tax owed on annualIncome
func (ptc *ProgressiveTaxCalculator) CalculateTax(annualIncome decimal.Decimal) decimal.Decimal {
	totalTax := decimal.Zero
	for _, slab := range ptc.Slabs {
		if annualIncome.LessThanOrEqual(slab.Lower) {
			break
		}
		top := annualIncome
		if slab.Upper != nil {
			top = decimal.Min(annualIncome, *slab.Upper)
		}
		totalTax = totalTax.Add(top.Sub(slab.Lower).Mul(slab.Rate))
	}
	return totalTax
}

// DeductionBenefit returns the tax saved by deducting deduction from annualIncome
func (ptc *ProgressiveTaxCalculator) DeductionBenefit(annualIncome, deduction decimal.Decimal) decimal.Decimal {
	return ptc.CalculateTax(annualIncome).Sub(ptc.CalculateTax(annualIncome.Sub(deduction)))
}

// MarginalRate returns the rate of the slab that annualIncome falls in
func (ptc *ProgressiveTaxCalculator) MarginalRate(annualIncome decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, slab := range ptc.Slabs {
		if annualIncome.LessThanOrEqual(slab.Lower) {
			break
		}
		rate = slab.Rate
	}
	return rate
}
