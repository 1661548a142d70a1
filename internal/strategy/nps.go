package strategy

import (
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/tax"
	"github.com/shopspring/decimal"
)

// NPSStrategy: National Pension Scheme.
// Deduction = min(principal, income-percent limit of income, max deduction);
// benefit = tax(income) - tax(income - deduction).
type NPSStrategy struct {
	rate             decimal.Decimal
	maxDeduction     decimal.Decimal
	incomePercentCap decimal.Decimal
	taxCalc          *tax.ProgressiveTaxCalculator
}

// NewNPSStrategy creates the NPS strategy from the rate, deduction caps and tax slabs in rules
func NewNPSStrategy(rules domain.Rules) *NPSStrategy {
	return &NPSStrategy{
		rate:             rules.NPSRate,
		maxDeduction:     rules.NPSMaxDeduction,
		incomePercentCap: rules.NPSIncomePercentLimit,
		taxCalc:          tax.NewProgressiveTaxCalculator(rules.TaxSlabs),
	}
}

// ID returns "nps"
func (s *NPSStrategy) ID() string { return IDNPS }

// Name returns the display name
func (s *NPSStrategy) Name() string { return "NPS" }

// AnnualRate returns the configured NPS growth rate
func (s *NPSStrategy) AnnualRate() decimal.Decimal { return s.rate }

// Deduction returns the amount of principal eligible for deduction
func (s *NPSStrategy) Deduction(annualIncome, principal decimal.Decimal) decimal.Decimal {
	return decimal.Min(principal, s.incomePercentCap.Mul(annualIncome), s.maxDeduction)
}

// TaxBenefit returns the tax saved by deducting the eligible part of principal
func (s *NPSStrategy) TaxBenefit(annualIncome, principal decimal.Decimal) decimal.Decimal {
	return s.taxCalc.DeductionBenefit(annualIncome, s.Deduction(annualIncome, principal))
}

// MarginalRate returns the slab rate annualIncome is taxed at
func (s *NPSStrategy) MarginalRate(annualIncome decimal.Decimal) decimal.Decimal {
	return s.taxCalc.MarginalRate(annualIncome)
}
