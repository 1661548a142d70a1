package calculation

import (
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/strategy"
	"github.com/shopspring/decimal"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// ReturnsProjector turns K period sums into inflation-adjusted profit figures
type ReturnsProjector struct {
	RetirementAge      int
	MinInvestmentYears int
}

// NewReturnsProjector creates a projector from the configured rules
func NewReturnsProjector(rules domain.Rules) *ReturnsProjector {
	return &ReturnsProjector{
		RetirementAge:      rules.RetirementAge,
		MinInvestmentYears: rules.MinInvestmentYears,
	}
}

// InvestmentYears returns the horizon for an investor of the given age.
// Investors at or past retirement age still get the minimum horizon.
func (rp *ReturnsProjector) InvestmentYears(age int) int {
	years := rp.RetirementAge - age
	if years < rp.MinInvestmentYears {
		return rp.MinInvestmentYears
	}
	return years
}

// CompoundInterest grows principal at rate, compounded once per year
func CompoundInterest(principal, rate decimal.Decimal, years int) decimal.Decimal {
	return principal.Mul(decimalOne.Add(rate).Pow(decimal.NewFromInt(int64(years))))
}

// InflationAdjust discounts a nominal future amount back to today's money
func InflationAdjust(amount, inflationRate decimal.Decimal, years int) decimal.Decimal {
	return amount.Div(decimalOne.Add(inflationRate).Pow(decimal.NewFromInt(int64(years))))
}

// Project produces one SavingsByDate per K period sum, in the same order.
// inflationPct is a percentage (5.5 means 5.5%).
func (rp *ReturnsProjector) Project(sums []domain.KPeriodSum, s strategy.InvestmentStrategy, age int, inflationPct, annualIncome decimal.Decimal) []domain.SavingsByDate {
	years := rp.InvestmentYears(age)
	inflationRate := inflationPct.Div(decimalHundred)
	rate := s.AnnualRate()

	results := make([]domain.SavingsByDate, 0, len(sums))
	for _, sum := range sums {
		principal := sum.Amount
		result := domain.SavingsByDate{
			Start:      sum.Period.Start,
			End:        sum.Period.End,
			Amount:     principal,
			Profit:     decimal.Zero,
			TaxBenefit: decimal.Zero,
		}

		if principal.GreaterThan(decimal.Zero) {
			future := CompoundInterest(principal, rate, years)
			present := InflationAdjust(future, inflationRate, years)
			result.Profit = present.Sub(principal).Round(2)
			result.TaxBenefit = s.TaxBenefit(annualIncome, principal).Round(2)
		}

		results = append(results, result)
	}
	return results
}
