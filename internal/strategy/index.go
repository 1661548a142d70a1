package strategy

import (
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// IndexStrategy: NIFTY 50 index fund. Higher growth, no tax benefit.
type IndexStrategy struct {
	rate decimal.Decimal
}

// NewIndexStrategy creates the index fund strategy with the rate from rules
func NewIndexStrategy(rules domain.Rules) *IndexStrategy {
	return &IndexStrategy{rate: rules.IndexRate}
}

// ID returns "index"
func (s *IndexStrategy) ID() string { return IDIndex }

// Name returns the display name
func (s *IndexStrategy) Name() string { return "Index (NIFTY 50)" }

// AnnualRate returns the configured index fund growth rate
func (s *IndexStrategy) AnnualRate() decimal.Decimal { return s.rate }

// TaxBenefit is always zero; index funds carry no deduction
func (s *IndexStrategy) TaxBenefit(annualIncome, principal decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
