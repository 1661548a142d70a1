package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxSlab is one bracket of a progressive tax table. Upper is exclusive for
// bracket purposes; a nil Upper means the slab is unbounded.
type TaxSlab struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Rules contains every fixed constant consumed by the engine.
// It is loaded once and injected; nothing in the engine reads package globals.
type Rules struct {
	CeilingMultiple       decimal.Decimal `yaml:"ceiling_multiple" json:"ceiling_multiple"`
	RetirementAge         int             `yaml:"retirement_age" json:"retirement_age"`
	MinInvestmentYears    int             `yaml:"min_investment_years" json:"min_investment_years"`
	NPSRate               decimal.Decimal `yaml:"nps_rate" json:"nps_rate"`
	IndexRate             decimal.Decimal `yaml:"index_rate" json:"index_rate"`
	NPSMaxDeduction       decimal.Decimal `yaml:"nps_max_deduction" json:"nps_max_deduction"`
	NPSIncomePercentLimit decimal.Decimal `yaml:"nps_income_percent_limit" json:"nps_income_percent_limit"`
	TaxSlabs              []TaxSlab       `yaml:"tax_slabs" json:"tax_slabs"`
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// DefaultTaxSlabs returns the simplified INR slab table
func DefaultTaxSlabs() []TaxSlab {
	return []TaxSlab{
		{Lower: decimal.Zero, Upper: decimalPtr(decimal.NewFromInt(700000)), Rate: decimal.Zero},
		{Lower: decimal.NewFromInt(700000), Upper: decimalPtr(decimal.NewFromInt(1000000)), Rate: decimal.RequireFromString("0.10")},
		{Lower: decimal.NewFromInt(1000000), Upper: decimalPtr(decimal.NewFromInt(1200000)), Rate: decimal.RequireFromString("0.15")},
		{Lower: decimal.NewFromInt(1200000), Upper: decimalPtr(decimal.NewFromInt(1500000)), Rate: decimal.RequireFromString("0.20")},
		{Lower: decimal.NewFromInt(1500000), Upper: nil, Rate: decimal.RequireFromString("0.30")},
	}
}

// DefaultRules returns the production constants
func DefaultRules() Rules {
	return Rules{
		CeilingMultiple:       decimal.NewFromInt(100),
		RetirementAge:         60,
		MinInvestmentYears:    5,
		NPSRate:               decimal.RequireFromString("0.0711"),
		IndexRate:             decimal.RequireFromString("0.1449"),
		NPSMaxDeduction:       decimal.NewFromInt(200000),
		NPSIncomePercentLimit: decimal.RequireFromString("0.10"),
		TaxSlabs:              DefaultTaxSlabs(),
	}
}

// Validate checks that the rules are internally consistent
func (r Rules) Validate() error {
	if r.CeilingMultiple.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("ceiling multiple must be positive, got %s", r.CeilingMultiple)
	}
	if r.RetirementAge <= 0 {
		return fmt.Errorf("retirement age must be positive, got %d", r.RetirementAge)
	}
	if r.MinInvestmentYears < 0 {
		return fmt.Errorf("minimum investment years cannot be negative, got %d", r.MinInvestmentYears)
	}
	if r.NPSMaxDeduction.LessThan(decimal.Zero) {
		return fmt.Errorf("NPS max deduction cannot be negative")
	}
	if r.NPSIncomePercentLimit.LessThan(decimal.Zero) || r.NPSIncomePercentLimit.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("NPS income percent limit must be between 0 and 1")
	}
	if len(r.TaxSlabs) == 0 {
		return fmt.Errorf("at least one tax slab is required")
	}
	for i, slab := range r.TaxSlabs {
		if slab.Rate.LessThan(decimal.Zero) || slab.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("tax slab %d: rate must be between 0 and 1", i)
		}
		if slab.Upper == nil {
			if i != len(r.TaxSlabs)-1 {
				return fmt.Errorf("tax slab %d: only the last slab may be unbounded", i)
			}
			continue
		}
		if slab.Upper.LessThanOrEqual(slab.Lower) {
			return fmt.Errorf("tax slab %d: upper bound must exceed lower bound", i)
		}
		if i+1 < len(r.TaxSlabs) && !r.TaxSlabs[i+1].Lower.Equal(*slab.Upper) {
			return fmt.Errorf("tax slab %d: next slab must start at %s", i, slab.Upper)
		}
	}
	return nil
}
