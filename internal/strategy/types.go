package strategy

import (
	"github.com/shopspring/decimal"
)

// Identifiers of the built-in strategies
const (
	IDNPS   = "nps"
	IDIndex = "index"
)

// InvestmentStrategy defines the interface for every investment vehicle.
// Implementations form a closed set ({NPS, Index}) and are stateless.
type InvestmentStrategy interface {
	// ID is the registry identifier (e.g. "nps").
	ID() string
	// Name is the human-readable name.
	Name() string
	// AnnualRate is the nominal yearly growth rate, compounded annually.
	AnnualRate() decimal.Decimal
	// TaxBenefit returns the tax saved by investing principal given annualIncome.
	TaxBenefit(annualIncome, principal decimal.Decimal) decimal.Decimal
}

// MarginalRater is implemented by strategies whose benefit depends on the
// investor's income tax slab.
type MarginalRater interface {
	MarginalRate(annualIncome decimal.Decimal) decimal.Decimal
}
