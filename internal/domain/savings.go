package domain

import (
	"github.com/shopspring/decimal"
)

// SavingsByDate is the projected outcome for a single K period
type SavingsByDate struct {
	Start      string          `json:"start" yaml:"start"`
	End        string          `json:"end" yaml:"end"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Profit     decimal.Decimal `json:"profit" yaml:"profit"`
	TaxBenefit decimal.Decimal `json:"taxBenefit" yaml:"tax_benefit"`
}

// ReturnsRequest carries everything needed to project returns for one investor.
// Wage is monthly; annual income is derived as Wage * 12.
type ReturnsRequest struct {
	Age          int             `json:"age" yaml:"age"`
	Wage         decimal.Decimal `json:"wage" yaml:"wage"`
	Inflation    decimal.Decimal `json:"inflation" yaml:"inflation"`
	Q            []QPeriod       `json:"q" yaml:"q"`
	P            []PPeriod       `json:"p" yaml:"p"`
	K            []KPeriod       `json:"k" yaml:"k"`
	Transactions []Expense       `json:"transactions" yaml:"transactions"`
}

// AnnualIncome returns the yearly income used for tax calculations
func (r *ReturnsRequest) AnnualIncome() decimal.Decimal {
	return r.Wage.Mul(decimal.NewFromInt(12))
}

// FilterRequest carries the inputs of the temporal filter pipeline
type FilterRequest struct {
	Q            []QPeriod       `json:"q" yaml:"q"`
	P            []PPeriod       `json:"p" yaml:"p"`
	K            []KPeriod       `json:"k" yaml:"k"`
	Wage         decimal.Decimal `json:"wage" yaml:"wage"`
	Transactions []Expense       `json:"transactions" yaml:"transactions"`
}

// ValidatorRequest carries already-enriched transactions to validate
type ValidatorRequest struct {
	Wage         decimal.Decimal `json:"wage" yaml:"wage"`
	Transactions []Transaction   `json:"transactions" yaml:"transactions"`
}

// ReturnsReport is the full response of a returns projection
type ReturnsReport struct {
	Strategy               string           `json:"-" yaml:"strategy"`
	TotalTransactionAmount decimal.Decimal  `json:"totalTransactionAmount" yaml:"total_transaction_amount"`
	TotalCeiling           decimal.Decimal  `json:"totalCeiling" yaml:"total_ceiling"`
	SavingsByDates         []SavingsByDate  `json:"savingsByDates" yaml:"savings_by_dates"`
	MarginalTaxRate        *decimal.Decimal `json:"-" yaml:"marginal_tax_rate,omitempty"` // nil unless the strategy has a tax benefit
}
